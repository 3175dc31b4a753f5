package persistence

import (
	"context"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale and its items
func (r *GormSaleRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&sale).Error; err != nil {
		return nil, translateError(err, "Sale", "find")
	}
	return &sale, nil
}

// FindByIDForUpdate finds a sale and locks its row
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := forUpdate(r.db.WithContext(ctx)).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&sale).Error; err != nil {
		return nil, translateError(err, "Sale", "lock")
	}
	return &sale, nil
}

// FindAll lists sales filtered by "status" and date range
func (r *GormSaleRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("restaurant_id = ?", restaurantID)
	query = whereFilters(query, filter, map[string]string{"status": "status"})
	query = dateRange(query, filter, "date")

	rows, total, err := findPage[sales.Sale](query, filter, submissionSort, "date", "Items")
	if err != nil {
		return nil, 0, translateError(err, "Sale", "list")
	}
	return rows, total, nil
}

// ExistsByDate reports whether the restaurant already has a sale on the calendar date
func (r *GormSaleRepository) ExistsByDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("restaurant_id = ? AND date = ?", restaurantID, date).
		Count(&n).Error; err != nil {
		return false, translateError(err, "Sale", "check")
	}
	return n > 0, nil
}

// Create inserts a sale with its items
// Create inserts the sale with its items. Losing the one-sale-per-date race
// against a concurrent submission yields ALREADY_EXISTS.
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	err := r.db.WithContext(ctx).Create(sale).Error
	if isUniqueViolation(err) {
		return sales.NewDuplicateDateError(sale.Date)
	}
	return translateError(err, "Sale", "create")
}

// Save updates the sale row only; items are immutable after creation
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error, "Sale", "save")
}

// CountByRestaurant counts the sales of a restaurant
func (r *GormSaleRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &sales.Sale{}, restaurantID)
	return n, translateError(err, "Sale", "count")
}

// CountItemsByRestaurant counts the sale items of a restaurant
func (r *GormSaleRepository) CountItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&sales.SaleItem{}).
		Where("sale_id IN (?)", r.ids(ctx, restaurantID)).
		Count(&n).Error
	return n, translateError(err, "Sale item", "count")
}

// DeleteByRestaurant removes every sale of a restaurant
func (r *GormSaleRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &sales.Sale{}, restaurantID)
	return n, translateError(err, "Sale", "delete")
}

// DeleteItemsByRestaurant removes every sale item of a restaurant
func (r *GormSaleRepository) DeleteItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("sale_id IN (?)", r.ids(ctx, restaurantID)).
		Delete(&sales.SaleItem{})
	return result.RowsAffected, translateError(result.Error, "Sale item", "delete")
}

func (r *GormSaleRepository) ids(ctx context.Context, restaurantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&sales.Sale{}).Select("id").Where("restaurant_id = ?", restaurantID)
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
