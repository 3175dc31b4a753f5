package persistence

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/production"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductionLogRepository implements ProductionLogRepository using GORM
type GormProductionLogRepository struct {
	db *gorm.DB
}

// NewGormProductionLogRepository creates a new GormProductionLogRepository
func NewGormProductionLogRepository(db *gorm.DB) *GormProductionLogRepository {
	return &GormProductionLogRepository{db: db}
}

// FindByID finds a production log and its ingredients
func (r *GormProductionLogRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*production.ProductionLog, error) {
	var log production.ProductionLog
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&log).Error; err != nil {
		return nil, translateError(err, "Production log", "find")
	}
	return &log, nil
}

// FindByIDForUpdate locks the production log row and loads its ingredients
func (r *GormProductionLogRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*production.ProductionLog, error) {
	var log production.ProductionLog
	if err := forUpdate(r.db.WithContext(ctx)).
		Preload("Items").
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&log).Error; err != nil {
		return nil, translateError(err, "Production log", "lock")
	}
	return &log, nil
}

// FindAll lists production logs filtered by "status", "preparation_status" and date range
func (r *GormProductionLogRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]production.ProductionLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&production.ProductionLog{}).
		Where("restaurant_id = ?", restaurantID)
	query = whereFilters(query, filter, map[string]string{
		"status":             "status",
		"preparation_status": "preparation_status",
	})
	query = dateRange(query, filter, "date")
	query = search(query, filter.Search, "product_name")

	rows, total, err := findPage[production.ProductionLog](query, filter, submissionSort, "date", "Items")
	if err != nil {
		return nil, 0, translateError(err, "Production log", "list")
	}
	return rows, total, nil
}

// Create inserts a production log with its ingredients
func (r *GormProductionLogRepository) Create(ctx context.Context, log *production.ProductionLog) error {
	return translateError(r.db.WithContext(ctx).Create(log).Error, "Production log", "create")
}

// Save updates the production log row only
func (r *GormProductionLogRepository) Save(ctx context.Context, log *production.ProductionLog) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(log).Error, "Production log", "save")
}

// CountByRestaurant counts the production logs of a restaurant
func (r *GormProductionLogRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &production.ProductionLog{}, restaurantID)
	return n, translateError(err, "Production log", "count")
}

// CountItemsByRestaurant counts the production ingredients of a restaurant
func (r *GormProductionLogRepository) CountItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&production.ProductionItem{}).
		Where("production_log_id IN (?)", r.ids(ctx, restaurantID)).
		Count(&n).Error
	return n, translateError(err, "Production item", "count")
}

// DeleteByRestaurant removes every production log of a restaurant
func (r *GormProductionLogRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &production.ProductionLog{}, restaurantID)
	return n, translateError(err, "Production log", "delete")
}

// DeleteItemsByRestaurant removes every production ingredient of a restaurant
func (r *GormProductionLogRepository) DeleteItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("production_log_id IN (?)", r.ids(ctx, restaurantID)).
		Delete(&production.ProductionItem{})
	return result.RowsAffected, translateError(result.Error, "Production item", "delete")
}

func (r *GormProductionLogRepository) ids(ctx context.Context, restaurantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&production.ProductionLog{}).Select("id").Where("restaurant_id = ?", restaurantID)
}

var _ production.ProductionLogRepository = (*GormProductionLogRepository)(nil)
