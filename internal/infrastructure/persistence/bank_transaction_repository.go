package persistence

import (
	"context"
	"fmt"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBankTransactionRepository implements BankTransactionRepository using GORM
type GormBankTransactionRepository struct {
	db *gorm.DB
}

// NewGormBankTransactionRepository creates a new GormBankTransactionRepository
func NewGormBankTransactionRepository(db *gorm.DB) *GormBankTransactionRepository {
	return &GormBankTransactionRepository{db: db}
}

// FindByID finds a bank transaction by ID within a restaurant
func (r *GormBankTransactionRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*finance.BankTransaction, error) {
	var tx finance.BankTransaction
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&tx).Error; err != nil {
		return nil, translateError(err, "Bank transaction", "find")
	}
	return &tx, nil
}

// FindByIDForUpdate finds a bank transaction and locks its row
func (r *GormBankTransactionRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*finance.BankTransaction, error) {
	var tx finance.BankTransaction
	if err := forUpdate(r.db.WithContext(ctx)).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&tx).Error; err != nil {
		return nil, translateError(err, "Bank transaction", "lock")
	}
	return &tx, nil
}

// FindAll lists transactions filtered by "status", "method", "type", date range and search
func (r *GormBankTransactionRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]finance.BankTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.BankTransaction{}).
		Where("restaurant_id = ?", restaurantID)
	query = whereFilters(query, filter, map[string]string{
		"status": "status",
		"method": "method",
		"type":   "type",
	})
	query = dateRange(query, filter, "date")
	query = search(query, filter.Search, "description", "bank_ref")

	rows, total, err := findPage[finance.BankTransaction](query, filter, bankTransactionSort, "date")
	if err != nil {
		return nil, 0, translateError(err, "Bank transaction", "list")
	}
	return rows, total, nil
}

// FindBySale lists the deposits created by a sale's approval
func (r *GormBankTransactionRepository) FindBySale(ctx context.Context, restaurantID, saleID uuid.UUID) ([]finance.BankTransaction, error) {
	var txs []finance.BankTransaction
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND linked_sale_id = ?", restaurantID, saleID).
		Order("method ASC").
		Find(&txs).Error; err != nil {
		return nil, translateError(err, "Bank transaction", "list")
	}
	return txs, nil
}

// Create inserts a bank transaction
func (r *GormBankTransactionRepository) Create(ctx context.Context, tx *finance.BankTransaction) error {
	return translateError(r.db.WithContext(ctx).Create(tx).Error, "Bank transaction", "create")
}

// Save updates a bank transaction
func (r *GormBankTransactionRepository) Save(ctx context.Context, tx *finance.BankTransaction) error {
	return translateError(r.db.WithContext(ctx).Save(tx).Error, "Bank transaction", "save")
}

// Aggregate sums amounts per (method, type, status)
func (r *GormBankTransactionRepository) Aggregate(ctx context.Context, restaurantID uuid.UUID) ([]finance.BankAggregate, error) {
	var buckets []finance.BankAggregate
	if err := r.db.WithContext(ctx).Model(&finance.BankTransaction{}).
		Select("method, type, status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("restaurant_id = ?", restaurantID).
		Group("method, type, status").
		Scan(&buckets).Error; err != nil {
		return nil, translateError(err, "Bank transaction", "aggregate")
	}
	return buckets, nil
}

// CountByRestaurant counts the bank transactions of a restaurant
func (r *GormBankTransactionRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &finance.BankTransaction{}, restaurantID)
	return n, translateError(err, "Bank transaction", "count")
}

// DeleteByRestaurant removes every bank transaction of a restaurant
func (r *GormBankTransactionRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &finance.BankTransaction{}, restaurantID)
	return n, translateError(err, "Bank transaction", "delete")
}

// DetachLinks clears one link column on every transaction of a restaurant
func (r *GormBankTransactionRepository) DetachLinks(ctx context.Context, restaurantID uuid.UUID, link finance.BankLink) (int64, error) {
	switch link {
	case finance.BankLinkSale, finance.BankLinkDebtPayment, finance.BankLinkExpensePayment:
	default:
		return 0, fmt.Errorf("detach Bank transaction: unknown link %q", link)
	}
	column := string(link)
	result := r.db.WithContext(ctx).Model(&finance.BankTransaction{}).
		Where("restaurant_id = ? AND "+column+" IS NOT NULL", restaurantID).
		Update(column, nil)
	return result.RowsAffected, translateError(result.Error, "Bank transaction", "detach")
}

var _ finance.BankTransactionRepository = (*GormBankTransactionRepository)(nil)
