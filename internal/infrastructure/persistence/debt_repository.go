package persistence

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDebtRepository implements DebtRepository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

// FindByID finds a debt by ID within a restaurant
func (r *GormDebtRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*finance.Debt, error) {
	var debt finance.Debt
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&debt).Error; err != nil {
		return nil, translateError(err, "Debt", "find")
	}
	return &debt, nil
}

// FindByIDForUpdate finds a debt and locks its row
func (r *GormDebtRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*finance.Debt, error) {
	var debt finance.Debt
	if err := forUpdate(r.db.WithContext(ctx)).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&debt).Error; err != nil {
		return nil, translateError(err, "Debt", "lock")
	}
	return &debt, nil
}

// FindAll lists debts filtered by "customer_id" and "status"
func (r *GormDebtRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]finance.Debt, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.Debt{}).
		Where("restaurant_id = ?", restaurantID)
	query = whereFilters(query, filter, map[string]string{
		"customer_id": "customer_id",
		"status":      "status",
	})
	query = search(query, filter.Search, "description")

	rows, total, err := findPage[finance.Debt](query, filter, debtSort, "created_at")
	if err != nil {
		return nil, 0, translateError(err, "Debt", "list")
	}
	return rows, total, nil
}

// FindBySale lists the debts created by a credit sale
func (r *GormDebtRepository) FindBySale(ctx context.Context, restaurantID, saleID uuid.UUID) ([]finance.Debt, error) {
	var debts []finance.Debt
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND sale_id = ?", restaurantID, saleID).
		Order("created_at ASC").Order("id ASC").
		Find(&debts).Error; err != nil {
		return nil, translateError(err, "Debt", "list")
	}
	return debts, nil
}

// Create inserts a debt
func (r *GormDebtRepository) Create(ctx context.Context, debt *finance.Debt) error {
	return translateError(r.db.WithContext(ctx).Create(debt).Error, "Debt", "create")
}

// Save updates a debt
func (r *GormDebtRepository) Save(ctx context.Context, debt *finance.Debt) error {
	return translateError(r.db.WithContext(ctx).Save(debt).Error, "Debt", "save")
}

// outstanding selects Active debts that do not belong to a rejected sale
func (r *GormDebtRepository) outstanding(ctx context.Context, restaurantID uuid.UUID) *gorm.DB {
	rejected := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Select("id").
		Where("restaurant_id = ? AND status = ?", restaurantID, shared.SubmissionRejected)
	return r.db.WithContext(ctx).Model(&finance.Debt{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, finance.DebtStatusActive).
		Where("(sale_id IS NULL OR sale_id NOT IN (?))", rejected)
}

// OutstandingByCustomer sums the remaining amounts owed by one customer
func (r *GormDebtRepository) OutstandingByCustomer(ctx context.Context, restaurantID, customerID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.outstanding(ctx, restaurantID).
		Select("COALESCE(SUM(remaining_amount), 0) AS total").
		Where("customer_id = ?", customerID).
		Scan(&row).Error; err != nil {
		return decimal.Zero, translateError(err, "Debt", "sum")
	}
	return row.Total, nil
}

// OutstandingByCustomers sums the remaining amounts per customer; customers without debt are absent
func (r *GormDebtRepository) OutstandingByCustomers(ctx context.Context, restaurantID uuid.UUID, customerIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(customerIDs))
	if len(customerIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		CustomerID uuid.UUID
		Total      decimal.Decimal
	}
	if err := r.outstanding(ctx, restaurantID).
		Select("customer_id, COALESCE(SUM(remaining_amount), 0) AS total").
		Where("customer_id IN ?", customerIDs).
		Group("customer_id").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "Debt", "sum")
	}
	for _, row := range rows {
		result[row.CustomerID] = row.Total
	}
	return result, nil
}

// CountByRestaurant counts the debts of a restaurant
func (r *GormDebtRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &finance.Debt{}, restaurantID)
	return n, translateError(err, "Debt", "count")
}

// DeleteByRestaurant removes every debt of a restaurant
func (r *GormDebtRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &finance.Debt{}, restaurantID)
	return n, translateError(err, "Debt", "delete")
}

// DetachSales clears the sale link on every debt of a restaurant
func (r *GormDebtRepository) DetachSales(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&finance.Debt{}).
		Where("restaurant_id = ? AND sale_id IS NOT NULL", restaurantID).
		Update("sale_id", nil)
	return result.RowsAffected, translateError(result.Error, "Debt", "detach")
}

// GormDebtPaymentRepository implements DebtPaymentRepository using GORM
type GormDebtPaymentRepository struct {
	db *gorm.DB
}

// NewGormDebtPaymentRepository creates a new GormDebtPaymentRepository
func NewGormDebtPaymentRepository(db *gorm.DB) *GormDebtPaymentRepository {
	return &GormDebtPaymentRepository{db: db}
}

// Create inserts a repayment
func (r *GormDebtPaymentRepository) Create(ctx context.Context, payment *finance.DebtPayment) error {
	return translateError(r.db.WithContext(ctx).Create(payment).Error, "Debt payment", "create")
}

// Save updates a repayment
func (r *GormDebtPaymentRepository) Save(ctx context.Context, payment *finance.DebtPayment) error {
	return translateError(r.db.WithContext(ctx).Save(payment).Error, "Debt payment", "save")
}

// FindByDebt lists the repayments of a debt, oldest first
func (r *GormDebtPaymentRepository) FindByDebt(ctx context.Context, restaurantID, debtID uuid.UUID) ([]finance.DebtPayment, error) {
	var payments []finance.DebtPayment
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND debt_id = ?", restaurantID, debtID).
		Order("payment_date ASC").Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, translateError(err, "Debt payment", "list")
	}
	return payments, nil
}

// CountByRestaurant counts the debt payments of a restaurant
func (r *GormDebtPaymentRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &finance.DebtPayment{}, restaurantID)
	return n, translateError(err, "Debt payment", "count")
}

// DeleteByRestaurant removes every debt payment of a restaurant
func (r *GormDebtPaymentRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &finance.DebtPayment{}, restaurantID)
	return n, translateError(err, "Debt payment", "delete")
}

// DetachBankTransactions clears the bank link on every debt payment of a restaurant
func (r *GormDebtPaymentRepository) DetachBankTransactions(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&finance.DebtPayment{}).
		Where("restaurant_id = ? AND bank_transaction_id IS NOT NULL", restaurantID).
		Update("bank_transaction_id", nil)
	return result.RowsAffected, translateError(result.Error, "Debt payment", "detach")
}

var (
	_ finance.DebtRepository        = (*GormDebtRepository)(nil)
	_ finance.DebtPaymentRepository = (*GormDebtPaymentRepository)(nil)
)
