package persistence

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense and its items
func (r *GormExpenseRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*finance.Expense, error) {
	var expense finance.Expense
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&expense).Error; err != nil {
		return nil, translateError(err, "Expense", "find")
	}
	return &expense, nil
}

// FindByIDForUpdate locks the expense row and loads its items
func (r *GormExpenseRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*finance.Expense, error) {
	var expense finance.Expense
	if err := forUpdate(r.db.WithContext(ctx)).
		Preload("Items").
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&expense).Error; err != nil {
		return nil, translateError(err, "Expense", "lock")
	}
	return &expense, nil
}

// FindAll lists expenses filtered by "status", "payment_status", date range and description search
func (r *GormExpenseRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]finance.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.Expense{}).
		Where("restaurant_id = ?", restaurantID)
	query = whereFilters(query, filter, map[string]string{
		"status":         "status",
		"payment_status": "payment_status",
	})
	query = dateRange(query, filter, "date")
	query = search(query, filter.Search, "description", "billing_ref")

	rows, total, err := findPage[finance.Expense](query, filter, submissionSort, "date", "Items")
	if err != nil {
		return nil, 0, translateError(err, "Expense", "list")
	}
	return rows, total, nil
}

// Create inserts an expense with its items
func (r *GormExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	return translateError(r.db.WithContext(ctx).Create(expense).Error, "Expense", "create")
}

// Save updates the expense row only
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(expense).Error, "Expense", "save")
}

// CountByRestaurant counts the expenses of a restaurant
func (r *GormExpenseRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &finance.Expense{}, restaurantID)
	return n, translateError(err, "Expense", "count")
}

// CountItemsByRestaurant counts the expense items of a restaurant
func (r *GormExpenseRepository) CountItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&finance.ExpenseItem{}).
		Where("expense_id IN (?)", r.ids(ctx, restaurantID)).
		Count(&n).Error
	return n, translateError(err, "Expense item", "count")
}

// DeleteByRestaurant removes every expense of a restaurant
func (r *GormExpenseRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &finance.Expense{}, restaurantID)
	return n, translateError(err, "Expense", "delete")
}

// DeleteItemsByRestaurant removes every expense item of a restaurant
func (r *GormExpenseRepository) DeleteItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expense_id IN (?)", r.ids(ctx, restaurantID)).
		Delete(&finance.ExpenseItem{})
	return result.RowsAffected, translateError(result.Error, "Expense item", "delete")
}

func (r *GormExpenseRepository) ids(ctx context.Context, restaurantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&finance.Expense{}).Select("id").Where("restaurant_id = ?", restaurantID)
}

// GormExpensePaymentRepository implements ExpensePaymentRepository using GORM
type GormExpensePaymentRepository struct {
	db *gorm.DB
}

// NewGormExpensePaymentRepository creates a new GormExpensePaymentRepository
func NewGormExpensePaymentRepository(db *gorm.DB) *GormExpensePaymentRepository {
	return &GormExpensePaymentRepository{db: db}
}

// Create inserts a payment
func (r *GormExpensePaymentRepository) Create(ctx context.Context, payment *finance.ExpensePayment) error {
	return translateError(r.db.WithContext(ctx).Create(payment).Error, "Expense payment", "create")
}

// Save updates a payment
func (r *GormExpensePaymentRepository) Save(ctx context.Context, payment *finance.ExpensePayment) error {
	return translateError(r.db.WithContext(ctx).Save(payment).Error, "Expense payment", "save")
}

// FindByExpense lists the payments of an expense, oldest first
func (r *GormExpensePaymentRepository) FindByExpense(ctx context.Context, restaurantID, expenseID uuid.UUID) ([]finance.ExpensePayment, error) {
	var payments []finance.ExpensePayment
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND expense_id = ?", restaurantID, expenseID).
		Order("paid_at ASC").Order("id ASC").
		Find(&payments).Error; err != nil {
		return nil, translateError(err, "Expense payment", "list")
	}
	return payments, nil
}

// CountByRestaurant counts the expense payments of a restaurant
func (r *GormExpensePaymentRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &finance.ExpensePayment{}, restaurantID)
	return n, translateError(err, "Expense payment", "count")
}

// DeleteByRestaurant removes every expense payment of a restaurant
func (r *GormExpensePaymentRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &finance.ExpensePayment{}, restaurantID)
	return n, translateError(err, "Expense payment", "delete")
}

// DetachBankTransactions clears the bank link on every expense payment of a restaurant
func (r *GormExpensePaymentRepository) DetachBankTransactions(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&finance.ExpensePayment{}).
		Where("restaurant_id = ? AND bank_transaction_id IS NOT NULL", restaurantID).
		Update("bank_transaction_id", nil)
	return result.RowsAffected, translateError(result.Error, "Expense payment", "detach")
}

var (
	_ finance.ExpenseRepository        = (*GormExpenseRepository)(nil)
	_ finance.ExpensePaymentRepository = (*GormExpensePaymentRepository)(nil)
)
