package finance

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseRepository defines persistence operations for expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*Expense, error)
	// FindByIDForUpdate loads the expense and its items under a row lock
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]Expense, int64, error)
	Create(ctx context.Context, expense *Expense) error
	Save(ctx context.Context, expense *Expense) error
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	CountItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}

// ExpensePaymentRepository defines persistence operations for expense payments
type ExpensePaymentRepository interface {
	Create(ctx context.Context, payment *ExpensePayment) error
	Save(ctx context.Context, payment *ExpensePayment) error
	FindByExpense(ctx context.Context, restaurantID, expenseID uuid.UUID) ([]ExpensePayment, error)
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DetachBankTransactions(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}

// DebtRepository defines persistence operations for debts
type DebtRepository interface {
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*Debt, error)
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*Debt, error)
	FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]Debt, int64, error)
	FindBySale(ctx context.Context, restaurantID, saleID uuid.UUID) ([]Debt, error)
	Create(ctx context.Context, debt *Debt) error
	Save(ctx context.Context, debt *Debt) error
	// OutstandingByCustomer sums remaining amounts of Active debts, ignoring debts of rejected sales
	OutstandingByCustomer(ctx context.Context, restaurantID, customerID uuid.UUID) (decimal.Decimal, error)
	OutstandingByCustomers(ctx context.Context, restaurantID uuid.UUID, customerIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	// DetachSales clears the sale link on every debt of the restaurant
	DetachSales(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}

// DebtPaymentRepository defines persistence operations for debt repayments
type DebtPaymentRepository interface {
	Create(ctx context.Context, payment *DebtPayment) error
	Save(ctx context.Context, payment *DebtPayment) error
	FindByDebt(ctx context.Context, restaurantID, debtID uuid.UUID) ([]DebtPayment, error)
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DetachBankTransactions(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}

// BankTransactionRepository defines persistence operations for bank transactions
type BankTransactionRepository interface {
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*BankTransaction, error)
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*BankTransaction, error)
	FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]BankTransaction, int64, error)
	FindBySale(ctx context.Context, restaurantID, saleID uuid.UUID) ([]BankTransaction, error)
	Create(ctx context.Context, tx *BankTransaction) error
	Save(ctx context.Context, tx *BankTransaction) error
	// Aggregate sums amounts per (method, type, status)
	Aggregate(ctx context.Context, restaurantID uuid.UUID) ([]BankAggregate, error)
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	// DetachLinks clears one link on every transaction of the restaurant
	DetachLinks(ctx context.Context, restaurantID uuid.UUID, link BankLink) (int64, error)
}
