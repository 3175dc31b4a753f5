package shared

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/partner"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/production"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. Every command of the ledger executes inside exactly one scope.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	RestaurantRepo() identity.RestaurantRepository
	InventoryRepo() inventory.InventoryItemRepository
	MovementRepo() inventory.StockMovementRepository
	SaleRepo() sales.SaleRepository
	ExpenseRepo() finance.ExpenseRepository
	ExpensePaymentRepo() finance.ExpensePaymentRepository
	DebtRepo() finance.DebtRepository
	DebtPaymentRepo() finance.DebtPaymentRepository
	BankRepo() finance.BankTransactionRepository
	CustomerRepo() partner.CustomerRepository
	ProductionRepo() production.ProductionLogRepository
}

// Repositories is a plain set of repositories. It doubles as a transaction
// scope that does not open a real transaction, for tests with mocked repositories.
type Repositories struct {
	Restaurants     identity.RestaurantRepository
	Items           inventory.InventoryItemRepository
	Movements       inventory.StockMovementRepository
	Sales           sales.SaleRepository
	Expenses        finance.ExpenseRepository
	ExpensePayments finance.ExpensePaymentRepository
	Debts           finance.DebtRepository
	DebtPayments    finance.DebtPaymentRepository
	Bank            finance.BankTransactionRepository
	Customers       partner.CustomerRepository
	Production      production.ProductionLogRepository
}

// Execute runs fn without a real transaction
func (r *Repositories) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(r)
}

// RestaurantRepo returns the restaurants repository
func (r *Repositories) RestaurantRepo() identity.RestaurantRepository {
	return r.Restaurants
}

// InventoryRepo returns the inventory item repository
func (r *Repositories) InventoryRepo() inventory.InventoryItemRepository {
	return r.Items
}

// MovementRepo returns the stock movement repository
func (r *Repositories) MovementRepo() inventory.StockMovementRepository {
	return r.Movements
}

// SaleRepo returns the sales repository
func (r *Repositories) SaleRepo() sales.SaleRepository {
	return r.Sales
}

// ExpenseRepo returns the expenses repository
func (r *Repositories) ExpenseRepo() finance.ExpenseRepository {
	return r.Expenses
}

// ExpensePaymentRepo returns the expense payment repository
func (r *Repositories) ExpensePaymentRepo() finance.ExpensePaymentRepository {
	return r.ExpensePayments
}

// DebtRepo returns the debts repository
func (r *Repositories) DebtRepo() finance.DebtRepository {
	return r.Debts
}

// DebtPaymentRepo returns the debt payment repository
func (r *Repositories) DebtPaymentRepo() finance.DebtPaymentRepository {
	return r.DebtPayments
}

// BankRepo returns the bank transaction repository
func (r *Repositories) BankRepo() finance.BankTransactionRepository {
	return r.Bank
}

// CustomerRepo returns the customers repository
func (r *Repositories) CustomerRepo() partner.CustomerRepository {
	return r.Customers
}

// ProductionRepo returns the production log repository
func (r *Repositories) ProductionRepo() production.ProductionLogRepository {
	return r.Production
}

var _ TransactionScope = (*Repositories)(nil)
var _ TransactionalRepositories = (*Repositories)(nil)
