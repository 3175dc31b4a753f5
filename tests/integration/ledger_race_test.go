//go:build integration

package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/approval"
	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	productionapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/production"
	salesapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/persistence"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gnf = testutil.GNF

// services wires the ledger's services over one database
type services struct {
	gate       *approval.Gate
	sales      *salesapp.SaleService
	expenses   *financeapp.ExpenseService
	allocator  *financeapp.PaymentAllocator
	production *productionapp.ProductionService
}

func newServices(l *testutil.Ledger) *services {
	db := l.DB
	return &services{
		gate:  approval.NewGate(l.TxScope, nil),
		sales: salesapp.NewSaleService(l.TxScope, persistence.NewGormSaleRepository(db), nil),
		expenses: financeapp.NewExpenseService(l.TxScope, persistence.NewGormExpenseRepository(db),
			persistence.NewGormExpensePaymentRepository(db), nil, nil),
		allocator: financeapp.NewPaymentAllocator(l.TxScope,
			persistence.NewGormExpenseRepository(db), persistence.NewGormExpensePaymentRepository(db),
			persistence.NewGormDebtRepository(db), persistence.NewGormDebtPaymentRepository(db), nil),
		production: productionapp.NewProductionService(l.TxScope, persistence.NewGormProductionLogRepository(db),
			persistence.NewGormInventoryItemRepository(db), nil),
	}
}

// race runs fn n times concurrently, released together, and counts successes
func race(n int, fn func(i int) error) (succeeded int64, failures []error) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if err := fn(i); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			atomic.AddInt64(&succeeded, 1)
		}(i)
	}
	close(start)
	wg.Wait()
	return succeeded, failures
}

func TestLedgerRace_ExpensePaymentsNeverOverpay(t *testing.T) {
	tdb := NewTestDB(t)
	l := tdb.Ledger("Chez Fatou")
	svc := newServices(l)
	owner := l.Principal(t, identity.RoleOwner)
	ctx := context.Background()

	expense, err := svc.expenses.Submit(ctx, owner, financeapp.SubmitExpenseRequest{
		Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), CategoryID: testutil.NewTestUUID("category-rent"), AmountGNF: gnf(100000),
	})
	require.NoError(t, err)
	_, err = svc.gate.Approve(ctx, owner, approval.KindExpense, expense.ID)
	require.NoError(t, err)

	succeeded, failures := race(8, func(int) error {
		_, err := svc.allocator.AllocateExpensePayment(ctx, owner, expense.ID, financeapp.ExpensePaymentRequest{
			Amount: gnf(20000), PaymentMethod: shared.PaymentMethodCash,
		})
		return err
	})

	assert.Equal(t, int64(5), succeeded)
	for _, err := range failures {
		assert.True(t, shared.IsDomainError(err, shared.CodeOverpayment), "unexpected failure: %v", err)
	}

	stored, err := svc.expenses.Get(ctx, owner, expense.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPaidAmount.Equal(gnf(100000)))
	assert.Equal(t, finance.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, int64(5), l.Count(t, "expense_payments"))
	assert.Equal(t, int64(5), l.Count(t, "bank_transactions"))
}

func TestLedgerRace_DebtRepaymentsNeverOverpay(t *testing.T) {
	tdb := NewTestDB(t)
	l := tdb.Ledger("Chez Fatou")
	svc := newServices(l)
	manager := l.Principal(t, identity.RoleManager)
	customer := l.SeedCustomer(t, "Alpha", nil)
	ctx := context.Background()

	debts := financeapp.NewDebtService(l.TxScope, persistence.NewGormDebtRepository(l.DB), persistence.NewGormDebtPaymentRepository(l.DB), nil)
	debt, err := debts.CreateDebt(ctx, manager, financeapp.CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(90000)})
	require.NoError(t, err)

	succeeded, _ := race(6, func(int) error {
		_, err := svc.allocator.AllocateDebtPayment(ctx, manager, debt.ID, financeapp.DebtPaymentRequest{
			Amount: gnf(30000), PaymentMethod: shared.PaymentMethodCash,
		})
		return err
	})
	assert.Equal(t, int64(3), succeeded)

	var stored finance.Debt
	require.NoError(t, l.DB.First(&stored, "id = ?", debt.ID).Error)
	assert.Equal(t, finance.DebtStatusPaidOff, stored.Status)
	assert.True(t, stored.RemainingAmount.IsZero())
}

func TestLedgerRace_SaleApprovedOnce(t *testing.T) {
	tdb := NewTestDB(t)
	l := tdb.Ledger("Chez Fatou")
	svc := newServices(l)
	owner := l.Principal(t, identity.RoleOwner)
	ctx := context.Background()

	sale, err := svc.sales.SubmitSale(ctx, owner, salesapp.SubmitSaleRequest{
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), CashGNF: gnf(500000), OrangeMoneyGNF: gnf(250000),
	})
	require.NoError(t, err)

	succeeded, failures := race(5, func(int) error {
		_, err := svc.gate.Approve(ctx, owner, approval.KindSale, sale.ID)
		return err
	})

	assert.Equal(t, int64(1), succeeded)
	for _, err := range failures {
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidState), "unexpected failure: %v", err)
	}
	assert.Equal(t, int64(2), l.Count(t, "bank_transactions"))
}

func TestLedgerRace_OneSalePerDay(t *testing.T) {
	tdb := NewTestDB(t)
	l := tdb.Ledger("Chez Fatou")
	svc := newServices(l)
	editor := l.Principal(t, identity.RoleEditor)
	ctx := context.Background()
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	succeeded, failures := race(4, func(i int) error {
		_, err := svc.sales.SubmitSale(ctx, editor, salesapp.SubmitSaleRequest{Date: day, CashGNF: gnf(int64(i+1) * 1000)})
		return err
	})

	assert.Equal(t, int64(1), succeeded)
	for _, err := range failures {
		assert.True(t, shared.IsDomainError(err, shared.CodeAlreadyExists), "unexpected failure: %v", err)
	}
	assert.Equal(t, int64(1), l.Count(t, "sales"))
}

func TestLedgerRace_ProductionNeverDrivesStockNegative(t *testing.T) {
	tdb := NewTestDB(t)
	l := tdb.Ledger("Chez Fatou")
	svc := newServices(l)
	owner := l.Principal(t, identity.RoleOwner)
	flour := l.SeedItem(t, "Farine", gnf(20), gnf(9000))
	ctx := context.Background()

	var batches []uuid.UUID
	for i := 0; i < 3; i++ {
		log, err := svc.production.SubmitProduction(ctx, owner, productionapp.SubmitProductionRequest{
			Date:        time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			ProductName: "Pain",
			Quantity:    gnf(100),
			DeductStock: true,
			Ingredients: []inventory.Requirement{{ItemID: flour.ID, Quantity: gnf(8)}},
		})
		require.NoError(t, err)
		batches = append(batches, log.ID)
	}

	succeeded, failures := race(len(batches), func(i int) error {
		_, err := svc.gate.Approve(ctx, owner, approval.KindProduction, batches[i])
		return err
	})

	assert.Equal(t, int64(2), succeeded)
	require.Len(t, failures, 1)
	assert.True(t, shared.IsDomainError(failures[0], shared.CodeInsufficientStock))

	item, err := persistence.NewGormInventoryItemRepository(l.DB).FindByID(ctx, l.Restaurant.ID, flour.ID)
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.Equal(gnf(4)))

	var sum struct{ Total float64 }
	require.NoError(t, l.DB.Table("stock_movements").Select("COALESCE(SUM(quantity), 0) AS total").
		Where("item_id = ?", flour.ID).Scan(&sum).Error)
	assert.InDelta(t, 4, sum.Total, 0.0001, "movements add up to the stored stock")
}
