package finance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/approval"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/persistence"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	*testutil.Ledger
	owner   identity.Principal
	manager identity.Principal
	editor  identity.Principal
	events  *testutil.RecordingPublisher

	allocator *PaymentAllocator
	expenses  *ExpenseService
	debts     *DebtService
	bank      *BankReconciler
	gate      *approval.Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := testutil.NewLedger(t)
	f := &fixture{
		Ledger:  l,
		owner:   l.Principal(t, identity.RoleOwner),
		manager: l.Principal(t, identity.RoleManager),
		editor:  l.Principal(t, identity.RoleEditor),
		events:  &testutil.RecordingPublisher{},
	}

	expenseRepo := persistence.NewGormExpenseRepository(l.DB)
	expensePaymentRepo := persistence.NewGormExpensePaymentRepository(l.DB)
	debtRepo := persistence.NewGormDebtRepository(l.DB)
	debtPaymentRepo := persistence.NewGormDebtPaymentRepository(l.DB)
	bankRepo := persistence.NewGormBankTransactionRepository(l.DB)

	f.allocator = NewPaymentAllocator(l.TxScope, expenseRepo, expensePaymentRepo, debtRepo, debtPaymentRepo, nil)
	f.expenses = NewExpenseService(l.TxScope, expenseRepo, expensePaymentRepo, nil, nil)
	f.debts = NewDebtService(l.TxScope, debtRepo, debtPaymentRepo, nil)
	f.bank = NewBankReconciler(l.TxScope, bankRepo, nil, nil)
	f.gate = approval.NewGate(l.TxScope, nil)

	f.allocator.SetEventPublisher(f.events)
	f.expenses.SetEventPublisher(f.events)
	f.debts.SetEventPublisher(f.events)
	f.bank.SetEventPublisher(f.events)
	return f
}

func (f *fixture) submitExpense(t *testing.T, amount int64) *finance.Expense {
	t.Helper()
	expense, err := f.expenses.Submit(context.Background(), f.manager, SubmitExpenseRequest{
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CategoryID:  testutil.NewTestUUID("category-gas"),
		AmountGNF:   testutil.GNF(amount),
		Description: "Gaz",
	})
	require.NoError(t, err)
	return expense
}

func (f *fixture) approvedExpense(t *testing.T, amount int64) *finance.Expense {
	t.Helper()
	expense := f.submitExpense(t, amount)
	_, err := f.gate.Approve(context.Background(), f.owner, approval.KindExpense, expense.ID)
	require.NoError(t, err)
	return expense
}

func (f *fixture) manualDebt(t *testing.T, amount int64) *finance.Debt {
	t.Helper()
	customer := f.SeedCustomer(t, "Client "+uuid.NewString()[:8], nil)
	debt, err := f.debts.CreateDebt(context.Background(), f.manager, CreateDebtRequest{
		CustomerID: customer.ID,
		Amount:     testutil.GNF(amount),
	})
	require.NoError(t, err)
	return debt
}

func (f *fixture) bankTransactions(t *testing.T) []finance.BankTransaction {
	t.Helper()
	page, err := f.bank.ListTransactions(context.Background(), f.owner, BankListFilter{Page: 1, Size: 100})
	require.NoError(t, err)
	return page.Items
}

// memoryCache is a BalanceCache that counts its calls.
type memoryCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]BankSummary
	generations map[uuid.UUID]uint64
	gets        int
	invalidated int
	staleSets   int
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[uuid.UUID]BankSummary{}, generations: map[uuid.UUID]uint64{}}
}

func (c *memoryCache) Get(_ context.Context, restaurantID uuid.UUID) (*BankSummary, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	gen := c.generations[restaurantID]
	s, ok := c.entries[restaurantID]
	if !ok {
		return nil, gen, nil
	}
	return &s, gen, nil
}

func (c *memoryCache) Set(_ context.Context, restaurantID uuid.UUID, summary BankSummary, generation uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[restaurantID] != generation {
		c.staleSets++
		return nil
	}
	c.entries[restaurantID] = summary
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, restaurantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.generations[restaurantID]++
	delete(c.entries, restaurantID)
	return nil
}

// interleavedBankRepo runs afterAggregate once the balance query has returned,
// letting a test slip a write in between the read and the cache fill.
type interleavedBankRepo struct {
	finance.BankTransactionRepository
	afterAggregate func()
}

func (r *interleavedBankRepo) Aggregate(ctx context.Context, restaurantID uuid.UUID) ([]finance.BankAggregate, error) {
	buckets, err := r.BankTransactionRepository.Aggregate(ctx, restaurantID)
	if hook := r.afterAggregate; hook != nil {
		r.afterAggregate = nil
		hook()
	}
	return buckets, err
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, shared.IsDomainError(err, code), "expected %s, got %v", code, err)
}

func gnf(v int64) decimal.Decimal {
	return testutil.GNF(v)
}
