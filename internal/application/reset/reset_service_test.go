package reset

import (
	"context"
	"testing"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/approval"
	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	productionapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/production"
	salesapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/reset"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/persistence"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gnf = testutil.GNF

// populated is a restaurant with one record in every category:
// an approved sale with a credit line, a paid expense, a partly repaid debt,
// an approved production batch and the bank rows they produced.
type populated struct {
	*testutil.Ledger
	owner  identity.Principal
	flour  *inventory.InventoryItem
	events *testutil.RecordingPublisher
	svc    *ResetService
}

func newPopulated(t *testing.T) *populated {
	t.Helper()
	ctx := context.Background()
	l := testutil.NewLedger(t)
	p := &populated{
		Ledger: l,
		owner:  l.Principal(t, identity.RoleOwner),
		events: &testutil.RecordingPublisher{},
		svc:    NewResetService(l.TxScope, nil),
	}
	p.svc.SetEventPublisher(p.events)
	p.flour = l.SeedItem(t, "Farine", gnf(10), gnf(9000))
	customer := l.SeedCustomer(t, "Mariama", nil)
	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	gate := approval.NewGate(l.TxScope, nil)
	sales := salesapp.NewSaleService(l.TxScope, persistence.NewGormSaleRepository(l.DB), nil)
	expenses := financeapp.NewExpenseService(l.TxScope, persistence.NewGormExpenseRepository(l.DB),
		persistence.NewGormExpensePaymentRepository(l.DB), nil, nil)
	allocator := financeapp.NewPaymentAllocator(l.TxScope,
		persistence.NewGormExpenseRepository(l.DB), persistence.NewGormExpensePaymentRepository(l.DB),
		persistence.NewGormDebtRepository(l.DB), persistence.NewGormDebtPaymentRepository(l.DB), nil)
	production := productionapp.NewProductionService(l.TxScope, persistence.NewGormProductionLogRepository(l.DB),
		persistence.NewGormInventoryItemRepository(l.DB), nil)

	sale, err := sales.SubmitSale(ctx, p.owner, salesapp.SubmitSaleRequest{
		Date:        day,
		CashGNF:     gnf(200000),
		CreditLines: []salesapp.CreditLineRequest{{CustomerID: customer.ID, Amount: gnf(50000)}},
	})
	require.NoError(t, err)
	_, err = gate.Approve(ctx, p.owner, approval.KindSale, sale.ID)
	require.NoError(t, err)

	var debt finance.Debt
	require.NoError(t, l.DB.Where("sale_id = ?", sale.ID).First(&debt).Error)
	_, err = allocator.AllocateDebtPayment(ctx, p.owner, debt.ID, financeapp.DebtPaymentRequest{Amount: gnf(20000), PaymentMethod: shared.PaymentMethodCash})
	require.NoError(t, err)

	expense, err := expenses.Submit(ctx, p.owner, financeapp.SubmitExpenseRequest{
		Date: day, CategoryID: testutil.NewTestUUID("category-gas"), AmountGNF: gnf(30000),
	})
	require.NoError(t, err)
	_, err = gate.Approve(ctx, p.owner, approval.KindExpense, expense.ID)
	require.NoError(t, err)
	_, err = allocator.AllocateExpensePayment(ctx, p.owner, expense.ID, financeapp.ExpensePaymentRequest{Amount: gnf(30000), PaymentMethod: shared.PaymentMethodCash})
	require.NoError(t, err)

	batch, err := production.SubmitProduction(ctx, p.owner, productionapp.SubmitProductionRequest{
		Date: day, ProductName: "Baguette", Quantity: gnf(120), DeductStock: true,
		Ingredients: []inventory.Requirement{{ItemID: p.flour.ID, Quantity: gnf(4)}},
	})
	require.NoError(t, err)
	_, err = gate.Approve(ctx, p.owner, approval.KindProduction, batch.ID)
	require.NoError(t, err)

	return p
}

func (p *populated) execute(t *testing.T, types ...string) *ExecuteResponse {
	t.Helper()
	resp, err := p.svc.ExecuteReset(context.Background(), p.owner, ExecuteResetRequest{
		Types:              types,
		ConfirmationPhrase: p.Restaurant.Name,
	})
	require.NoError(t, err)
	return resp
}

func TestResetService_Preview(t *testing.T) {
	p := newPopulated(t)

	preview, err := p.svc.PreviewReset(context.Background(), p.owner)
	require.NoError(t, err)

	assert.Equal(t, "Chez Fatou", preview.RestaurantName)
	assert.Equal(t, reset.CategoryResult{Count: 1, RelatedCount: 0}, preview.Counts[reset.CategorySales])
	assert.Equal(t, reset.CategoryResult{Count: 1, RelatedCount: 1}, preview.Counts[reset.CategoryExpenses])
	assert.Equal(t, reset.CategoryResult{Count: 1, RelatedCount: 1}, preview.Counts[reset.CategoryDebts])
	assert.Equal(t, reset.CategoryResult{Count: 1, RelatedCount: 1}, preview.Counts[reset.CategoryProduction])
	assert.Equal(t, reset.CategoryResult{Count: 2, RelatedCount: 1}, preview.Counts[reset.CategoryInventory])
	assert.Equal(t, reset.CategoryResult{Count: 3, RelatedCount: 0}, preview.Counts[reset.CategoryBank])
	assert.Equal(t, int64(13), preview.Total)

	assert.Equal(t, int64(1), p.Count(t, "sales"), "preview deletes nothing")
}

func TestResetService_Execute(t *testing.T) {
	t.Run("sales only keeps the debts and bank rows", func(t *testing.T) {
		p := newPopulated(t)

		resp := p.execute(t, "sales")
		assert.True(t, resp.Success)
		assert.Equal(t, int64(1), resp.Deleted[reset.CategorySales].Count)

		assert.Zero(t, p.Count(t, "sales"))
		assert.Equal(t, int64(1), p.Count(t, "debts"))
		assert.Equal(t, int64(3), p.Count(t, "bank_transactions"))

		var linked int64
		require.NoError(t, p.DB.Model(&finance.Debt{}).Where("sale_id IS NOT NULL").Count(&linked).Error)
		assert.Zero(t, linked)
		require.NoError(t, p.DB.Model(&finance.BankTransaction{}).Where("linked_sale_id IS NOT NULL").Count(&linked).Error)
		assert.Zero(t, linked)

		assert.Equal(t, []string{reset.EventTypeTenantDataReset}, p.events.Types())
	})

	t.Run("bank only detaches payments", func(t *testing.T) {
		p := newPopulated(t)

		p.execute(t, "bank")
		assert.Zero(t, p.Count(t, "bank_transactions"))
		assert.Equal(t, int64(1), p.Count(t, "expense_payments"))
		assert.Equal(t, int64(1), p.Count(t, "debt_payments"))

		var linked int64
		require.NoError(t, p.DB.Model(&finance.ExpensePayment{}).Where("bank_transaction_id IS NOT NULL").Count(&linked).Error)
		assert.Zero(t, linked)
		assert.ElementsMatch(t, []string{reset.EventTypeTenantDataReset, finance.EventTypeBankTransactionsPurged}, p.events.Types())
	})

	t.Run("everything leaves customers and items", func(t *testing.T) {
		p := newPopulated(t)
		other := p.SeedRestaurant(t, "Le Damier")
		outsider := p.PrincipalIn(t, other.ID, identity.RoleOwner)
		_, err := salesapp.NewSaleService(p.TxScope, persistence.NewGormSaleRepository(p.DB), nil).
			SubmitSale(context.Background(), outsider, salesapp.SubmitSaleRequest{Date: time.Now(), CashGNF: gnf(1000)})
		require.NoError(t, err)

		resp := p.execute(t, reset.Names()...)
		assert.Equal(t, int64(13), resp.Deleted.Total())

		for _, table := range []string{"sales", "expenses", "expense_payments", "debts", "debt_payments", "production_logs", "stock_movements", "bank_transactions"} {
			assert.Zero(t, p.Count(t, table), table)
		}
		assert.Equal(t, int64(1), p.Count(t, "customers"))
		assert.Equal(t, int64(1), p.Count(t, "inventory_items"))

		item, err := persistence.NewGormInventoryItemRepository(p.DB).FindByID(context.Background(), p.Restaurant.ID, p.flour.ID)
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.IsZero())

		var remaining int64
		require.NoError(t, p.DB.Table("sales").Where("restaurant_id = ?", other.ID).Count(&remaining).Error)
		assert.Equal(t, int64(1), remaining)
	})

	t.Run("confirmation ignores case only", func(t *testing.T) {
		p := newPopulated(t)
		ctx := context.Background()

		_, err := p.svc.ExecuteReset(ctx, p.owner, ExecuteResetRequest{Types: []string{"sales"}, ConfirmationPhrase: "Chez  Fatou"})
		requireCode(t, err, shared.CodeForbidden)
		_, err = p.svc.ExecuteReset(ctx, p.owner, ExecuteResetRequest{Types: []string{"sales"}, ConfirmationPhrase: ""})
		requireCode(t, err, shared.CodeForbidden)
		assert.Equal(t, int64(1), p.Count(t, "sales"))

		_, err = p.svc.ExecuteReset(ctx, p.owner, ExecuteResetRequest{Types: []string{"sales"}, ConfirmationPhrase: "chez fatou"})
		require.NoError(t, err)
		assert.Zero(t, p.Count(t, "sales"))
	})

	t.Run("a failing category rolls back the whole reset", func(t *testing.T) {
		p := newPopulated(t)
		require.NoError(t, p.DB.Exec(`CREATE TRIGGER bank_transactions_locked BEFORE DELETE ON bank_transactions
			BEGIN SELECT RAISE(ABORT, 'bank_transactions are locked'); END`).Error)

		_, err := p.svc.ExecuteReset(context.Background(), p.owner, ExecuteResetRequest{
			Types:              []string{"bank", "sales"},
			ConfirmationPhrase: p.Restaurant.Name,
		})
		require.Error(t, err)

		assert.Equal(t, int64(1), p.Count(t, "sales"))
		assert.Equal(t, int64(3), p.Count(t, "bank_transactions"))
		var linked int64
		require.NoError(t, p.DB.Model(&finance.Debt{}).Where("sale_id IS NOT NULL").Count(&linked).Error)
		assert.Equal(t, int64(1), linked)
		require.NoError(t, p.DB.Model(&finance.ExpensePayment{}).Where("bank_transaction_id IS NOT NULL").Count(&linked).Error)
		assert.Equal(t, int64(1), linked)
		assert.Empty(t, p.events.Events())
	})

	t.Run("guards", func(t *testing.T) {
		p := newPopulated(t)
		ctx := context.Background()
		manager := p.Principal(t, identity.RoleManager)

		_, err := p.svc.ExecuteReset(ctx, manager, ExecuteResetRequest{Types: []string{"sales"}, ConfirmationPhrase: p.Restaurant.Name})
		requireCode(t, err, shared.CodeForbidden)
		_, err = p.svc.PreviewReset(ctx, manager)
		requireCode(t, err, shared.CodeForbidden)

		_, err = p.svc.ExecuteReset(ctx, p.owner, ExecuteResetRequest{Types: []string{"customers"}, ConfirmationPhrase: p.Restaurant.Name})
		requireCode(t, err, shared.CodeValidation)

		assert.Equal(t, int64(1), p.Count(t, "sales"))
		assert.Empty(t, p.events.Events())
	})
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, shared.IsDomainError(err, code), "expected %s, got %v", code, err)
}
