package finance

import (
	"context"
	"testing"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebtService_CreateDebt(t *testing.T) {
	ctx := context.Background()

	t.Run("within the credit limit", func(t *testing.T) {
		f := newFixture(t)
		limit := gnf(100000)
		customer := f.SeedCustomer(t, "Boubacar", &limit)

		debt, err := f.debts.CreateDebt(ctx, f.manager, CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(60000), Description: "Traiteur"})
		require.NoError(t, err)
		assert.Equal(t, finance.DebtStatusActive, debt.Status)
		assert.True(t, debt.RemainingAmount.Equal(gnf(60000)))
		assert.Nil(t, debt.SaleID)
		assert.Equal(t, []string{finance.EventTypeDebtCreated}, f.events.Types())
	})

	t.Run("outstanding debts count against the limit", func(t *testing.T) {
		f := newFixture(t)
		limit := gnf(100000)
		customer := f.SeedCustomer(t, "Boubacar", &limit)
		_, err := f.debts.CreateDebt(ctx, f.manager, CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(60000)})
		require.NoError(t, err)

		_, err = f.debts.CreateDebt(ctx, f.manager, CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(40001)})
		requireCode(t, err, shared.CodeCreditLimitExceeded)

		_, err = f.debts.CreateDebt(ctx, f.manager, CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(40000)})
		require.NoError(t, err)
	})

	t.Run("repayments free up credit", func(t *testing.T) {
		f := newFixture(t)
		limit := gnf(50000)
		customer := f.SeedCustomer(t, "Kadiatou", &limit)
		debt, err := f.debts.CreateDebt(ctx, f.manager, CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(50000)})
		require.NoError(t, err)
		_, err = f.allocator.AllocateDebtPayment(ctx, f.manager, debt.ID, DebtPaymentRequest{Amount: gnf(20000), PaymentMethod: shared.PaymentMethodCash})
		require.NoError(t, err)

		_, err = f.debts.CreateDebt(ctx, f.manager, CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(20000)})
		require.NoError(t, err)
	})

	t.Run("only owners override", func(t *testing.T) {
		f := newFixture(t)
		limit := gnf(10000)
		customer := f.SeedCustomer(t, "Ibrahima", &limit)
		req := CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(25000), OverrideCreditLimit: true}

		_, err := f.debts.CreateDebt(ctx, f.manager, req)
		requireCode(t, err, shared.CodeForbidden)

		debt, err := f.debts.CreateDebt(ctx, f.owner, req)
		require.NoError(t, err)
		assert.True(t, debt.PrincipalAmount.Equal(gnf(25000)))
	})

	t.Run("editors cannot extend credit", func(t *testing.T) {
		f := newFixture(t)
		customer := f.SeedCustomer(t, "Ibrahima", nil)

		_, err := f.debts.CreateDebt(ctx, f.editor, CreateDebtRequest{CustomerID: customer.ID, Amount: gnf(1000)})
		requireCode(t, err, shared.CodeForbidden)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.debts.CreateDebt(ctx, f.manager, CreateDebtRequest{CustomerID: uuid.New(), Amount: gnf(1000)})
		requireCode(t, err, shared.CodeNotFound)
		assert.Zero(t, f.Count(t, "debts"))
	})
}

func TestDebtService_Queries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	open := f.manualDebt(t, 30000)
	settled := f.manualDebt(t, 5000)
	_, err := f.allocator.AllocateDebtPayment(ctx, f.owner, settled.ID, DebtPaymentRequest{Amount: gnf(5000), PaymentMethod: shared.PaymentMethodCash})
	require.NoError(t, err)

	active, err := f.debts.List(ctx, f.owner, DebtListFilter{Status: "Active"})
	require.NoError(t, err)
	require.Equal(t, int64(1), active.Total)
	assert.Equal(t, open.ID, active.Items[0].ID)

	paidOff, err := f.debts.List(ctx, f.owner, DebtListFilter{Status: "PaidOff"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), paidOff.Total)

	payments, err := f.debts.ListPayments(ctx, f.owner, settled.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.NotNil(t, payments[0].BankTransactionID)
}
