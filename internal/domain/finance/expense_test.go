package finance

import (
	"testing"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApprovedExpense(t *testing.T, amount int64) *Expense {
	t.Helper()
	e, err := NewExpense(uuid.New(), uuid.New(), ExpenseInput{
		Date:       time.Now(),
		CategoryID: uuid.New(),
		AmountGNF:  decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	_, err = e.Approve(uuid.New(), time.Now())
	require.NoError(t, err)
	return e
}

func pay(t *testing.T, e *Expense, amount int64) (*ExpensePayment, error) {
	t.Helper()
	p, err := NewExpensePayment(e, uuid.New(), ExpensePaymentInput{
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: shared.PaymentMethodCash,
	})
	require.NoError(t, err)
	return p, e.ApplyPayment(p)
}

func TestDerivePaymentStatus(t *testing.T) {
	amount := decimal.NewFromInt(500000)
	tests := []struct {
		paid     int64
		expected PaymentStatus
	}{
		{0, PaymentStatusUnpaid},
		{1, PaymentStatusPartiallyPaid},
		{499999, PaymentStatusPartiallyPaid},
		{500000, PaymentStatusPaid},
	}
	for _, tc := range tests {
		t.Run(tc.expected.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, DerivePaymentStatus(decimal.NewFromInt(tc.paid), amount))
		})
	}
}

func TestNewExpense_Validation(t *testing.T) {
	base := ExpenseInput{Date: time.Now(), CategoryID: uuid.New(), AmountGNF: decimal.NewFromInt(1000)}

	tests := []struct {
		name   string
		mutate func(in *ExpenseInput)
	}{
		{"missing date", func(in *ExpenseInput) { in.Date = time.Time{} }},
		{"missing category", func(in *ExpenseInput) { in.CategoryID = uuid.Nil }},
		{"zero amount", func(in *ExpenseInput) { in.AmountGNF = decimal.Zero }},
		{"purchase without items", func(in *ExpenseInput) { in.IsInventoryPurchase = true }},
		{"items without purchase flag", func(in *ExpenseInput) {
			in.Items = []ExpenseItemInput{{InventoryItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}}
		}},
		{"non-positive item quantity", func(in *ExpenseInput) {
			in.IsInventoryPurchase = true
			in.Items = []ExpenseItemInput{{InventoryItemID: uuid.New(), Quantity: decimal.Zero}}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := NewExpense(uuid.New(), uuid.New(), in)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestExpense_PaymentScenario(t *testing.T) {
	e := newApprovedExpense(t, 500000)

	_, err := pay(t, e, 200000)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPartiallyPaid, e.PaymentStatus)
	assert.True(t, decimal.NewFromInt(200000).Equal(e.TotalPaidAmount))

	_, err = pay(t, e, 300000)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, e.PaymentStatus)
	assert.True(t, e.RemainingAmount().IsZero())

	_, err = pay(t, e, 1)
	assert.ErrorIs(t, err, shared.ErrOverpayment)
	assert.True(t, decimal.NewFromInt(500000).Equal(e.TotalPaidAmount), "rejected payment must not change the paid total")
}

func TestExpense_ApplyPaymentGuards(t *testing.T) {
	e := newApprovedExpense(t, 1000)

	_, err := pay(t, e, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)

	_, err = pay(t, e, -10)
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)

	_, err = pay(t, e, 1001)
	assert.ErrorIs(t, err, shared.ErrOverpayment)
	assert.Equal(t, PaymentStatusUnpaid, e.PaymentStatus)

	pending, err := NewExpense(uuid.New(), uuid.New(), ExpenseInput{Date: time.Now(), CategoryID: uuid.New(), AmountGNF: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = pay(t, pending, 100)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestExpense_ApproveReturnsPurchaseLines(t *testing.T) {
	flour := uuid.New()
	e, err := NewExpense(uuid.New(), uuid.New(), ExpenseInput{
		Date:                time.Now(),
		CategoryID:          uuid.New(),
		AmountGNF:           decimal.NewFromInt(80000),
		IsInventoryPurchase: true,
		Items: []ExpenseItemInput{
			{InventoryItemID: flour, Quantity: decimal.NewFromInt(10), UnitCostGNF: decimal.NewFromInt(8000)},
		},
	})
	require.NoError(t, err)

	lines, err := e.Approve(uuid.New(), time.Now())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, flour, lines[0].ItemID)
	assert.True(t, decimal.NewFromInt(10).Equal(lines[0].Quantity))

	_, err = e.Approve(uuid.New(), time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestExpense_RecomputePayments(t *testing.T) {
	e := newApprovedExpense(t, 1000)
	p1, err := pay(t, e, 400)
	require.NoError(t, err)

	assert.False(t, e.RecomputePayments([]ExpensePayment{*p1}))

	e.TotalPaidAmount = decimal.NewFromInt(900)
	assert.True(t, e.RecomputePayments([]ExpensePayment{*p1}))
	assert.True(t, decimal.NewFromInt(400).Equal(e.TotalPaidAmount))
	assert.Equal(t, PaymentStatusPartiallyPaid, e.PaymentStatus)
}

func TestNewQuickAmounts(t *testing.T) {
	q := NewQuickAmounts(decimal.NewFromInt(300001))
	assert.True(t, decimal.NewFromInt(75000).Equal(q.Quarter))
	assert.True(t, decimal.NewFromInt(150000).Equal(q.Half))
	assert.True(t, decimal.NewFromInt(225000).Equal(q.ThreeQuarters))
	assert.True(t, decimal.NewFromInt(300001).Equal(q.Full))
}
