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

func newTx(t *testing.T, amount int64, txType TransactionType, method shared.PaymentMethod, reason TransactionReason) *BankTransaction {
	t.Helper()
	tx, err := NewBankTransaction(uuid.New(), uuid.New(), BankTransactionInput{
		Date: time.Now(), Amount: decimal.NewFromInt(amount), Type: txType, Method: method, Reason: reason,
	})
	require.NoError(t, err)
	return tx
}

func TestTransactionReason_Allows(t *testing.T) {
	tests := []struct {
		reason  TransactionReason
		deposit bool
		withdr  bool
		manual  bool
	}{
		{ReasonSalesDeposit, true, false, false},
		{ReasonDebtCollection, true, false, false},
		{ReasonCapitalInjection, true, false, true},
		{ReasonExpensePayment, false, true, false},
		{ReasonOwnerWithdrawal, false, true, true},
		{ReasonOther, true, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.reason.String(), func(t *testing.T) {
			assert.Equal(t, tc.deposit, tc.reason.Allows(TransactionTypeDeposit))
			assert.Equal(t, tc.withdr, tc.reason.Allows(TransactionTypeWithdrawal))
			assert.Equal(t, tc.manual, tc.reason.IsManual())
		})
	}
}

func TestNewBankTransaction_StartsPending(t *testing.T) {
	tx := newTx(t, 1000, TransactionTypeDeposit, shared.PaymentMethodCash, ReasonCapitalInjection)
	assert.Equal(t, TransactionStatusPending, tx.Status)
	assert.Nil(t, tx.ConfirmedAt)

	_, err := NewBankTransaction(uuid.New(), uuid.New(), BankTransactionInput{
		Amount: decimal.NewFromInt(10), Type: TransactionTypeDeposit, Method: shared.PaymentMethodCash, Reason: ReasonOwnerWithdrawal,
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestBankTransaction_ConfirmOnce(t *testing.T) {
	tx := newTx(t, 1000, TransactionTypeDeposit, shared.PaymentMethodCard, ReasonOther)
	at := time.Now()

	require.NoError(t, tx.Confirm(uuid.New(), "REF-1", "cleared", at))
	assert.True(t, tx.IsConfirmed())
	assert.Equal(t, at, *tx.ConfirmedAt)
	assert.Equal(t, "REF-1", tx.BankRef)

	err := tx.Confirm(uuid.New(), "REF-2", "", time.Now())
	assert.ErrorIs(t, err, shared.ErrAlreadyConfirmed)
	assert.Equal(t, "REF-1", tx.BankRef)
	assert.Equal(t, at, *tx.ConfirmedAt)
}

func TestComputeBalances(t *testing.T) {
	confirm := func(tx *BankTransaction) *BankTransaction {
		require.NoError(t, tx.Confirm(uuid.New(), "", "", time.Now()))
		return tx
	}

	txs := []BankTransaction{
		*confirm(newTx(t, 500000, TransactionTypeDeposit, shared.PaymentMethodCash, ReasonSalesDeposit)),
		*confirm(newTx(t, 120000, TransactionTypeWithdrawal, shared.PaymentMethodCash, ReasonExpensePayment)),
		*confirm(newTx(t, 300000, TransactionTypeDeposit, shared.PaymentMethodOrangeMoney, ReasonDebtCollection)),
		*confirm(newTx(t, 50000, TransactionTypeWithdrawal, shared.PaymentMethodCard, ReasonOwnerWithdrawal)),
		*newTx(t, 70000, TransactionTypeDeposit, shared.PaymentMethodCash, ReasonSalesDeposit),
		*newTx(t, 40000, TransactionTypeWithdrawal, shared.PaymentMethodOrangeMoney, ReasonExpensePayment),
		*newTx(t, 10000, TransactionTypeDeposit, shared.PaymentMethodCard, ReasonCapitalInjection),
	}

	balances, pending := ComputeBalances(txs)

	assert.True(t, decimal.NewFromInt(380000).Equal(balances.Cash))
	assert.True(t, decimal.NewFromInt(300000).Equal(balances.OrangeMoney))
	assert.True(t, decimal.NewFromInt(-50000).Equal(balances.Card))
	assert.True(t, decimal.NewFromInt(630000).Equal(balances.Total))
	assert.True(t, decimal.NewFromInt(80000).Equal(pending.TotalPendingDeposits))
	assert.True(t, decimal.NewFromInt(40000).Equal(pending.TotalPendingWithdrawals))
}

func TestComputeBalances_NoDoubleCounting(t *testing.T) {
	tx := newTx(t, 1000, TransactionTypeDeposit, shared.PaymentMethodCash, ReasonOther)

	balances, pending := ComputeBalances([]BankTransaction{*tx})
	assert.True(t, balances.Total.IsZero())
	assert.True(t, decimal.NewFromInt(1000).Equal(pending.TotalPendingDeposits))

	require.NoError(t, tx.Confirm(uuid.New(), "", "", time.Now()))
	balances, pending = ComputeBalances([]BankTransaction{*tx})
	assert.True(t, decimal.NewFromInt(1000).Equal(balances.Total))
	assert.True(t, pending.TotalPendingDeposits.IsZero())
}

func TestLinkedTransactions(t *testing.T) {
	d := newDebt(t, 1000)
	dp, err := NewDebtPayment(d, uuid.New(), DebtPaymentInput{
		Amount: decimal.NewFromInt(400), PaymentMethod: shared.PaymentMethodCard, TransactionID: "CARD-9",
	})
	require.NoError(t, err)

	collection, err := NewDebtCollection(dp)
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeDeposit, collection.Type)
	assert.Equal(t, ReasonDebtCollection, collection.Reason)
	assert.Equal(t, dp.ID, *collection.LinkedDebtPaymentID)
	assert.Equal(t, "CARD-9", collection.BankRef)

	e := newApprovedExpense(t, 1000)
	ep, err := NewExpensePayment(e, uuid.New(), ExpensePaymentInput{Amount: decimal.NewFromInt(1000), PaymentMethod: shared.PaymentMethodCash})
	require.NoError(t, err)
	withdrawal, err := NewExpenseWithdrawal(ep)
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeWithdrawal, withdrawal.Type)
	assert.Equal(t, ReasonExpensePayment, withdrawal.Reason)
	assert.Equal(t, ep.ID, *withdrawal.LinkedExpensePaymentID)
	assert.Equal(t, TransactionStatusPending, withdrawal.Status)
}
