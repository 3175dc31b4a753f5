package finance

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeExpenseSubmitted         = "finance.expense_submitted"
	EventTypeExpenseApproved          = "finance.expense_approved"
	EventTypeExpenseRejected          = "finance.expense_rejected"
	EventTypeDebtCreated              = "finance.debt_created"
	EventTypePaymentAllocated         = "finance.payment_allocated"
	EventTypeBankTransactionCreated   = "finance.bank_transaction_created"
	EventTypeBankTransactionConfirmed = "finance.bank_transaction_confirmed"
	EventTypeBankTransactionsPurged   = "finance.bank_transactions_purged"

	AggregateTypeExpense         = "Expense"
	AggregateTypeDebt            = "Debt"
	AggregateTypeBankTransaction = "BankTransaction"
)

// ExpenseSubmittedEvent is raised when an expense enters the approval queue
type ExpenseSubmittedEvent struct {
	shared.BaseDomainEvent
	AmountGNF           decimal.Decimal `json:"amountGNF"`
	IsInventoryPurchase bool            `json:"isInventoryPurchase"`
}

// NewExpenseSubmittedEvent creates an ExpenseSubmittedEvent
func NewExpenseSubmittedEvent(e *Expense) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeExpenseSubmitted, AggregateTypeExpense, e.ID, e.RestaurantID),
		AmountGNF:           e.AmountGNF,
		IsInventoryPurchase: e.IsInventoryPurchase,
	}
}

// DebtCreatedEvent is raised when credit is extended to a customer
type DebtCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID      uuid.UUID       `json:"customerId"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
}

// NewDebtCreatedEvent creates a DebtCreatedEvent
func NewDebtCreatedEvent(d *Debt) *DebtCreatedEvent {
	return &DebtCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtCreated, AggregateTypeDebt, d.ID, d.RestaurantID),
		CustomerID:      d.CustomerID,
		PrincipalAmount: d.PrincipalAmount,
	}
}

// PaymentAllocatedEvent is raised when a payment is booked against an expense or debt
type PaymentAllocatedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"paymentId"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// NewPaymentAllocatedEvent creates a PaymentAllocatedEvent
func NewPaymentAllocatedEvent(aggType string, obligationID, restaurantID, paymentID uuid.UUID, amount, remaining decimal.Decimal) *PaymentAllocatedEvent {
	return &PaymentAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentAllocated, aggType, obligationID, restaurantID),
		PaymentID:       paymentID,
		Amount:          amount,
		Remaining:       remaining,
	}
}

// BankTransactionEvent is raised when a bank transaction is created or confirmed
type BankTransactionEvent struct {
	shared.BaseDomainEvent
	Method shared.PaymentMethod `json:"method"`
	Type   TransactionType      `json:"type"`
	Reason TransactionReason    `json:"reason"`
	Amount decimal.Decimal      `json:"amount"`
}

// NewBankTransactionEvent creates a BankTransactionEvent of the given type
func NewBankTransactionEvent(eventType string, t *BankTransaction) *BankTransactionEvent {
	return &BankTransactionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeBankTransaction, t.ID, t.RestaurantID),
		Method:          t.Method,
		Type:            t.Type,
		Reason:          t.Reason,
		Amount:          t.Amount,
	}
}

// NewBankTransactionsPurgedEvent signals that a reset removed the restaurant's bank history
func NewBankTransactionsPurgedEvent(restaurantID uuid.UUID) *shared.BaseDomainEvent {
	e := shared.NewBaseDomainEvent(EventTypeBankTransactionsPurged, AggregateTypeBankTransaction, restaurantID, restaurantID)
	return &e
}
