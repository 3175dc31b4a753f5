package finance

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpensePayment is one payment towards an approved expense
type ExpensePayment struct {
	shared.BaseEntity
	RestaurantID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"restaurantId"`
	ExpenseID         uuid.UUID            `gorm:"type:uuid;not null;index" json:"expenseId"`
	Amount            decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaymentMethod     shared.PaymentMethod `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaidAt            time.Time            `gorm:"not null" json:"paidAt"`
	PaidBy            uuid.UUID            `gorm:"type:uuid;not null" json:"paidByUserId"`
	Notes             string               `gorm:"type:varchar(500)" json:"notes,omitempty"`
	ReceiptURL        string               `gorm:"type:varchar(1000)" json:"receiptUrl,omitempty"`
	BankTransactionID *uuid.UUID           `gorm:"type:uuid;index" json:"bankTransactionId,omitempty"`
}

// TableName returns the table name for GORM
func (ExpensePayment) TableName() string {
	return "expense_payments"
}

// ExpensePaymentInput holds the caller-supplied fields of a payment
type ExpensePaymentInput struct {
	Amount        decimal.Decimal
	PaymentMethod shared.PaymentMethod
	Notes         string
	ReceiptURL    string
}

// NewExpensePayment validates and builds a payment row
func NewExpensePayment(expense *Expense, paidBy uuid.UUID, in ExpensePaymentInput) (*ExpensePayment, error) {
	if !in.PaymentMethod.IsValid() {
		return nil, shared.NewValidationError("Invalid payment method")
	}
	if paidBy == uuid.Nil {
		return nil, shared.NewValidationError("Payer user ID cannot be empty")
	}
	return &ExpensePayment{
		BaseEntity:    shared.NewBaseEntity(),
		RestaurantID:  expense.RestaurantID,
		ExpenseID:     expense.ID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaidAt:        time.Now(),
		PaidBy:        paidBy,
		Notes:         in.Notes,
		ReceiptURL:    in.ReceiptURL,
	}, nil
}

// LinkBankTransaction records the bank movement spawned by this payment
func (p *ExpensePayment) LinkBankTransaction(id uuid.UUID) {
	p.BankTransactionID = &id
}
