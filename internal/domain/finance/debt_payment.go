package finance

import (
	"strings"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtPayment is one repayment of a customer debt
type DebtPayment struct {
	shared.BaseEntity
	RestaurantID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"restaurantId"`
	DebtID            uuid.UUID            `gorm:"type:uuid;not null;index" json:"debtId"`
	Amount            decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaymentMethod     shared.PaymentMethod `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaymentDate       time.Time            `gorm:"type:date;not null" json:"paymentDate"`
	ReceiptNumber     string               `gorm:"type:varchar(100)" json:"receiptNumber,omitempty"`
	TransactionID     string               `gorm:"type:varchar(100)" json:"transactionId,omitempty"`
	Notes             string               `gorm:"type:varchar(500)" json:"notes,omitempty"`
	ReceivedBy        uuid.UUID            `gorm:"type:uuid;not null" json:"receivedByUserId"`
	BankTransactionID *uuid.UUID           `gorm:"type:uuid;index" json:"bankTransactionId,omitempty"`
}

// TableName returns the table name for GORM
func (DebtPayment) TableName() string {
	return "debt_payments"
}

// DebtPaymentInput holds the caller-supplied fields of a repayment
type DebtPaymentInput struct {
	Amount        decimal.Decimal
	PaymentMethod shared.PaymentMethod
	PaymentDate   time.Time
	ReceiptNumber string
	TransactionID string
	Notes         string
}

// Validate checks the fields that do not depend on the debt.
// Card and Orange Money repayments must carry the operator transaction ID.
func (in DebtPaymentInput) Validate() error {
	if !in.PaymentMethod.IsValid() {
		return shared.NewValidationError("Invalid payment method")
	}
	if in.PaymentMethod.IsElectronic() && strings.TrimSpace(in.TransactionID) == "" {
		return shared.NewValidationError("transactionId is required for " + in.PaymentMethod.String() + " payments")
	}
	return nil
}

// NewDebtPayment validates and builds a repayment row
func NewDebtPayment(debt *Debt, receivedBy uuid.UUID, in DebtPaymentInput) (*DebtPayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if receivedBy == uuid.Nil {
		return nil, shared.NewValidationError("Receiver user ID cannot be empty")
	}
	date := in.PaymentDate
	if date.IsZero() {
		date = time.Now()
	}
	return &DebtPayment{
		BaseEntity:    shared.NewBaseEntity(),
		RestaurantID:  debt.RestaurantID,
		DebtID:        debt.ID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   date,
		ReceiptNumber: in.ReceiptNumber,
		TransactionID: strings.TrimSpace(in.TransactionID),
		Notes:         in.Notes,
		ReceivedBy:    receivedBy,
	}, nil
}

// LinkBankTransaction records the bank movement spawned by this repayment
func (p *DebtPayment) LinkBankTransaction(id uuid.UUID) {
	p.BankTransactionID = &id
}
