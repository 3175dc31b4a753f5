package finance

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a bank movement
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// Sign returns +1 for deposits and -1 for withdrawals
func (t TransactionType) Sign() decimal.Decimal {
	if t == TransactionTypeWithdrawal {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// TransactionReason explains why money moved
type TransactionReason string

const (
	ReasonSalesDeposit     TransactionReason = "SalesDeposit"
	ReasonDebtCollection   TransactionReason = "DebtCollection"
	ReasonExpensePayment   TransactionReason = "ExpensePayment"
	ReasonOwnerWithdrawal  TransactionReason = "OwnerWithdrawal"
	ReasonCapitalInjection TransactionReason = "CapitalInjection"
	ReasonOther            TransactionReason = "Other"
)

// IsValid checks if the reason is a valid TransactionReason
func (r TransactionReason) IsValid() bool {
	switch r {
	case ReasonSalesDeposit, ReasonDebtCollection, ReasonExpensePayment,
		ReasonOwnerWithdrawal, ReasonCapitalInjection, ReasonOther:
		return true
	}
	return false
}

// String returns the string representation of TransactionReason
func (r TransactionReason) String() string {
	return string(r)
}

// IsManual reports whether a user may record this reason directly.
// The linked reasons are produced only as side effects of sales and payments.
func (r TransactionReason) IsManual() bool {
	return r == ReasonOwnerWithdrawal || r == ReasonCapitalInjection || r == ReasonOther
}

// Allows reports whether the reason is consistent with the direction
func (r TransactionReason) Allows(t TransactionType) bool {
	switch r {
	case ReasonSalesDeposit, ReasonDebtCollection, ReasonCapitalInjection:
		return t == TransactionTypeDeposit
	case ReasonExpensePayment, ReasonOwnerWithdrawal:
		return t == TransactionTypeWithdrawal
	case ReasonOther:
		return t.IsValid()
	}
	return false
}

// TransactionStatus is the reconciliation state of a bank transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusConfirmed TransactionStatus = "Confirmed"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusPending || s == TransactionStatusConfirmed
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether next is reachable from s. Pending -> Confirmed only.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == TransactionStatusPending && next == TransactionStatusConfirmed
}

// BankLink names the column tying a transaction to its originating record
type BankLink string

const (
	BankLinkSale           BankLink = "linked_sale_id"
	BankLinkDebtPayment    BankLink = "linked_debt_payment_id"
	BankLinkExpensePayment BankLink = "linked_expense_payment_id"
)

// BankTransaction is a cash, Orange Money or card movement. Only Confirmed
// transactions count toward balances.
type BankTransaction struct {
	shared.TenantAggregateRoot
	Date                   time.Time            `gorm:"type:date;not null;index" json:"date"`
	Amount                 decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"amount"`
	Type                   TransactionType      `gorm:"type:varchar(20);not null" json:"type"`
	Method                 shared.PaymentMethod `gorm:"type:varchar(20);not null;index" json:"method"`
	Reason                 TransactionReason    `gorm:"type:varchar(30);not null" json:"reason"`
	Status                 TransactionStatus    `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Description            string               `gorm:"type:varchar(500)" json:"description,omitempty"`
	Comments               string               `gorm:"type:varchar(1000)" json:"comments,omitempty"`
	BankRef                string               `gorm:"type:varchar(100)" json:"bankRef,omitempty"`
	ConfirmedAt            *time.Time           `json:"confirmedAt,omitempty"`
	ConfirmedBy            *uuid.UUID           `gorm:"type:uuid" json:"confirmedBy,omitempty"`
	LinkedSaleID           *uuid.UUID           `gorm:"type:uuid;index" json:"linkedSaleId,omitempty"`
	LinkedDebtPaymentID    *uuid.UUID           `gorm:"type:uuid;index" json:"linkedDebtPaymentId,omitempty"`
	LinkedExpensePaymentID *uuid.UUID           `gorm:"type:uuid;index" json:"linkedExpensePaymentId,omitempty"`
}

// TableName returns the table name for GORM
func (BankTransaction) TableName() string {
	return "bank_transactions"
}

// BankTransactionInput holds the fields of a new transaction
type BankTransactionInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Type        TransactionType
	Method      shared.PaymentMethod
	Reason      TransactionReason
	Description string
	Comments    string
}

// NewBankTransaction creates a Pending transaction. Creation never starts Confirmed.
func NewBankTransaction(restaurantID, createdBy uuid.UUID, in BankTransactionInput) (*BankTransaction, error) {
	if !in.Amount.IsPositive() {
		return nil, shared.NewValidationError("Transaction amount must be greater than zero")
	}
	if !in.Type.IsValid() {
		return nil, shared.NewValidationError("Invalid transaction type")
	}
	if !in.Method.IsValid() {
		return nil, shared.NewValidationError("Invalid transaction method")
	}
	if !in.Reason.IsValid() {
		return nil, shared.NewValidationError("Invalid transaction reason")
	}
	if !in.Reason.Allows(in.Type) {
		return nil, shared.NewValidationError("Reason " + in.Reason.String() + " is not valid for a " + in.Type.String())
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	t := &BankTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(restaurantID, createdBy),
		Date:                date,
		Amount:              in.Amount,
		Type:                in.Type,
		Method:              in.Method,
		Reason:              in.Reason,
		Status:              TransactionStatusPending,
		Description:         in.Description,
		Comments:            in.Comments,
	}
	t.AddDomainEvent(NewBankTransactionEvent(EventTypeBankTransactionCreated, t))
	return t, nil
}

// NewSaleDeposit creates the Pending deposit for one payment method of an approved sale
func NewSaleDeposit(restaurantID, approvedBy, saleID uuid.UUID, date time.Time, method shared.PaymentMethod, amount decimal.Decimal) (*BankTransaction, error) {
	t, err := NewBankTransaction(restaurantID, approvedBy, BankTransactionInput{
		Date:   date,
		Amount: amount,
		Type:   TransactionTypeDeposit,
		Method: method,
		Reason: ReasonSalesDeposit,
	})
	if err != nil {
		return nil, err
	}
	t.LinkedSaleID = &saleID
	return t, nil
}

// NewDebtCollection creates the Pending deposit spawned by a debt repayment
func NewDebtCollection(payment *DebtPayment) (*BankTransaction, error) {
	t, err := NewBankTransaction(payment.RestaurantID, payment.ReceivedBy, BankTransactionInput{
		Date:     payment.PaymentDate,
		Amount:   payment.Amount,
		Type:     TransactionTypeDeposit,
		Method:   payment.PaymentMethod,
		Reason:   ReasonDebtCollection,
		Comments: payment.Notes,
	})
	if err != nil {
		return nil, err
	}
	t.LinkedDebtPaymentID = &payment.ID
	if payment.TransactionID != "" {
		t.BankRef = payment.TransactionID
	}
	return t, nil
}

// NewExpenseWithdrawal creates the Pending withdrawal spawned by an expense payment
func NewExpenseWithdrawal(payment *ExpensePayment) (*BankTransaction, error) {
	t, err := NewBankTransaction(payment.RestaurantID, payment.PaidBy, BankTransactionInput{
		Date:     payment.PaidAt,
		Amount:   payment.Amount,
		Type:     TransactionTypeWithdrawal,
		Method:   payment.PaymentMethod,
		Reason:   ReasonExpensePayment,
		Comments: payment.Notes,
	})
	if err != nil {
		return nil, err
	}
	t.LinkedExpensePaymentID = &payment.ID
	return t, nil
}

// Confirm moves the transaction to Confirmed exactly once. Confirming an
// already Confirmed transaction returns ErrAlreadyConfirmed and changes nothing.
func (t *BankTransaction) Confirm(confirmedBy uuid.UUID, bankRef, comments string, at time.Time) error {
	if t.Status == TransactionStatusConfirmed {
		return shared.ErrAlreadyConfirmed
	}
	if !t.Status.CanTransitionTo(TransactionStatusConfirmed) {
		return shared.NewInvalidStateError("Cannot confirm transaction in " + t.Status.String() + " status")
	}
	t.Status = TransactionStatusConfirmed
	t.ConfirmedAt = &at
	t.ConfirmedBy = &confirmedBy
	if bankRef != "" {
		t.BankRef = bankRef
	}
	if comments != "" {
		t.Comments = comments
	}
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewBankTransactionEvent(EventTypeBankTransactionConfirmed, t))
	return nil
}

// IsConfirmed returns true once the transaction has cleared
func (t *BankTransaction) IsConfirmed() bool {
	return t.Status == TransactionStatusConfirmed
}

// SignedAmount is the amount with the direction applied
func (t *BankTransaction) SignedAmount() decimal.Decimal {
	return t.Amount.Mul(t.Type.Sign())
}
