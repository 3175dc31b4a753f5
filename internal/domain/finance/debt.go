package finance

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtStatus is the state of a customer debt
type DebtStatus string

const (
	DebtStatusActive  DebtStatus = "Active"
	DebtStatusPaidOff DebtStatus = "PaidOff"
)

// IsValid checks if the status is a valid DebtStatus
func (s DebtStatus) IsValid() bool {
	return s == DebtStatusActive || s == DebtStatusPaidOff
}

// String returns the string representation of DebtStatus
func (s DebtStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the debt may move to next.
// Active -> PaidOff happens exactly when the remaining amount reaches zero.
func (s DebtStatus) CanTransitionTo(next DebtStatus) bool {
	return s == DebtStatusActive && next == DebtStatusPaidOff
}

// Debt is credit extended to a customer, either by a credit sale or manually
type Debt struct {
	shared.TenantAggregateRoot
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customerId"`
	SaleID          *uuid.UUID      `gorm:"type:uuid;index" json:"saleId,omitempty"`
	PrincipalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"principalAmount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paidAmount"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"remainingAmount"`
	Status          DebtStatus      `gorm:"type:varchar(20);not null;default:'Active';index" json:"status"`
	DueDate         *time.Time      `gorm:"type:date" json:"dueDate,omitempty"`
	Description     string          `gorm:"type:varchar(500)" json:"description,omitempty"`
	PaidOffAt       *time.Time      `json:"paidOffAt,omitempty"`
}

// TableName returns the table name for GORM
func (Debt) TableName() string {
	return "debts"
}

// NewDebt creates an Active debt for the full principal
func NewDebt(restaurantID, createdBy, customerID uuid.UUID, principal decimal.Decimal, saleID *uuid.UUID, dueDate *time.Time, description string) (*Debt, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Debt customer is required")
	}
	if !principal.IsPositive() {
		return nil, shared.NewValidationError("Debt amount must be greater than zero")
	}
	d := &Debt{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(restaurantID, createdBy),
		CustomerID:          customerID,
		SaleID:              saleID,
		PrincipalAmount:     principal,
		PaidAmount:          decimal.Zero,
		RemainingAmount:     principal,
		Status:              DebtStatusActive,
		DueDate:             dueDate,
		Description:         description,
	}
	d.AddDomainEvent(NewDebtCreatedEvent(d))
	return d, nil
}

// ApplyPayment books a payment against the debt and settles it when nothing remains
func (d *Debt) ApplyPayment(payment *DebtPayment) error {
	if payment.DebtID != d.ID {
		return shared.NewValidationError("Payment does not belong to this debt")
	}
	if err := checkAllocation(payment.Amount, d.PaidAmount, d.PrincipalAmount); err != nil {
		return err
	}

	d.PaidAmount = d.PaidAmount.Add(payment.Amount)
	d.RemainingAmount = d.PrincipalAmount.Sub(d.PaidAmount)
	if d.RemainingAmount.IsZero() && d.Status.CanTransitionTo(DebtStatusPaidOff) {
		now := time.Now()
		d.Status = DebtStatusPaidOff
		d.PaidOffAt = &now
	}
	d.Touch()
	d.IncrementVersion()
	d.AddDomainEvent(NewPaymentAllocatedEvent(AggregateTypeDebt, d.ID, d.RestaurantID, payment.ID, payment.Amount, d.RemainingAmount))
	return nil
}

// RecomputePayments rebuilds paid/remaining/status from the payment log.
// It returns true if the cached fields drifted from the log.
func (d *Debt) RecomputePayments(payments []DebtPayment) bool {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	remaining := d.PrincipalAmount.Sub(paid)
	status := DebtStatusActive
	if remaining.IsZero() {
		status = DebtStatusPaidOff
	}
	drifted := !paid.Equal(d.PaidAmount) || !remaining.Equal(d.RemainingAmount) || status != d.Status
	d.PaidAmount = paid
	d.RemainingAmount = remaining
	d.Status = status
	return drifted
}
