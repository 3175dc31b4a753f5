package finance

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a submitted cost. Inventory purchases carry item lines that
// become Purchase stock movements when the expense is approved.
type Expense struct {
	shared.TenantAggregateRoot
	shared.Submission
	Date                time.Time       `gorm:"type:date;not null;index" json:"date"`
	CategoryID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"categoryId"`
	AmountGNF           decimal.Decimal `gorm:"column:amount_gnf;type:decimal(18,2);not null" json:"amountGNF"`
	BillingRef          string          `gorm:"type:varchar(100)" json:"billingRef,omitempty"`
	SupplierID          *uuid.UUID      `gorm:"type:uuid;index" json:"supplierId,omitempty"`
	Description         string          `gorm:"type:varchar(500)" json:"description,omitempty"`
	IsInventoryPurchase bool            `gorm:"not null;default:false" json:"isInventoryPurchase"`
	PaymentStatus       PaymentStatus   `gorm:"type:varchar(20);not null;default:'Unpaid';index" json:"paymentStatus"`
	TotalPaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"totalPaidAmount"`
	Items               []ExpenseItem   `gorm:"foreignKey:ExpenseID" json:"expenseItems,omitempty"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseItem is one purchased inventory line of an inventory-purchase expense
type ExpenseItem struct {
	shared.BaseEntity
	ExpenseID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"expenseId"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventoryItemId"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitCostGNF     decimal.Decimal `gorm:"column:unit_cost_gnf;type:decimal(18,2);not null" json:"unitCostGNF"`
}

// TableName returns the table name for GORM
func (ExpenseItem) TableName() string {
	return "expense_items"
}

// ExpenseInput holds the fields of a new expense
type ExpenseInput struct {
	Date                time.Time
	CategoryID          uuid.UUID
	AmountGNF           decimal.Decimal
	BillingRef          string
	SupplierID          *uuid.UUID
	Description         string
	IsInventoryPurchase bool
	Items               []ExpenseItemInput
}

// ExpenseItemInput is one purchased line
type ExpenseItemInput struct {
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
	UnitCostGNF     decimal.Decimal
}

// NewExpense creates a Pending, Unpaid expense
func NewExpense(restaurantID, createdBy uuid.UUID, in ExpenseInput) (*Expense, error) {
	if in.Date.IsZero() {
		return nil, shared.NewValidationError("Expense date is required")
	}
	if in.CategoryID == uuid.Nil {
		return nil, shared.NewValidationError("Expense category is required")
	}
	if !in.AmountGNF.IsPositive() {
		return nil, shared.NewValidationError("Expense amount must be greater than zero")
	}
	if in.IsInventoryPurchase && len(in.Items) == 0 {
		return nil, shared.NewValidationError("An inventory purchase requires at least one item")
	}
	if !in.IsInventoryPurchase && len(in.Items) > 0 {
		return nil, shared.NewValidationError("Only inventory purchases may carry items")
	}

	e := &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(restaurantID, createdBy),
		Submission:          shared.NewSubmission(),
		Date:                in.Date,
		CategoryID:          in.CategoryID,
		AmountGNF:           in.AmountGNF,
		BillingRef:          in.BillingRef,
		SupplierID:          in.SupplierID,
		Description:         in.Description,
		IsInventoryPurchase: in.IsInventoryPurchase,
		PaymentStatus:       PaymentStatusUnpaid,
		TotalPaidAmount:     decimal.Zero,
	}

	for _, it := range in.Items {
		if it.InventoryItemID == uuid.Nil {
			return nil, shared.NewValidationError("Expense item must reference an inventory item")
		}
		if !it.Quantity.IsPositive() {
			return nil, shared.NewValidationError("Expense item quantity must be positive")
		}
		if it.UnitCostGNF.IsNegative() {
			return nil, shared.NewValidationError("Expense item unit cost cannot be negative")
		}
		e.Items = append(e.Items, ExpenseItem{
			BaseEntity:      shared.NewBaseEntity(),
			ExpenseID:       e.ID,
			InventoryItemID: it.InventoryItemID,
			Quantity:        it.Quantity,
			UnitCostGNF:     it.UnitCostGNF,
		})
	}

	e.AddDomainEvent(NewExpenseSubmittedEvent(e))
	return e, nil
}

// Approve flips the expense to Approved and returns the stock purchases it triggers
func (e *Expense) Approve(approvedBy uuid.UUID, at time.Time) ([]PurchaseLine, error) {
	if err := e.MarkApproved(approvedBy, at); err != nil {
		return nil, err
	}
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(shared.NewSubmissionDecidedEvent(EventTypeExpenseApproved, AggregateTypeExpense, e.ID, e.RestaurantID, approvedBy))

	if !e.IsInventoryPurchase {
		return nil, nil
	}
	lines := make([]PurchaseLine, 0, len(e.Items))
	for _, it := range e.Items {
		lines = append(lines, PurchaseLine{ItemID: it.InventoryItemID, Quantity: it.Quantity, UnitCost: it.UnitCostGNF})
	}
	return lines, nil
}

// Reject flips the expense to Rejected
func (e *Expense) Reject(rejectedBy uuid.UUID, reason string, at time.Time) error {
	if err := e.MarkRejected(rejectedBy, reason, at); err != nil {
		return err
	}
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(shared.NewSubmissionDecidedEvent(EventTypeExpenseRejected, AggregateTypeExpense, e.ID, e.RestaurantID, rejectedBy))
	return nil
}

// PurchaseLine is a stock increase owed by an approved inventory purchase
type PurchaseLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// RemainingAmount is what can still be paid
func (e *Expense) RemainingAmount() decimal.Decimal {
	return e.AmountGNF.Sub(e.TotalPaidAmount)
}

// ApplyPayment books a payment against the expense. Only approved expenses
// accept payments; the paid total may never exceed the amount.
func (e *Expense) ApplyPayment(payment *ExpensePayment) error {
	if !e.IsApproved() {
		return shared.NewInvalidStateError("Only approved expenses can receive payments")
	}
	if payment.ExpenseID != e.ID {
		return shared.NewValidationError("Payment does not belong to this expense")
	}
	if err := checkAllocation(payment.Amount, e.TotalPaidAmount, e.AmountGNF); err != nil {
		return err
	}

	e.TotalPaidAmount = e.TotalPaidAmount.Add(payment.Amount)
	e.PaymentStatus = DerivePaymentStatus(e.TotalPaidAmount, e.AmountGNF)
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewPaymentAllocatedEvent(AggregateTypeExpense, e.ID, e.RestaurantID, payment.ID, payment.Amount, e.RemainingAmount()))
	return nil
}

// RecomputePayments rebuilds the paid total and status from the payment log.
// It returns true if the cached fields drifted from the log.
func (e *Expense) RecomputePayments(payments []ExpensePayment) bool {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	status := DerivePaymentStatus(paid, e.AmountGNF)
	drifted := !paid.Equal(e.TotalPaidAmount) || status != e.PaymentStatus
	e.TotalPaidAmount = paid
	e.PaymentStatus = status
	return drifted
}
