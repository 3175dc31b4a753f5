package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is one day's takings for a restaurant. At most one sale exists per
// restaurant and calendar date.
type Sale struct {
	shared.TenantAggregateRoot
	shared.Submission
	Date           time.Time       `gorm:"type:date;not null;index" json:"date"`
	CashGNF        decimal.Decimal `gorm:"column:cash_gnf;type:decimal(18,2);not null;default:0" json:"cashGNF"`
	OrangeMoneyGNF decimal.Decimal `gorm:"column:orange_money_gnf;type:decimal(18,2);not null;default:0" json:"orangeMoneyGNF"`
	CardGNF        decimal.Decimal `gorm:"column:card_gnf;type:decimal(18,2);not null;default:0" json:"cardGNF"`
	CreditTotalGNF decimal.Decimal `gorm:"column:credit_total_gnf;type:decimal(18,2);not null;default:0" json:"creditTotalGNF"`
	TotalGNF       decimal.Decimal `gorm:"column:total_gnf;type:decimal(18,2);not null" json:"totalGNF"`
	ItemsCount     *int            `json:"itemsCount,omitempty"`
	CustomersCount *int            `json:"customersCount,omitempty"`
	Comments       string          `gorm:"type:varchar(1000)" json:"comments,omitempty"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID" json:"saleItems,omitempty"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is an informational product line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"saleId"`
	ProductID    *uuid.UUID      `gorm:"type:uuid" json:"productId,omitempty"`
	ProductName  string          `gorm:"type:varchar(200);not null" json:"productName"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPriceGNF decimal.Decimal `gorm:"column:unit_price_gnf;type:decimal(18,2);not null;default:0" json:"unitPriceGNF"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// CreditLine is the part of a sale taken on credit by one customer.
// Each line becomes an Active debt.
type CreditLine struct {
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	DueDate     *time.Time
	Description string
}

// SaleItemInput is one product line of a new sale
type SaleItemInput struct {
	ProductID    *uuid.UUID
	ProductName  string
	Quantity     decimal.Decimal
	UnitPriceGNF decimal.Decimal
}

// SaleInput holds the fields of a new sale
type SaleInput struct {
	Date           time.Time
	CashGNF        decimal.Decimal
	OrangeMoneyGNF decimal.Decimal
	CardGNF        decimal.Decimal
	ItemsCount     *int
	CustomersCount *int
	Comments       string
	Items          []SaleItemInput
	CreditLines    []CreditLine
}

// ImmediatePayment is the money collected at sale time through one method
type ImmediatePayment struct {
	Method shared.PaymentMethod
	Amount decimal.Decimal
}

// NewSale validates the input and creates a Pending sale.
// totalGNF = cash + orange money + card + sum of credit lines, and must be positive.
func NewSale(restaurantID, createdBy uuid.UUID, in SaleInput) (*Sale, error) {
	if in.Date.IsZero() {
		return nil, shared.NewValidationError("Sale date is required")
	}
	for name, v := range map[string]decimal.Decimal{"cashGNF": in.CashGNF, "orangeMoneyGNF": in.OrangeMoneyGNF, "cardGNF": in.CardGNF} {
		if v.IsNegative() {
			return nil, shared.NewValidationError(name + " cannot be negative")
		}
	}
	if in.ItemsCount != nil && *in.ItemsCount < 0 {
		return nil, shared.NewValidationError("itemsCount cannot be negative")
	}
	if in.CustomersCount != nil && *in.CustomersCount < 0 {
		return nil, shared.NewValidationError("customersCount cannot be negative")
	}

	credit := decimal.Zero
	for _, line := range in.CreditLines {
		if line.CustomerID == uuid.Nil {
			return nil, shared.NewValidationError("Credit line customer is required")
		}
		if !line.Amount.IsPositive() {
			return nil, shared.NewValidationError("Credit line amount must be greater than zero")
		}
		credit = credit.Add(line.Amount)
	}

	total := in.CashGNF.Add(in.OrangeMoneyGNF).Add(in.CardGNF).Add(credit)
	if !total.IsPositive() {
		return nil, shared.NewValidationError("Sale total must be greater than zero")
	}

	s := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(restaurantID, createdBy),
		Submission:          shared.NewSubmission(),
		Date:                truncateToDate(in.Date),
		CashGNF:             in.CashGNF,
		OrangeMoneyGNF:      in.OrangeMoneyGNF,
		CardGNF:             in.CardGNF,
		CreditTotalGNF:      credit,
		TotalGNF:            total,
		ItemsCount:          in.ItemsCount,
		CustomersCount:      in.CustomersCount,
		Comments:            in.Comments,
	}

	for _, it := range in.Items {
		name := strings.TrimSpace(it.ProductName)
		if name == "" {
			return nil, shared.NewValidationError("Sale item product name is required")
		}
		if !it.Quantity.IsPositive() {
			return nil, shared.NewValidationError("Sale item quantity must be positive")
		}
		if it.UnitPriceGNF.IsNegative() {
			return nil, shared.NewValidationError("Sale item unit price cannot be negative")
		}
		s.Items = append(s.Items, SaleItem{
			BaseEntity:   shared.NewBaseEntity(),
			SaleID:       s.ID,
			ProductID:    it.ProductID,
			ProductName:  name,
			Quantity:     it.Quantity,
			UnitPriceGNF: it.UnitPriceGNF,
		})
	}

	s.AddDomainEvent(NewSaleSubmittedEvent(s))
	return s, nil
}

// NewDuplicateDateError reports that the restaurant already has a sale on date
func NewDuplicateDateError(date time.Time) error {
	return shared.NewDomainError(shared.CodeAlreadyExists,
		fmt.Sprintf("A sale already exists for %s", date.Format("2006-01-02")))
}

// ImmediatePayments returns the non-zero cash, Orange Money and card amounts
func (s *Sale) ImmediatePayments() []ImmediatePayment {
	var out []ImmediatePayment
	for _, p := range []ImmediatePayment{
		{Method: shared.PaymentMethodCash, Amount: s.CashGNF},
		{Method: shared.PaymentMethodOrangeMoney, Amount: s.OrangeMoneyGNF},
		{Method: shared.PaymentMethodCard, Amount: s.CardGNF},
	} {
		if p.Amount.IsPositive() {
			out = append(out, p)
		}
	}
	return out
}

// Approve flips the sale to Approved and returns the deposits it owes the bank ledger
func (s *Sale) Approve(approvedBy uuid.UUID, at time.Time) ([]ImmediatePayment, error) {
	if err := s.MarkApproved(approvedBy, at); err != nil {
		return nil, err
	}
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(shared.NewSubmissionDecidedEvent(EventTypeSaleApproved, AggregateTypeSale, s.ID, s.RestaurantID, approvedBy))
	return s.ImmediatePayments(), nil
}

// Reject flips the sale to Rejected
func (s *Sale) Reject(rejectedBy uuid.UUID, reason string, at time.Time) error {
	if err := s.MarkRejected(rejectedBy, reason, at); err != nil {
		return err
	}
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(shared.NewSubmissionDecidedEvent(EventTypeSaleRejected, AggregateTypeSale, s.ID, s.RestaurantID, rejectedBy))
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
