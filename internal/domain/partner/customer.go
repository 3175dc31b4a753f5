package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "Individual"
	CustomerTypeCorporate  CustomerType = "Corporate"
	CustomerTypeWholesale  CustomerType = "Wholesale"
)

// IsValid checks if the type is a valid CustomerType
func (t CustomerType) IsValid() bool {
	switch t {
	case CustomerTypeIndividual, CustomerTypeCorporate, CustomerTypeWholesale:
		return true
	}
	return false
}

// String returns the string representation of CustomerType
func (t CustomerType) String() string {
	return string(t)
}

// Customer is a buyer who may purchase on credit.
// OutstandingDebt is derived from the customer's Active debts and never stored.
type Customer struct {
	shared.TenantAggregateRoot
	Name            string           `gorm:"type:varchar(200);not null" json:"name"`
	CustomerType    CustomerType     `gorm:"type:varchar(20);not null;default:'Individual'" json:"customerType"`
	Phone           string           `gorm:"type:varchar(50);index" json:"phone,omitempty"`
	Email           string           `gorm:"type:varchar(200)" json:"email,omitempty"`
	Address         string           `gorm:"type:text" json:"address,omitempty"`
	CreditLimit     *decimal.Decimal `gorm:"type:decimal(18,2)" json:"creditLimit,omitempty"`
	IsActive        bool             `gorm:"not null;default:true" json:"isActive"`
	Notes           string           `gorm:"type:text" json:"notes,omitempty"`
	OutstandingDebt decimal.Decimal  `gorm:"-" json:"outstandingDebt"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// CustomerInput holds the fields of a new customer
type CustomerInput struct {
	Name         string
	CustomerType CustomerType
	Phone        string
	Email        string
	Address      string
	CreditLimit  *decimal.Decimal
	Notes        string
}

// NewCustomer creates a new active customer
func NewCustomer(restaurantID, createdBy uuid.UUID, in CustomerInput) (*Customer, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	customerType := in.CustomerType
	if customerType == "" {
		customerType = CustomerTypeIndividual
	}
	if !customerType.IsValid() {
		return nil, shared.NewValidationError("Customer type must be Individual, Corporate or Wholesale")
	}
	if in.Phone != "" {
		if err := validatePhone(in.Phone); err != nil {
			return nil, err
		}
	}
	if in.Email != "" {
		if err := validateEmail(in.Email); err != nil {
			return nil, err
		}
	}
	if in.CreditLimit != nil && in.CreditLimit.IsNegative() {
		return nil, shared.NewValidationError("Credit limit cannot be negative")
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(restaurantID, createdBy),
		Name:                name,
		CustomerType:        customerType,
		Phone:               in.Phone,
		Email:               in.Email,
		Address:             in.Address,
		CreditLimit:         in.CreditLimit,
		IsActive:            true,
		Notes:               in.Notes,
		OutstandingDebt:     decimal.Zero,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// CreditCheck is the outcome of checking a new debt against the credit limit
type CreditCheck struct {
	CustomerID  uuid.UUID        `json:"customerId"`
	Outstanding decimal.Decimal  `json:"outstanding"`
	Requested   decimal.Decimal  `json:"requested"`
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"`
	Exceeded    bool             `json:"exceeded"`
	Overridden  bool             `json:"overridden"`
}

// CheckCredit verifies outstanding + amount <= creditLimit when a limit is set.
// With override the breach is reported in the result instead of returned as an error.
func (c *Customer) CheckCredit(outstanding, amount decimal.Decimal, override bool) (CreditCheck, error) {
	check := CreditCheck{
		CustomerID:  c.ID,
		Outstanding: outstanding,
		Requested:   amount,
		CreditLimit: c.CreditLimit,
	}
	if !c.IsActive {
		return check, shared.NewInvalidStateError("Customer " + c.Name + " is inactive")
	}
	if !amount.IsPositive() {
		return check, shared.NewValidationError("Credit amount must be greater than zero")
	}
	if c.CreditLimit == nil {
		return check, nil
	}
	if outstanding.Add(amount).GreaterThan(*c.CreditLimit) {
		check.Exceeded = true
		if !override {
			return check, shared.NewDomainError(shared.CodeCreditLimitExceeded,
				"Credit limit of "+c.CreditLimit.String()+" exceeded for "+c.Name+
					": outstanding "+outstanding.String()+" + new "+amount.String())
		}
		check.Overridden = true
	}
	return check, nil
}

// Deactivate marks the customer inactive. Refused while any debt is outstanding.
func (c *Customer) Deactivate(outstanding decimal.Decimal) error {
	if !c.IsActive {
		return shared.NewInvalidStateError("Customer is already inactive")
	}
	if outstanding.IsPositive() {
		return shared.NewInvalidStateError("Customer has an outstanding debt of " + outstanding.String())
	}
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c))
	return nil
}

// Activate marks the customer active again
func (c *Customer) Activate() error {
	if c.IsActive {
		return shared.NewInvalidStateError("Customer is already active")
	}
	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c))
	return nil
}

// SetCreditLimit changes or clears the credit limit
func (c *Customer) SetCreditLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.IsNegative() {
		return shared.NewValidationError("Credit limit cannot be negative")
	}
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewValidationError("Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewValidationError("Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewValidationError("Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}
