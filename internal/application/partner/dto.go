package partner

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/partner"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	CustomerType string           `json:"customerType" binding:"omitempty,oneof=Individual Corporate Wholesale"`
	Phone        string           `json:"phone" binding:"max=50"`
	Email        string           `json:"email" binding:"omitempty,email,max=200"`
	Address      string           `json:"address" binding:"max=500"`
	CreditLimit  *decimal.Decimal `json:"creditLimit"`
	Notes        string           `json:"notes"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search       string `form:"search"`
	CustomerType string `form:"customerType" binding:"omitempty,oneof=Individual Corporate Wholesale"`
	IsActive     *bool  `form:"isActive"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

func (f CustomerListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	filter.Search = f.Search
	if f.CustomerType != "" {
		filter.Filters["customer_type"] = f.CustomerType
	}
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}
	return filter
}

// CreditRequest asks to extend credit to a customer
type CreditRequest struct {
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	// Override lets an Owner go past the credit limit
	Override bool
}

func toCustomerInput(req CreateCustomerRequest) partner.CustomerInput {
	return partner.CustomerInput{
		Name:         req.Name,
		CustomerType: partner.CustomerType(req.CustomerType),
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		CreditLimit:  req.CreditLimit,
		Notes:        req.Notes,
	}
}
