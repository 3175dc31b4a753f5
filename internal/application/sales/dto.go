package sales

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitSaleRequest is one day's takings awaiting approval
type SubmitSaleRequest struct {
	Date           time.Time           `json:"date" binding:"required"`
	CashGNF        decimal.Decimal     `json:"cashGNF" binding:"gnf_amount"`
	OrangeMoneyGNF decimal.Decimal     `json:"orangeMoneyGNF" binding:"gnf_amount"`
	CardGNF        decimal.Decimal     `json:"cardGNF" binding:"gnf_amount"`
	ItemsCount     *int                `json:"itemsCount" binding:"omitempty,min=0"`
	CustomersCount *int                `json:"customersCount" binding:"omitempty,min=0"`
	Comments       string              `json:"comments" binding:"max=1000"`
	Items          []SaleItemRequest   `json:"saleItems" binding:"dive"`
	CreditLines    []CreditLineRequest `json:"debts" binding:"dive"`
	// OverrideCreditLimit lets an Owner book credit past a customer's limit
	OverrideCreditLimit bool `json:"overrideCreditLimit"`
}

// SaleItemRequest is one sold product line
type SaleItemRequest struct {
	ProductID    *uuid.UUID      `json:"productId"`
	ProductName  string          `json:"productName" binding:"required,max=200"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPriceGNF decimal.Decimal `json:"unitPriceGNF" binding:"gnf_amount"`
}

// CreditLineRequest is the part of the sale a customer takes on credit
type CreditLineRequest struct {
	CustomerID  uuid.UUID       `json:"customerId" binding:"required"`
	Amount      decimal.Decimal `json:"amountGNF" binding:"gnf_amount"`
	DueDate     *time.Time      `json:"dueDate"`
	Description string          `json:"description" binding:"max=500"`
}

func (r SubmitSaleRequest) toInput() sales.SaleInput {
	in := sales.SaleInput{
		Date:           r.Date,
		CashGNF:        r.CashGNF,
		OrangeMoneyGNF: r.OrangeMoneyGNF,
		CardGNF:        r.CardGNF,
		ItemsCount:     r.ItemsCount,
		CustomersCount: r.CustomersCount,
		Comments:       r.Comments,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, sales.SaleItemInput{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPriceGNF: it.UnitPriceGNF,
		})
	}
	for _, c := range r.CreditLines {
		in.CreditLines = append(in.CreditLines, sales.CreditLine{
			CustomerID:  c.CustomerID,
			Amount:      c.Amount,
			DueDate:     c.DueDate,
			Description: c.Description,
		})
	}
	return in
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
}

func (f SaleListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	filter.From = f.From
	filter.To = f.To
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}
