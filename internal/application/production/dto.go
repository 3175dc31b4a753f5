package production

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/production"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitProductionRequest is a production batch awaiting approval
type SubmitProductionRequest struct {
	Date        time.Time               `json:"date" binding:"required"`
	ProductID   *uuid.UUID              `json:"productId"`
	ProductName string                  `json:"productName" binding:"max=200"`
	Quantity    decimal.Decimal         `json:"quantity"`
	DeductStock bool                    `json:"deductStock"`
	Notes       string                  `json:"notes" binding:"max=1000"`
	Ingredients []inventory.Requirement `json:"ingredientDetails" binding:"dive"`
}

func (r SubmitProductionRequest) toInput() production.ProductionInput {
	return production.ProductionInput{
		Date:        r.Date,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		DeductStock: r.DeductStock,
		Notes:       r.Notes,
		Ingredients: r.Ingredients,
	}
}

// UpdatePreparationStatusRequest moves the kitchen workflow
type UpdatePreparationStatusRequest struct {
	PreparationStatus production.PreparationStatus `json:"preparationStatus" binding:"required,oneof=Planning Ready InProgress Complete"`
}

// ProductionListFilter represents filter options for the production list
type ProductionListFilter struct {
	Status            string     `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	PreparationStatus string     `form:"preparationStatus" binding:"omitempty,oneof=Planning Ready InProgress Complete"`
	From              *time.Time `form:"from" time_format:"2006-01-02"`
	To                *time.Time `form:"to" time_format:"2006-01-02"`
	Page              int        `form:"page"`
	PageSize          int        `form:"pageSize"`
}

func (f ProductionListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	filter.From = f.From
	filter.To = f.To
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.PreparationStatus != "" {
		filter.Filters["preparation_status"] = f.PreparationStatus
	}
	return filter
}
