package inventory

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest holds the fields of a new inventory item
type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Category     string          `json:"category" binding:"omitempty,max=100"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	MinStock     decimal.Decimal `json:"minStock"`
	UnitCostGNF  decimal.Decimal `json:"unitCostGNF"`
	InitialStock decimal.Decimal `json:"initialStock"`
}

// RecordMovementRequest is a manual stock movement
type RecordMovementRequest struct {
	Type     inventory.MovementType `json:"type" binding:"required"`
	Quantity decimal.Decimal        `json:"quantity" binding:"required"`
	UnitCost *decimal.Decimal       `json:"unitCost"`
	Reason   string                 `json:"reason" binding:"omitempty,max=500"`
}

// CheckAvailabilityRequest lists ingredient requirements to test against stock
type CheckAvailabilityRequest struct {
	Ingredients []inventory.Requirement `json:"ingredients" binding:"required,min=1,dive"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search       string `form:"search"`
	Category     string `form:"category"`
	BelowMinimum bool   `form:"belowMinimum"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

func (f ItemListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	filter.Search = f.Search
	if f.Category != "" {
		filter.Filters["category"] = f.Category
	}
	if f.BelowMinimum {
		filter.Filters["below_minimum"] = true
	}
	return filter
}

// MovementResult is the outcome of recording a movement
type MovementResult struct {
	Movement *inventory.StockMovement `json:"movement"`
	Item     *inventory.InventoryItem `json:"item"`
}

// StockResponse is the cached stock of an item
type StockResponse struct {
	ItemID       uuid.UUID       `json:"itemId"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	Unit         string          `json:"unit"`
}
