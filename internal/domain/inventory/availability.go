package inventory

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvailabilityStatus classifies one ingredient in an availability check
type AvailabilityStatus string

const (
	AvailabilityOK           AvailabilityStatus = "ok"
	AvailabilityLow          AvailabilityStatus = "low"
	AvailabilityInsufficient AvailabilityStatus = "insufficient"
)

// Requirement is a quantity of an item needed by an operation
type Requirement struct {
	ItemID   uuid.UUID       `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ItemAvailability is the per-item line of an availability report
type ItemAvailability struct {
	ItemID          uuid.UUID          `json:"itemId"`
	ItemName        string             `json:"itemName"`
	Unit            string             `json:"unit"`
	Required        decimal.Decimal    `json:"required"`
	CurrentStock    decimal.Decimal    `json:"currentStock"`
	AfterProduction decimal.Decimal    `json:"afterProduction"`
	MinStock        decimal.Decimal    `json:"minStock"`
	UnitCostGNF     decimal.Decimal    `json:"unitCostGNF"`
	Status          AvailabilityStatus `json:"status"`
}

// AvailabilityReport is the result of CheckAvailability
type AvailabilityReport struct {
	Available        bool               `json:"available"`
	EstimatedCostGNF decimal.Decimal    `json:"estimatedCostGNF"`
	Items            []ItemAvailability `json:"items"`
}

// InsufficientItems returns the lines that block the operation
func (r *AvailabilityReport) InsufficientItems() []ItemAvailability {
	var out []ItemAvailability
	for _, it := range r.Items {
		if it.Status == AvailabilityInsufficient {
			out = append(out, it)
		}
	}
	return out
}

// MergeRequirements sums quantities of repeated items, keeping first-seen order
func MergeRequirements(reqs []Requirement) ([]Requirement, error) {
	merged := make([]Requirement, 0, len(reqs))
	index := make(map[uuid.UUID]int, len(reqs))
	for _, r := range reqs {
		if r.ItemID == uuid.Nil {
			return nil, shared.NewValidationError("Ingredient item ID cannot be empty")
		}
		if !r.Quantity.IsPositive() {
			return nil, shared.NewValidationError("Ingredient quantity must be positive")
		}
		if i, ok := index[r.ItemID]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(r.Quantity)
			continue
		}
		index[r.ItemID] = len(merged)
		merged = append(merged, r)
	}
	return merged, nil
}

// CheckAvailability classifies each requirement against current stock.
// insufficient: currentStock - required < 0; low: 0 <= after < minStock; otherwise ok.
// The estimated cost uses each item's current unit cost.
func CheckAvailability(items map[uuid.UUID]*InventoryItem, reqs []Requirement) (*AvailabilityReport, error) {
	merged, err := MergeRequirements(reqs)
	if err != nil {
		return nil, err
	}

	report := &AvailabilityReport{
		Available:        true,
		EstimatedCostGNF: decimal.Zero,
		Items:            make([]ItemAvailability, 0, len(merged)),
	}

	for _, r := range merged {
		item, ok := items[r.ItemID]
		if !ok {
			return nil, shared.NewNotFoundError("Inventory item " + r.ItemID.String())
		}

		after := item.CurrentStock.Sub(r.Quantity)
		status := AvailabilityOK
		switch {
		case after.IsNegative():
			status = AvailabilityInsufficient
			report.Available = false
		case after.LessThan(item.MinStock):
			status = AvailabilityLow
		}

		report.EstimatedCostGNF = report.EstimatedCostGNF.Add(r.Quantity.Mul(item.UnitCostGNF))
		report.Items = append(report.Items, ItemAvailability{
			ItemID:          item.ID,
			ItemName:        item.Name,
			Unit:            item.Unit,
			Required:        r.Quantity,
			CurrentStock:    item.CurrentStock,
			AfterProduction: after,
			MinStock:        item.MinStock,
			UnitCostGNF:     item.UnitCostGNF,
			Status:          status,
		})
	}

	return report, nil
}
