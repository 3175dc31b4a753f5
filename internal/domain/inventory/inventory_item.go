package inventory

import (
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is an ingredient or supply tracked by the stock ledger.
// CurrentStock is a cached aggregate of the item's movements and is only
// changed through ApplyMovement.
type InventoryItem struct {
	shared.TenantAggregateRoot
	Name         string          `gorm:"type:varchar(200);not null" json:"name"`
	Category     string          `gorm:"type:varchar(100)" json:"category,omitempty"`
	Unit         string          `gorm:"type:varchar(20);not null" json:"unit"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"currentStock"`
	MinStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"minStock"`
	UnitCostGNF  decimal.Decimal `gorm:"column:unit_cost_gnf;type:decimal(18,2);not null;default:0" json:"unitCostGNF"`
	IsActive     bool            `gorm:"not null;default:true" json:"isActive"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates an item with zero stock
func NewInventoryItem(restaurantID uuid.UUID, name, unit string, minStock, unitCost decimal.Decimal) (*InventoryItem, error) {
	name = strings.TrimSpace(name)
	if restaurantID == uuid.Nil {
		return nil, shared.NewValidationError("Restaurant ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Item name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewValidationError("Item unit cannot be empty")
	}
	if minStock.IsNegative() {
		return nil, shared.NewValidationError("Minimum stock cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}

	return &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(restaurantID),
		Name:                name,
		Unit:                unit,
		CurrentStock:        decimal.Zero,
		MinStock:            minStock,
		UnitCostGNF:         unitCost,
		IsActive:            true,
	}, nil
}

// ApplyMovement folds a new movement into the cached stock and stamps the
// movement's before/after balances. Negative results are permitted and flagged.
func (i *InventoryItem) ApplyMovement(m *StockMovement) error {
	if m.ItemID != i.ID {
		return shared.NewValidationError("Movement does not belong to this item")
	}
	if m.RestaurantID != i.RestaurantID {
		return shared.ErrNotFound
	}

	m.BalanceBefore = i.CurrentStock
	i.CurrentStock = i.CurrentStock.Add(m.Quantity)
	m.BalanceAfter = i.CurrentStock
	m.NegativeStock = i.CurrentStock.IsNegative()

	if m.Type == MovementTypePurchase && m.UnitCost != nil && m.UnitCost.IsPositive() {
		i.UnitCostGNF = *m.UnitCost
	}

	i.Touch()
	i.IncrementVersion()
	i.AddDomainEvent(NewStockMovedEvent(i, m))
	return nil
}

// ResetStock zeroes the cached stock. Used only by the tenant reset, which
// deletes the item's movements in the same transaction.
func (i *InventoryItem) ResetStock() {
	i.CurrentStock = decimal.Zero
	i.Touch()
	i.IncrementVersion()
}

// IsBelowMinimum reports whether stock is under the alert threshold
func (i *InventoryItem) IsBelowMinimum() bool {
	return i.CurrentStock.LessThan(i.MinStock)
}
