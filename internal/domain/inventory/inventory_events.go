package inventory

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeStockMoved = "inventory.stock_moved"

	AggregateTypeInventoryItem = "InventoryItem"
)

// StockMovedEvent is raised for every recorded movement
type StockMovedEvent struct {
	shared.BaseDomainEvent
	MovementID    uuid.UUID       `json:"movementId"`
	ItemID        uuid.UUID       `json:"itemId"`
	Type          MovementType    `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	NegativeStock bool            `json:"negativeStock"`
	BelowMinimum  bool            `json:"belowMinimum"`
}

// NewStockMovedEvent creates a StockMovedEvent
func NewStockMovedEvent(item *InventoryItem, m *StockMovement) *StockMovedEvent {
	return &StockMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMoved, AggregateTypeInventoryItem, item.ID, item.RestaurantID),
		MovementID:      m.ID,
		ItemID:          item.ID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		BalanceAfter:    m.BalanceAfter,
		NegativeStock:   m.NegativeStock,
		BelowMinimum:    item.IsBelowMinimum(),
	}
}
