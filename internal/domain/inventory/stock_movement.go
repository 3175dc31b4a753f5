package inventory

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the kind of stock movement
type MovementType string

const (
	MovementTypePurchase    MovementType = "Purchase"
	MovementTypeUsage       MovementType = "Usage"
	MovementTypeWaste       MovementType = "Waste"
	MovementTypeAdjustment  MovementType = "Adjustment"
	MovementTypeTransferOut MovementType = "TransferOut"
	MovementTypeTransferIn  MovementType = "TransferIn"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePurchase, MovementTypeUsage, MovementTypeWaste,
		MovementTypeAdjustment, MovementTypeTransferOut, MovementTypeTransferIn:
		return true
	}
	return false
}

// IsIncrease returns true for types that always add stock
func (t MovementType) IsIncrease() bool {
	return t == MovementTypePurchase || t == MovementTypeTransferIn
}

// IsDecrease returns true for types that always remove stock
func (t MovementType) IsDecrease() bool {
	return t == MovementTypeUsage || t == MovementTypeWaste || t == MovementTypeTransferOut
}

// SourceType names the document that caused a movement
type SourceType string

const (
	SourceTypeManual     SourceType = "Manual"
	SourceTypeInitial    SourceType = "InitialStock"
	SourceTypeExpense    SourceType = "Expense"
	SourceTypeProduction SourceType = "Production"
)

// StockMovement is an append-only, signed change to an item's stock.
// Rows are never updated or deleted except by the tenant reset.
type StockMovement struct {
	shared.BaseEntity
	RestaurantID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"restaurantId"`
	ItemID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"itemId"`
	Type          MovementType     `gorm:"type:varchar(20);not null" json:"type"`
	Quantity      decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitCost      *decimal.Decimal `gorm:"type:decimal(18,2)" json:"unitCost,omitempty"`
	Reason        string           `gorm:"type:varchar(500)" json:"reason,omitempty"`
	BalanceBefore decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"balanceBefore"`
	BalanceAfter  decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"balanceAfter"`
	NegativeStock bool             `gorm:"not null;default:false" json:"negativeStock"`
	SourceType    SourceType       `gorm:"type:varchar(20);not null" json:"sourceType"`
	SourceID      *uuid.UUID       `gorm:"type:uuid;index" json:"sourceId,omitempty"`
	CreatedBy     uuid.UUID        `gorm:"type:uuid;not null" json:"createdByUserId"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// MovementMeta carries the optional attributes of a movement
type MovementMeta struct {
	UnitCost   *decimal.Decimal
	Reason     string
	SourceType SourceType
	SourceID   *uuid.UUID
	CreatedBy  uuid.UUID
}

// NewStockMovement validates the signed quantity against the type and builds a movement.
// Purchase and TransferIn must be positive; Usage, Waste and TransferOut negative;
// Adjustment may carry either sign but not zero.
func NewStockMovement(item *InventoryItem, movementType MovementType, quantity decimal.Decimal, meta MovementMeta) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("Invalid movement type")
	}
	if quantity.IsZero() {
		return nil, shared.NewValidationError("Movement quantity cannot be zero")
	}
	if movementType.IsIncrease() && quantity.IsNegative() {
		return nil, shared.NewValidationError(movementType.String() + " quantity must be positive")
	}
	if movementType.IsDecrease() && quantity.IsPositive() {
		return nil, shared.NewValidationError(movementType.String() + " quantity must be negative")
	}
	if meta.CreatedBy == uuid.Nil {
		return nil, shared.NewValidationError("Movement creator cannot be empty")
	}
	if meta.UnitCost != nil && meta.UnitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}
	sourceType := meta.SourceType
	if sourceType == "" {
		sourceType = SourceTypeManual
	}

	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		RestaurantID: item.RestaurantID,
		ItemID:       item.ID,
		Type:         movementType,
		Quantity:     quantity,
		UnitCost:     meta.UnitCost,
		Reason:       meta.Reason,
		SourceType:   sourceType,
		SourceID:     meta.SourceID,
		CreatedBy:    meta.CreatedBy,
	}, nil
}

// ReplayStock is the source-of-truth stock: the signed sum of all movements.
func ReplayStock(movements []StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Quantity)
	}
	return total
}

// StockAudit compares the cached stock against a replay of the movement log
type StockAudit struct {
	ItemID    uuid.UUID       `json:"itemId"`
	Cached    decimal.Decimal `json:"cached"`
	Replayed  decimal.Decimal `json:"replayed"`
	Drift     decimal.Decimal `json:"drift"`
	Coherent  bool            `json:"coherent"`
	Movements int             `json:"movements"`
	AuditedAt time.Time       `json:"auditedAt"`
}

// AuditStock replays the item's movements and reports drift
func AuditStock(item *InventoryItem, movements []StockMovement) StockAudit {
	replayed := ReplayStock(movements)
	drift := item.CurrentStock.Sub(replayed)
	return StockAudit{
		ItemID:    item.ID,
		Cached:    item.CurrentStock,
		Replayed:  replayed,
		Drift:     drift,
		Coherent:  drift.IsZero(),
		Movements: len(movements),
		AuditedAt: time.Now(),
	}
}
