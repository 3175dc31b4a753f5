package production

import (
	"strings"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionLog records a batch produced by the kitchen. When DeductStock is
// set, approval consumes the ingredients from the stock ledger exactly once.
type ProductionLog struct {
	shared.TenantAggregateRoot
	shared.Submission
	Date              time.Time         `gorm:"type:date;not null;index" json:"date"`
	ProductID         *uuid.UUID        `gorm:"type:uuid" json:"productId,omitempty"`
	ProductName       string            `gorm:"type:varchar(200);not null" json:"productName"`
	Quantity          decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"quantity"`
	PreparationStatus PreparationStatus `gorm:"type:varchar(20);not null;default:'Planning'" json:"preparationStatus"`
	DeductStock       bool              `gorm:"not null;default:false" json:"deductStock"`
	StockDeducted     bool              `gorm:"not null;default:false" json:"stockDeducted"`
	StockDeductedAt   *time.Time        `json:"stockDeductedAt,omitempty"`
	EstimatedCostGNF  decimal.Decimal   `gorm:"column:estimated_cost_gnf;type:decimal(18,2);not null;default:0" json:"estimatedCostGNF"`
	Notes             string            `gorm:"type:varchar(1000)" json:"notes,omitempty"`
	Items             []ProductionItem  `gorm:"foreignKey:ProductionLogID" json:"ingredientDetails,omitempty"`
}

// TableName returns the table name for GORM
func (ProductionLog) TableName() string {
	return "production_logs"
}

// ProductionItem is one ingredient consumed by a production batch
type ProductionItem struct {
	shared.BaseEntity
	ProductionLogID uuid.UUID       `gorm:"type:uuid;not null;index" json:"productionLogId"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"itemId"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitCostGNF     decimal.Decimal `gorm:"column:unit_cost_gnf;type:decimal(18,2);not null;default:0" json:"unitCostGNF"`
}

// TableName returns the table name for GORM
func (ProductionItem) TableName() string {
	return "production_items"
}

// ProductionInput holds the fields of a new production log
type ProductionInput struct {
	Date        time.Time
	ProductID   *uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	DeductStock bool
	Notes       string
	Ingredients []inventory.Requirement
}

// NewProductionLog creates a Pending log in Planning. Ingredient unit costs are
// snapshotted from the given items, which must include every ingredient.
func NewProductionLog(restaurantID, createdBy uuid.UUID, in ProductionInput, items map[uuid.UUID]*inventory.InventoryItem) (*ProductionLog, error) {
	if in.Date.IsZero() {
		return nil, shared.NewValidationError("Production date is required")
	}
	name := strings.TrimSpace(in.ProductName)
	if name == "" && in.ProductID == nil {
		return nil, shared.NewValidationError("Either productId or productName is required")
	}
	if !in.Quantity.IsPositive() {
		return nil, shared.NewValidationError("Production quantity must be positive")
	}
	if in.DeductStock && len(in.Ingredients) == 0 {
		return nil, shared.NewValidationError("Stock deduction requires at least one ingredient")
	}
	ingredients, err := inventory.MergeRequirements(in.Ingredients)
	if err != nil {
		return nil, err
	}

	p := &ProductionLog{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(restaurantID, createdBy),
		Submission:          shared.NewSubmission(),
		Date:                in.Date,
		ProductID:           in.ProductID,
		ProductName:         name,
		Quantity:            in.Quantity,
		PreparationStatus:   PreparationPlanning,
		DeductStock:         in.DeductStock,
		EstimatedCostGNF:    decimal.Zero,
		Notes:               in.Notes,
	}

	for _, r := range ingredients {
		item, ok := items[r.ItemID]
		if !ok || !item.BelongsTo(restaurantID) {
			return nil, shared.NewNotFoundError("Inventory item " + r.ItemID.String())
		}
		p.Items = append(p.Items, ProductionItem{
			BaseEntity:      shared.NewBaseEntity(),
			ProductionLogID: p.ID,
			InventoryItemID: r.ItemID,
			Quantity:        r.Quantity,
			UnitCostGNF:     item.UnitCostGNF,
		})
		p.EstimatedCostGNF = p.EstimatedCostGNF.Add(r.Quantity.Mul(item.UnitCostGNF))
	}

	p.AddDomainEvent(NewProductionSubmittedEvent(p))
	return p, nil
}

// Requirements returns the ingredient quantities the batch consumes
func (p *ProductionLog) Requirements() []inventory.Requirement {
	reqs := make([]inventory.Requirement, 0, len(p.Items))
	for _, it := range p.Items {
		reqs = append(reqs, inventory.Requirement{ItemID: it.InventoryItemID, Quantity: it.Quantity})
	}
	return reqs
}

// NeedsStockDeduction reports whether approval must consume the ingredients
func (p *ProductionLog) NeedsStockDeduction() bool {
	return p.DeductStock && !p.StockDeducted
}

// Approve flips the log to Approved. Stock is deducted separately through MarkStockDeducted.
func (p *ProductionLog) Approve(approvedBy uuid.UUID, at time.Time) error {
	if err := p.MarkApproved(approvedBy, at); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(shared.NewSubmissionDecidedEvent(EventTypeProductionApproved, AggregateTypeProductionLog, p.ID, p.RestaurantID, approvedBy))
	return nil
}

// Reject flips the log to Rejected
func (p *ProductionLog) Reject(rejectedBy uuid.UUID, reason string, at time.Time) error {
	if err := p.MarkRejected(rejectedBy, reason, at); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(shared.NewSubmissionDecidedEvent(EventTypeProductionRejected, AggregateTypeProductionLog, p.ID, p.RestaurantID, rejectedBy))
	return nil
}

// MarkStockDeducted records the one-time false -> true transition of stockDeducted
func (p *ProductionLog) MarkStockDeducted(at time.Time) error {
	if !p.DeductStock {
		return shared.NewInvalidStateError("Production log does not deduct stock")
	}
	if p.StockDeducted {
		return shared.NewInvalidStateError("Stock has already been deducted for this production log")
	}
	p.StockDeducted = true
	p.StockDeductedAt = &at
	p.Touch()
	return nil
}

// UpdatePreparationStatus moves the kitchen workflow forward. Setting the
// current status again is a no-op and returns false.
func (p *ProductionLog) UpdatePreparationStatus(next PreparationStatus) (bool, error) {
	if !next.IsValid() {
		return false, shared.NewValidationError("Invalid preparation status")
	}
	if next == p.PreparationStatus {
		return false, nil
	}
	if !p.PreparationStatus.CanTransitionTo(next) {
		return false, shared.NewInvalidStateError("Cannot move preparation from " + p.PreparationStatus.String() + " to " + next.String())
	}
	p.PreparationStatus = next
	p.Touch()
	p.IncrementVersion()
	return true, nil
}
