package production

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeProductionSubmitted = "production.log_submitted"
	EventTypeProductionApproved  = "production.log_approved"
	EventTypeProductionRejected  = "production.log_rejected"

	AggregateTypeProductionLog = "ProductionLog"
)

// ProductionSubmittedEvent is raised when a production log enters the approval queue
type ProductionSubmittedEvent struct {
	shared.BaseDomainEvent
	ProductName      string          `json:"productName"`
	Quantity         decimal.Decimal `json:"quantity"`
	DeductStock      bool            `json:"deductStock"`
	EstimatedCostGNF decimal.Decimal `json:"estimatedCostGNF"`
}

// NewProductionSubmittedEvent creates a ProductionSubmittedEvent
func NewProductionSubmittedEvent(p *ProductionLog) *ProductionSubmittedEvent {
	return &ProductionSubmittedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeProductionSubmitted, AggregateTypeProductionLog, p.ID, p.RestaurantID),
		ProductName:      p.ProductName,
		Quantity:         p.Quantity,
		DeductStock:      p.DeductStock,
		EstimatedCostGNF: p.EstimatedCostGNF,
	}
}
