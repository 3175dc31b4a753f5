package sales

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeSaleSubmitted = "sales.sale_submitted"
	EventTypeSaleApproved  = "sales.sale_approved"
	EventTypeSaleRejected  = "sales.sale_rejected"

	AggregateTypeSale = "Sale"
)

// SaleSubmittedEvent is raised when a sale enters the approval queue
type SaleSubmittedEvent struct {
	shared.BaseDomainEvent
	TotalGNF       decimal.Decimal `json:"totalGNF"`
	CreditTotalGNF decimal.Decimal `json:"creditTotalGNF"`
}

// NewSaleSubmittedEvent creates a SaleSubmittedEvent
func NewSaleSubmittedEvent(s *Sale) *SaleSubmittedEvent {
	return &SaleSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleSubmitted, AggregateTypeSale, s.ID, s.RestaurantID),
		TotalGNF:        s.TotalGNF,
		CreditTotalGNF:  s.CreditTotalGNF,
	}
}
