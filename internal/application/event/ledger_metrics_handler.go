package event

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/production"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/reset"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRecorder receives ledger activity counts
type LedgerRecorder interface {
	RecordSubmissionDecision(ctx context.Context, restaurantID uuid.UUID, kind, status string)
	RecordPaymentAllocated(ctx context.Context, restaurantID uuid.UUID, obligationKind string, amount decimal.Decimal)
	RecordBankConfirmed(ctx context.Context, restaurantID uuid.UUID, method, txType string, amount decimal.Decimal)
	RecordStockMovement(ctx context.Context, restaurantID uuid.UUID, movementType string, negative bool)
	RecordReset(ctx context.Context, restaurantID uuid.UUID, deletedRows int64)
}

type decision struct {
	kind   string
	status shared.SubmissionStatus
}

var decisions = map[string]decision{
	sales.EventTypeSaleApproved:            {"sale", shared.SubmissionApproved},
	sales.EventTypeSaleRejected:            {"sale", shared.SubmissionRejected},
	finance.EventTypeExpenseApproved:       {"expense", shared.SubmissionApproved},
	finance.EventTypeExpenseRejected:       {"expense", shared.SubmissionRejected},
	production.EventTypeProductionApproved: {"production", shared.SubmissionApproved},
	production.EventTypeProductionRejected: {"production", shared.SubmissionRejected},
}

// LedgerMetricsHandler turns committed domain events into ledger metrics
type LedgerMetricsHandler struct {
	recorder LedgerRecorder
}

// NewLedgerMetricsHandler creates a new LedgerMetricsHandler
func NewLedgerMetricsHandler(recorder LedgerRecorder) *LedgerMetricsHandler {
	return &LedgerMetricsHandler{recorder: recorder}
}

// EventTypes returns the event types this handler is interested in
func (h *LedgerMetricsHandler) EventTypes() []string {
	types := []string{
		finance.EventTypePaymentAllocated,
		finance.EventTypeBankTransactionConfirmed,
		inventory.EventTypeStockMoved,
		reset.EventTypeTenantDataReset,
	}
	for t := range decisions {
		types = append(types, t)
	}
	return types
}

// Handle records the metric matching the event
func (h *LedgerMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if d, ok := decisions[event.EventType()]; ok {
		h.recorder.RecordSubmissionDecision(ctx, event.RestaurantID(), d.kind, string(d.status))
		return nil
	}

	switch e := event.(type) {
	case *finance.PaymentAllocatedEvent:
		kind := "expense"
		if e.AggregateType() == finance.AggregateTypeDebt {
			kind = "debt"
		}
		h.recorder.RecordPaymentAllocated(ctx, e.RestaurantID(), kind, e.Amount)
	case *finance.BankTransactionEvent:
		if e.EventType() == finance.EventTypeBankTransactionConfirmed {
			h.recorder.RecordBankConfirmed(ctx, e.RestaurantID(), string(e.Method), string(e.Type), e.Amount)
		}
	case *inventory.StockMovedEvent:
		h.recorder.RecordStockMovement(ctx, e.RestaurantID(), string(e.Type), e.NegativeStock)
	case *reset.TenantDataResetEvent:
		h.recorder.RecordReset(ctx, e.RestaurantID(), e.Result.Total())
	}
	return nil
}
