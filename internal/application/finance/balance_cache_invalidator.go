package finance

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// BalanceCacheInvalidator drops a restaurant's cached bank summary whenever one
// of its bank transactions is created, confirmed or purged.
type BalanceCacheInvalidator struct {
	cache  BalanceCache
	logger *zap.Logger
}

// NewBalanceCacheInvalidator creates a new BalanceCacheInvalidator
func NewBalanceCacheInvalidator(cache BalanceCache, logger *zap.Logger) *BalanceCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceCacheInvalidator{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *BalanceCacheInvalidator) EventTypes() []string {
	return []string{
		finance.EventTypeBankTransactionCreated,
		finance.EventTypeBankTransactionConfirmed,
		finance.EventTypeBankTransactionsPurged,
	}
}

// Handle invalidates the cache entry of the event's restaurant
func (h *BalanceCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx, event.RestaurantID()); err != nil {
		h.logger.Warn("Failed to invalidate balance cache",
			zap.String("restaurant_id", event.RestaurantID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	return nil
}
