package shared

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// EventCollector gathers domain events raised inside a transaction so they
// can be published once the transaction has committed.
type EventCollector struct {
	events []shared.DomainEvent
}

// Collect takes the pending events of each aggregate and clears them
func (c *EventCollector) Collect(aggregates ...shared.AggregateRoot) {
	for _, a := range aggregates {
		if a == nil {
			continue
		}
		c.events = append(c.events, a.GetDomainEvents()...)
		a.ClearDomainEvents()
	}
}

// Add appends standalone events
func (c *EventCollector) Add(events ...shared.DomainEvent) {
	c.events = append(c.events, events...)
}

// Reset drops everything collected so far. Call it at the start of a retried unit of work.
func (c *EventCollector) Reset() {
	c.events = nil
}

// Events returns the collected events
func (c *EventCollector) Events() []shared.DomainEvent {
	return c.events
}

// Publish hands the events to the publisher. Failures are logged, not returned:
// the transaction has already committed and subscribers only maintain caches and metrics.
func (c *EventCollector) Publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger) {
	if publisher == nil || len(c.events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, c.events...); err != nil && logger != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(c.events)),
			zap.Error(err))
	}
	c.events = nil
}
