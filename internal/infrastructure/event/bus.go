// Package event dispatches domain events to in-process subscribers after the
// originating transaction has committed.
package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "restaurant-hub/event"

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// InMemoryEventBus delivers events synchronously, in publish order, to every
// subscribed handler. A failing or panicking handler does not stop delivery to
// the others; all failures are returned joined.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a bus using the global tracer provider
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
}

// Publish delivers each event to its handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, evt := range events {
		for _, handler := range b.registry.HandlersFor(evt.EventType()) {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.String("restaurant_id", evt.RestaurantID().String()),
					zap.String("handler", fmt.Sprintf("%T", handler)),
					zap.Error(err))
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers handler for eventTypes, or for handler.EventTypes() when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed",
		zap.String("handler", fmt.Sprintf("%T", handler)),
		zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	ctx, span := b.tracer.Start(ctx, "event.handle "+evt.EventType(),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("event.type", evt.EventType()),
			attribute.String("event.id", evt.EventID().String()),
			attribute.String("restaurant_id", evt.RestaurantID().String()),
		))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked on %s: %v", evt.EventType(), r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return handler.Handle(ctx, evt)
}
