package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	restaurantIDKey
	userIDKey
)

var scopeKeys = []struct {
	key   ctxKey
	field string
}{
	{requestIDKey, "request_id"},
	{restaurantIDKey, "restaurant_id"},
	{userIDKey, "user_id"},
}

// WithContext attaches log to ctx
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger attached to ctx, or a no-op logger, with
// the identifiers found in ctx added as fields.
func FromContext(ctx context.Context) *zap.Logger {
	log, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	if fields := ScopeFields(ctx); len(fields) > 0 {
		return log.With(fields...)
	}
	return log
}

// ScopeFields returns the request, restaurant, user and trace identifiers
// carried by ctx.
func ScopeFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	for _, s := range scopeKeys {
		if v, _ := ctx.Value(s.key).(string); v != "" {
			fields = append(fields, zap.String(s.field, v))
		}
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func WithRestaurantID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, restaurantIDKey, id)
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func GetRequestID(ctx context.Context) string    { return stringValue(ctx, requestIDKey) }
func GetRestaurantID(ctx context.Context) string { return stringValue(ctx, restaurantIDKey) }
func GetUserID(ctx context.Context) string       { return stringValue(ctx, userIDKey) }

func stringValue(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
