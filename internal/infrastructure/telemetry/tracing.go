package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used by application services
const TracerName = "restaurant-hub"

// Span attribute keys set by the ledger services
const (
	SpanAttrRestaurantID = "restaurant_id"
	SpanAttrUserID       = "user_id"

	SpanAttrItemID       = "item_id"
	SpanAttrMovementType = "movement_type"
	SpanAttrQuantity     = "quantity"

	SpanAttrSubmissionKind = "submission_kind"
	SpanAttrSubmissionID   = "submission_id"

	SpanAttrExpenseID         = "expense_id"
	SpanAttrDebtID            = "debt_id"
	SpanAttrPaymentMethod     = "payment_method"
	SpanAttrAmount            = "amount"
	SpanAttrBankTransactionID = "bank_transaction_id"

	SpanAttrResetCategories = "reset_categories"
)

// StartServiceSpan starts an internal span named "service.method", e.g.
// "stock_ledger.record_movement". The caller ends it.
func StartServiceSpan(ctx context.Context, service, method string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method, trace.WithSpanKind(trace.SpanKindInternal))
}

// SetAttributes sets alternating key, value pairs on span. Pairs whose key
// is not a string are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil || !span.IsRecording() {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		if key, ok := keyValues[i].(string); ok {
			attrs = append(attrs, toAttribute(key, keyValues[i+1]))
		}
	}
	span.SetAttributes(attrs...)
}

// RecordError marks span as failed with err
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
