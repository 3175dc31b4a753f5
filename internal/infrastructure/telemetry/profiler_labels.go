package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	ProfilingLabelController   = "controller"
	ProfilingLabelRoute        = "route"
	ProfilingLabelMethod       = "method"
	ProfilingLabelRestaurantID = "restaurant_id"
	ProfilingLabelOperation    = "operation"
	ProfilingLabelKind         = "kind"
)

// Ledger operations that carry profiling labels.
const (
	OperationRecordMovement    = "record_movement"
	OperationAllocatePayment   = "allocate_payment"
	OperationConfirmBankTx     = "confirm_bank_transaction"
	OperationApproveSubmission = "approve_submission"
	OperationRejectSubmission  = "reject_submission"
	OperationExecuteReset      = "execute_reset"
)

// MaxLabelValueLength caps label values to keep profile cardinality bounded.
const MaxLabelValueLength = 128

// HighCardinalityLabels are dropped from profiling labels.
// Restaurant IDs are kept: a deployment serves a bounded set of restaurants.
var HighCardinalityLabels = map[string]bool{
	"user_id":       true,
	"request_id":    true,
	"submission_id": true,
	"trace_id":      true,
	"span_id":       true,
}

// WithProfilingLabels runs fn with Pyroscope labels attached to the goroutine.
//
//	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationAllocatePayment, "debt"), func(c context.Context) {
//	    result, err = s.allocate(c, ...)
//	})
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(maps.Clone(labels))
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeLabels drops empty and high-cardinality labels, truncates long
// values and returns sorted key/value pairs.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if key == "" || value == "" || HighCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		sanitized := sanitizeLabelKey(key)
		if sanitized == "" {
			continue
		}
		pairs = append(pairs, sanitized, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases the key and keeps only [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// HTTPRequestLabels builds the labels attached to an HTTP request
func HTTPRequestLabels(controller, route, method, restaurantID string) map[string]string {
	labels := make(map[string]string, 4)
	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	if restaurantID != "" {
		labels[ProfilingLabelRestaurantID] = restaurantID
	}
	return labels
}

// LedgerOperationLabels labels a ledger command, optionally with the document kind it acts on
func LedgerOperationLabels(operation, kind string) map[string]string {
	labels := map[string]string{ProfilingLabelOperation: operation}
	if kind != "" {
		labels[ProfilingLabelKind] = kind
	}
	return labels
}
