package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds request IDs copied into span attributes
const MaxRequestIDLength = 128

type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are served without a span, typically health checks
	SkipPaths []string
}

// Tracing starts a server span per request through otelgin. Spans are
// named "METHOD /route/:template".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	var opts []otelgin.Option
	if len(cfg.SkipPaths) > 0 {
		skip := slices.Clone(cfg.SkipPaths)
		opts = append(opts, otelgin.WithGinFilter(func(c *gin.Context) bool {
			return !slices.Contains(skip, c.Request.URL.Path)
		}))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanStatus flags 4xx responses on the request span. otelgin already
// flags 5xx. Mount it right after Tracing so rejections by later
// middleware are covered.
func SpanStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			return
		}
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// SpanScope copies the request, restaurant and user identifiers onto the
// request span. Mount it after RestaurantContext.
func SpanScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			span.SetAttributes(scopeAttributes(c)...)
		}
		c.Next()
	}
}

func scopeAttributes(c *gin.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id := GetRequestID(c); id != "" {
		attrs = append(attrs, attribute.String("request_id", id[:min(len(id), MaxRequestIDLength)]))
	}
	if id := traceRestaurantID(c); id != "" {
		attrs = append(attrs, attribute.String("restaurant_id", id))
	}
	if id := GetJWTUserID(c); id != "" {
		attrs = append(attrs, attribute.String("user_id", id))
	}
	return attrs
}

// traceRestaurantID prefers the resolved principal and otherwise accepts
// the header only when it parses as a UUID.
func traceRestaurantID(c *gin.Context) string {
	if p, ok := GetPrincipal(c); ok {
		return p.RestaurantID.String()
	}
	header := c.GetHeader(RestaurantHeaderKey)
	if _, err := uuid.Parse(header); err != nil {
		return ""
	}
	return header
}
