package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// tracedEngine installs a recording tracer provider for the test and
// returns an engine with Tracing and SpanStatus mounted.
func tracedEngine(t *testing.T, skip ...string) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})

	r := gin.New()
	r.Use(RequestID(), Tracing(TracingConfig{Enabled: true, ServiceName: "restaurant-hub", SkipPaths: skip}), SpanStatus())
	return r, sr
}

func endedSpan(t *testing.T, sr *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()
	spans := sr.Ended()
	require.Len(t, spans, 1)
	return spans[0]
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]string {
	out := map[string]string{}
	for _, kv := range span.Attributes() {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestTracing_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tracing(TracingConfig{}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTracing_SpanNamedAfterRoute(t *testing.T) {
	r, sr := tracedEngine(t)
	r.GET("/api/v1/inventory/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/inventory/flour", nil))

	span := endedSpan(t, sr)
	assert.Equal(t, "GET /api/v1/inventory/:id", span.Name())
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestTracing_SkipPaths(t *testing.T) {
	r, sr := tracedEngine(t, "/health")
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, sr.Ended())
}

func TestSpanScope(t *testing.T) {
	restaurantID, userID := uuid.New(), uuid.New()

	r, sr := tracedEngine(t)
	r.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, userID.String())
		c.Set(PrincipalKey, identity.Principal{UserID: userID, RestaurantID: restaurantID, Role: identity.RoleOwner})
		c.Next()
	}, SpanScope())
	r.GET("/api/v1/sales", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	attrs := spanAttrs(endedSpan(t, sr))
	assert.Equal(t, "req-42", attrs["request_id"])
	assert.Equal(t, restaurantID.String(), attrs["restaurant_id"])
	assert.Equal(t, userID.String(), attrs["user_id"])
}

func TestSpanStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantCode  codes.Code
		wantDescr string
	}{
		{http.StatusOK, codes.Unset, ""},
		{http.StatusBadRequest, codes.Error, "Bad Request"},
		{http.StatusForbidden, codes.Error, "Forbidden"},
		{http.StatusConflict, codes.Error, "Conflict"},
		{http.StatusInternalServerError, codes.Error, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			r, sr := tracedEngine(t)
			r.POST("/api/v1/expenses", func(c *gin.Context) { c.Status(tt.status) })

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/expenses", nil))

			status := endedSpan(t, sr).Status()
			assert.Equal(t, tt.wantCode, status.Code)
			assert.Equal(t, tt.wantDescr, status.Description)
		})
	}
}

func TestTraceRestaurantID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	valid := uuid.NewString()

	for header, want := range map[string]string{
		valid:                valid,
		"not-a-uuid<script>": "",
		"":                   "",
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set(RestaurantHeaderKey, header)
		}
		assert.Equal(t, want, traceRestaurantID(c), header)
	}
}
