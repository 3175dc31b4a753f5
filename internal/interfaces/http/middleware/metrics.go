package middleware

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	requestSizeBuckets  = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}
	responseSizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000, 5000000}
)

type httpInstruments struct {
	requests     *telemetry.Counter
	duration     *telemetry.Histogram
	requestSize  *telemetry.Histogram
	responseSize *telemetry.Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	in := &httpInstruments{}
	var err error
	if in.requests, err = telemetry.NewCounter(meter, "http_server_request_total", "HTTP requests served", "{request}"); err != nil {
		return nil, err
	}
	histograms := []struct {
		dst  **telemetry.Histogram
		opts telemetry.HistogramOpts
	}{
		{&in.duration, telemetry.HistogramOpts{Name: "http_server_request_duration_seconds", Description: "HTTP request latency", Unit: "s", Boundaries: telemetry.HTTPDurationBuckets}},
		{&in.requestSize, telemetry.HistogramOpts{Name: "http_server_request_size_bytes", Description: "HTTP request body size", Unit: "By", Boundaries: requestSizeBuckets}},
		{&in.responseSize, telemetry.HistogramOpts{Name: "http_server_response_size_bytes", Description: "HTTP response body size", Unit: "By", Boundaries: responseSizeBuckets}},
	}
	for _, h := range histograms {
		if *h.dst, err = telemetry.NewHistogram(meter, h.opts); err != nil {
			return nil, err
		}
	}
	in.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return in, nil
}

// HTTPMetrics records request count, latency and body sizes per route
// template. The request counter also carries the status code and, for
// scoped routes, the restaurant. A nil meter disables the middleware.
func HTTPMetrics(meter metric.Meter) gin.HandlerFunc {
	if meter == nil {
		return passThrough
	}
	in, err := newHTTPInstruments(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		in.inFlight.Add(ctx, 1)

		c.Next()

		in.inFlight.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		base := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}

		counted := append(append([]attribute.KeyValue{}, base...), telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
		if id := restaurantIDFromContext(c); id != "" {
			counted = append(counted, telemetry.AttrRestaurantID.String(id))
		}
		in.requests.Inc(ctx, counted...)
		in.duration.RecordDuration(ctx, time.Since(start), base...)

		if size := c.Request.ContentLength; size > 0 {
			in.requestSize.Record(ctx, float64(size), base...)
		}
		if size := c.Writer.Size(); size > 0 {
			in.responseSize.Record(ctx, float64(size), base...)
		}
	}
}

func passThrough(c *gin.Context) { c.Next() }

func restaurantIDFromContext(c *gin.Context) string {
	if p, ok := GetPrincipal(c); ok {
		return p.RestaurantID.String()
	}
	return ""
}
