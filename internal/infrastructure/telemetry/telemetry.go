// Package telemetry wires OpenTelemetry traces, metrics and logs, Pyroscope
// profiling, and the ledger metrics exported by the service.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap/zapcore"
)

const defaultMetricInterval = time.Minute

// Config selects the collector and the signals exported to it.
// Nothing is exported unless Enabled is set.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	Insecure          bool
	ServiceName       string
	ServiceVersion    string

	// SamplingRatio is the share of root spans kept, 0 to 1
	SamplingRatio  float64
	Metrics        bool
	Logs           bool
	MetricInterval time.Duration
}

// Telemetry owns the SDK providers for one process. Signals that are not
// enabled keep the global no-op implementations.
type Telemetry struct {
	cfg    Config
	traces *sdktrace.TracerProvider
	meters *sdkmetric.MeterProvider
	logs   *sdklog.LoggerProvider

	spanProfiles bool
}

// Setup builds the enabled providers and installs them globally
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	t := &Telemetry{cfg: cfg}
	if !cfg.Enabled {
		return t, nil
	}

	res, err := serviceResource(cfg)
	if err != nil {
		return nil, err
	}

	if err := t.setupTraces(ctx, res); err != nil {
		return nil, err
	}
	if cfg.Metrics {
		if err := t.setupMetrics(ctx, res); err != nil {
			return nil, errors.Join(err, t.Shutdown(ctx))
		}
	}
	if cfg.Logs {
		if err := t.setupLogs(ctx, res); err != nil {
			return nil, errors.Join(err, t.Shutdown(ctx))
		}
	}
	return t, nil
}

func serviceResource(cfg Config) (*resource.Resource, error) {
	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

func (t *Telemetry) setupTraces(ctx context.Context, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(t.cfg.CollectorEndpoint)}
	if t.cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("trace exporter: %w", err)
	}

	t.traces = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(samplerFor(t.cfg.SamplingRatio))),
	)
	otel.SetTracerProvider(t.traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}

func (t *Telemetry) setupMetrics(ctx context.Context, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(t.cfg.CollectorEndpoint)}
	if t.cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("metric exporter: %w", err)
	}

	interval := t.cfg.MetricInterval
	if interval <= 0 {
		interval = defaultMetricInterval
	}
	t.meters = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(t.meters)
	return nil
}

func (t *Telemetry) setupLogs(ctx context.Context, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(t.cfg.CollectorEndpoint)}
	if t.cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("log exporter: %w", err)
	}

	t.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(t.logs)
	return nil
}

// TracingEnabled reports whether spans are exported
func (t *Telemetry) TracingEnabled() bool { return t.traces != nil }

// MetricsEnabled reports whether metrics are exported
func (t *Telemetry) MetricsEnabled() bool { return t.meters != nil }

// LogsEnabled reports whether log records are exported
func (t *Telemetry) LogsEnabled() bool { return t.logs != nil }

// Meter returns a meter from the SDK provider, or the global no-op meter
func (t *Telemetry) Meter(name string) metric.Meter {
	if t.meters == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return t.meters.Meter(name)
}

// TeeLogs duplicates a zap core into the OTLP log exporter at the same
// minimum level. Usable with zap.WrapCore. Without log export it returns core.
func (t *Telemetry) TeeLogs(core zapcore.Core) zapcore.Core {
	if t.logs == nil {
		return core
	}
	exported := otelzap.NewCore(t.cfg.ServiceName, otelzap.WithLoggerProvider(t.logs))
	return zapcore.NewTee(core, &minLevelCore{Core: exported, min: zapcore.LevelOf(core)})
}

// minLevelCore drops entries below min. The otelzap core accepts every level.
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}

// EnableSpanProfiles labels CPU samples with the active span ID so Pyroscope
// can link profiles to traces. The profiler must already be running.
func (t *Telemetry) EnableSpanProfiles() bool {
	if t.traces == nil || t.spanProfiles {
		return t.spanProfiles
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(t.traces))
	t.spanProfiles = true
	return true
}

// Shutdown flushes and stops every enabled provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.traces != nil {
		if err := t.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("traces: %w", err))
		}
	}
	if t.meters != nil {
		if err := t.meters.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
	}
	if t.logs != nil {
		if err := t.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logs: %w", err))
		}
	}
	return errors.Join(errs...)
}
