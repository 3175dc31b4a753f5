package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBInstrumentation selects what is attached to the GORM connection
type DBInstrumentation struct {
	// Tracing registers otelgorm spans for every statement
	Tracing bool
	// FullSQL keeps bound variables in span statements. Development only.
	FullSQL bool
	// System is the db.system span attribute: postgresql or sqlite
	System string

	// Meter enables query and pool metrics when non-nil
	Meter metric.Meter

	SlowQuery     time.Duration
	PoolStatsEach time.Duration
}

// DBMetrics records query counts and latency, and samples the pool
type DBMetrics struct {
	queries   *Counter
	latency   *Histogram
	slow      *Counter
	pool      *Gauge
	poolLimit *Gauge

	sqlDB    *sql.DB
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type queryStartKey struct{}

// InstrumentDatabase attaches tracing and metrics callbacks to db.
// The returned DBMetrics is nil when opts.Meter is nil; otherwise call
// StartPoolSampling and Stop around the process lifetime.
func InstrumentDatabase(db *gorm.DB, opts DBInstrumentation, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SlowQuery <= 0 {
		opts.SlowQuery = 200 * time.Millisecond
	}

	if opts.Tracing {
		pluginOpts := []otelgorm.Option{otelgorm.WithDBName(opts.System)}
		if !opts.FullSQL {
			pluginOpts = append(pluginOpts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(pluginOpts...)); err != nil {
			return nil, err
		}
	}

	var dm *DBMetrics
	if opts.Meter != nil {
		var err error
		if dm, err = newDBMetrics(opts.Meter, opts.PoolStatsEach, logger); err != nil {
			return nil, err
		}
		if dm.sqlDB, err = db.DB(); err != nil {
			return nil, err
		}
	}

	if !opts.Tracing && dm == nil {
		return nil, nil
	}
	if err := registerQueryObserver(db, dm, opts.SlowQuery); err != nil {
		return nil, err
	}
	logger.Info("Database instrumented",
		zap.Bool("tracing", opts.Tracing),
		zap.Bool("metrics", dm != nil),
		zap.Duration("slow_query", opts.SlowQuery),
	)
	return dm, nil
}

func newDBMetrics(meter metric.Meter, interval time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	dm := &DBMetrics{interval: interval, logger: logger, stop: make(chan struct{})}

	var err error
	if dm.queries, err = NewCounter(meter, "db_query_total", "Database statements by operation", "{query}"); err != nil {
		return nil, err
	}
	if dm.slow, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the slow-query threshold", "{query}"); err != nil {
		return nil, err
	}
	if dm.latency, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if dm.pool, err = NewGauge(meter, "db_pool_connections", "Pool connections by state", "{connection}"); err != nil {
		return nil, err
	}
	if dm.poolLimit, err = NewGauge(meter, "db_pool_connections_max", "Maximum open connections", "{connection}"); err != nil {
		return nil, err
	}
	return dm, nil
}

// registerQueryObserver times every statement between GORM's own callbacks.
// The after hook runs before otelgorm ends its span so slow queries are
// annotated on it.
func registerQueryObserver(db *gorm.DB, dm *DBMetrics, slow time.Duration) error {
	type register func(name string, fn func(*gorm.DB)) error
	cb := db.Callback()
	points := []struct {
		op            string
		before, after register
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Before("otel:after:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Before("otel:after:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Before("otel:after:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Before("otel:after:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Before("otel:after:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Before("otel:after:raw").Register},
	}

	start := func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		tx.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
	}
	finish := func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			return
		}
		began, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(began)
		if dm != nil {
			dm.RecordQuery(ctx, statementOperation(tx.Statement.SQL.String()), tx.Statement.Table, elapsed, slow)
		}
		if elapsed > slow {
			if span := trace.SpanFromContext(ctx); span.IsRecording() {
				span.AddEvent("slow_query", trace.WithAttributes(
					attribute.Int64("duration_ms", elapsed.Milliseconds()),
					attribute.Int64("threshold_ms", slow.Milliseconds()),
				))
			}
		}
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			RecordError(trace.SpanFromContext(ctx), tx.Error)
		}
	}

	for _, p := range points {
		if err := p.before("rhub:before_"+p.op, start); err != nil {
			return err
		}
		if err := p.after("rhub:after_"+p.op, finish); err != nil {
			return err
		}
	}
	return nil
}

// RecordQuery counts one statement and its latency
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, elapsed, slow time.Duration) {
	op := AttrDBOperation.String(operation)
	m.queries.Inc(ctx, op)
	m.latency.RecordDuration(ctx, elapsed, op)
	if elapsed > slow {
		if table == "" {
			table = "unknown"
		}
		m.slow.Inc(ctx, AttrDBTable.String(table))
	}
}

// statementOperation classifies SQL by its leading keyword
func statementOperation(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexAny(stmt, " \t\n"); i > 0 {
		stmt = stmt[:i]
	}
	switch op := strings.ToUpper(stmt); op {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return op
	default:
		return "OTHER"
	}
}

// StartPoolSampling records pool gauges now and then every interval until
// Stop or ctx is done
func (m *DBMetrics) StartPoolSampling(ctx context.Context) {
	m.samplePool(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.samplePool(ctx)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) samplePool(ctx context.Context) {
	stats := m.sqlDB.Stats()
	m.poolLimit.Record(ctx, int64(stats.MaxOpenConnections))
	m.pool.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.pool.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.pool.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool sampling. Safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.wg.Wait()
	})
}
