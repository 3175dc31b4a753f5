package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

var errMeterRequired = errors.New("ledger metrics: meter is required")

// LedgerMetrics counts ledger activity: decisions on submissions, allocated
// payments, confirmed bank transactions, stock movements and resets. It also
// keeps a periodically refreshed gauge of items below their minimum stock.
type LedgerMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	submissionDecisionTotal *Counter
	paymentAllocatedTotal   *Counter
	paymentAllocatedAmount  *Counter
	bankConfirmedTotal      *Counter
	bankConfirmedAmount     *Counter
	stockMovementTotal      *Counter
	negativeStockTotal      *Counter
	resetTotal              *Counter
	resetDeletedRows        *Counter

	lowStockItems *Gauge
	driftRecords  *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	stockProvider StockMetricsProvider
}

// StockMetricsProvider supplies the data for the periodic stock gauges
type StockMetricsProvider interface {
	// ActiveRestaurantIDs lists the restaurants to collect for
	ActiveRestaurantIDs(ctx context.Context) ([]uuid.UUID, error)
	// LowStockCount counts a restaurant's active items below their minimum stock
	LowStockCount(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}

// LedgerMetricsConfig holds configuration for ledger metrics
type LedgerMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StockProvider StockMetricsProvider
}

// NewLedgerMetrics creates a new LedgerMetrics instance
func NewLedgerMetrics(cfg LedgerMetricsConfig) (*LedgerMetrics, error) {
	if cfg.Meter == nil {
		return nil, errMeterRequired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lm := &LedgerMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	counters := []struct {
		dst         **Counter
		name        string
		description string
		unit        string
	}{
		{&lm.submissionDecisionTotal, "rhub_submission_decision_total", "Approved and rejected submissions", "{submissions}"},
		{&lm.paymentAllocatedTotal, "rhub_payment_allocated_total", "Payments allocated to expenses and debts", "{payments}"},
		{&lm.paymentAllocatedAmount, "rhub_payment_allocated_gnf_total", "Allocated payment amount in whole GNF", "{GNF}"},
		{&lm.bankConfirmedTotal, "rhub_bank_transaction_confirmed_total", "Confirmed bank transactions", "{transactions}"},
		{&lm.bankConfirmedAmount, "rhub_bank_transaction_confirmed_gnf_total", "Confirmed bank transaction amount in whole GNF", "{GNF}"},
		{&lm.stockMovementTotal, "rhub_stock_movement_total", "Recorded stock movements", "{movements}"},
		{&lm.negativeStockTotal, "rhub_stock_negative_total", "Movements that left an item below zero", "{movements}"},
		{&lm.resetTotal, "rhub_tenant_reset_total", "Executed tenant data resets", "{resets}"},
		{&lm.resetDeletedRows, "rhub_tenant_reset_deleted_rows_total", "Rows removed by tenant data resets", "{rows}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	lm.lowStockItems, err = NewGauge(cfg.Meter,
		"rhub_inventory_low_stock_items",
		"Active inventory items below their minimum stock",
		"{items}",
	)
	if err != nil {
		return nil, err
	}
	lm.driftRecords, err = NewGauge(cfg.Meter,
		"rhub_ledger_drift_records",
		"Records whose cached total disagreed with its log at the last audit",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	return lm, nil
}

// RecordSubmissionDecision counts an approve or reject of a sale, expense or production log
func (lm *LedgerMetrics) RecordSubmissionDecision(ctx context.Context, restaurantID uuid.UUID, kind, status string) {
	lm.submissionDecisionTotal.Inc(ctx,
		AttrRestaurantID.String(restaurantID.String()),
		AttrSubmissionKind.String(kind),
		AttrSubmissionStatus.String(status),
	)
}

// RecordPaymentAllocated counts a payment and its amount against an obligation kind
func (lm *LedgerMetrics) RecordPaymentAllocated(ctx context.Context, restaurantID uuid.UUID, obligationKind string, amount decimal.Decimal) {
	lm.paymentAllocatedTotal.Inc(ctx,
		AttrRestaurantID.String(restaurantID.String()),
		AttrObligationKind.String(obligationKind),
	)
	lm.paymentAllocatedAmount.Add(ctx, amount.IntPart(),
		AttrRestaurantID.String(restaurantID.String()),
		AttrObligationKind.String(obligationKind),
	)
}

// RecordBankConfirmed counts a confirmed bank transaction and its amount
func (lm *LedgerMetrics) RecordBankConfirmed(ctx context.Context, restaurantID uuid.UUID, method, txType string, amount decimal.Decimal) {
	lm.bankConfirmedTotal.Inc(ctx,
		AttrRestaurantID.String(restaurantID.String()),
		AttrPaymentMethod.String(method),
		AttrBankTxType.String(txType),
	)
	lm.bankConfirmedAmount.Add(ctx, amount.IntPart(),
		AttrRestaurantID.String(restaurantID.String()),
		AttrPaymentMethod.String(method),
		AttrBankTxType.String(txType),
	)
}

// RecordStockMovement counts a movement, and separately those that drove stock negative
func (lm *LedgerMetrics) RecordStockMovement(ctx context.Context, restaurantID uuid.UUID, movementType string, negative bool) {
	lm.stockMovementTotal.Inc(ctx,
		AttrRestaurantID.String(restaurantID.String()),
		AttrMovementType.String(movementType),
	)
	if negative {
		lm.negativeStockTotal.Inc(ctx, AttrRestaurantID.String(restaurantID.String()))
	}
}

// RecordReset counts an executed reset and the rows it removed
func (lm *LedgerMetrics) RecordReset(ctx context.Context, restaurantID uuid.UUID, deletedRows int64) {
	lm.resetTotal.Inc(ctx, AttrRestaurantID.String(restaurantID.String()))
	lm.resetDeletedRows.Add(ctx, deletedRows, AttrRestaurantID.String(restaurantID.String()))
}

// RecordLowStockCount sets the low-stock gauge of a restaurant
func (lm *LedgerMetrics) RecordLowStockCount(ctx context.Context, restaurantID uuid.UUID, count int64) {
	lm.lowStockItems.Record(ctx, count, AttrRestaurantID.String(restaurantID.String()))
}

// RecordLedgerDrift sets the drift gauge of a restaurant for one kind of record
func (lm *LedgerMetrics) RecordLedgerDrift(ctx context.Context, restaurantID uuid.UUID, kind string, count int64) {
	lm.driftRecords.Record(ctx, count,
		AttrRestaurantID.String(restaurantID.String()),
		AttrDriftKind.String(kind),
	)
}

// StartPeriodicCollection refreshes the stock gauges every interval (default 5 minutes).
// It is non-blocking; call Stop to end collection.
func (lm *LedgerMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	lm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go lm.runPeriodicCollection(ctx, interval)
	})
}

func (lm *LedgerMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lm.CollectStockMetrics(ctx)

	for {
		select {
		case <-lm.stopChan:
			lm.logger.Info("Stopping periodic ledger metrics collection")
			return
		case <-ctx.Done():
			lm.logger.Info("Context cancelled, stopping periodic ledger metrics collection")
			return
		case <-ticker.C:
			lm.CollectStockMetrics(ctx)
		}
	}
}

// CollectStockMetrics refreshes the low-stock gauge for every active restaurant
func (lm *LedgerMetrics) CollectStockMetrics(ctx context.Context) {
	if lm.stockProvider == nil {
		lm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	restaurantIDs, err := lm.stockProvider.ActiveRestaurantIDs(ctx)
	if err != nil {
		lm.logger.Error("Failed to list restaurants for metrics collection", zap.Error(err))
		return
	}

	for _, restaurantID := range restaurantIDs {
		count, err := lm.stockProvider.LowStockCount(ctx, restaurantID)
		if err != nil {
			lm.logger.Warn("Failed to count low stock items",
				zap.String("restaurant_id", restaurantID.String()),
				zap.Error(err),
			)
			continue
		}
		lm.RecordLowStockCount(ctx, restaurantID, count)
	}
}

// Stop stops the periodic collection
func (lm *LedgerMetrics) Stop() {
	lm.stopOnce.Do(func() {
		close(lm.stopChan)
	})
}
