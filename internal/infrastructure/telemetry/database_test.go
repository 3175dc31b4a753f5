package telemetry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ledgerRow struct {
	ID     uint `gorm:"primaryKey"`
	Amount int64
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "telemetry.db")), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db
}

func manualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

// pointsByAttr sums an int64 metric's data points keyed by the value of key
func pointsByAttr(t *testing.T, reader *sdkmetric.ManualReader, name string, key attribute.Key) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			var points []metricdata.DataPoint[int64]
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				points = data.DataPoints
			case metricdata.Gauge[int64]:
				points = data.DataPoints
			}
			for _, dp := range points {
				v, _ := dp.Attributes.Value(key)
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestInstrumentDatabase_Disabled(t *testing.T) {
	dm, err := InstrumentDatabase(openSQLite(t), DBInstrumentation{}, nil)
	require.NoError(t, err)
	assert.Nil(t, dm)
}

func TestInstrumentDatabase_QueryMetrics(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(&ledgerRow{}))
	reader, mp := manualMeter(t)

	dm, err := InstrumentDatabase(db, DBInstrumentation{Meter: mp.Meter("db.client"), System: "sqlite"}, nil)
	require.NoError(t, err)
	require.NotNil(t, dm)

	ctx := context.Background()
	row := ledgerRow{Amount: 5000}
	require.NoError(t, db.WithContext(ctx).Create(&row).Error)
	require.NoError(t, db.WithContext(ctx).Model(&row).Update("amount", 7000).Error)
	var found ledgerRow
	require.NoError(t, db.WithContext(ctx).First(&found, row.ID).Error)
	require.NoError(t, db.WithContext(ctx).Delete(&found).Error)

	counts := pointsByAttr(t, reader, "db_query_total", AttrDBOperation)
	assert.Equal(t, int64(1), counts["INSERT"])
	assert.Equal(t, int64(1), counts["UPDATE"])
	assert.Equal(t, int64(1), counts["SELECT"])
	assert.Equal(t, int64(1), counts["DELETE"])
}

func TestDBMetrics_PoolSampling(t *testing.T) {
	db := openSQLite(t)
	reader, mp := manualMeter(t)

	dm, err := InstrumentDatabase(db, DBInstrumentation{Meter: mp.Meter("db.client"), PoolStatsEach: time.Hour}, nil)
	require.NoError(t, err)

	dm.StartPoolSampling(context.Background())
	dm.Stop()
	dm.Stop()

	states := pointsByAttr(t, reader, "db_pool_connections", AttrDBState)
	assert.Contains(t, states, "idle")
	assert.Contains(t, states, "in_use")
	assert.Contains(t, states, "open")
}

func TestStatementOperation(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM inventory_items":        "SELECT",
		"  insert INTO stock_movements VALUES": "INSERT",
		"UPDATE expenses SET total_paid = 1":   "UPDATE",
		"DELETE FROM sales":                    "DELETE",
		"SELECT\n1":                            "SELECT",
		"BEGIN":                                "OTHER",
		"SELECTED":                             "OTHER",
		"":                                     "OTHER",
	}
	for stmt, want := range tests {
		assert.Equal(t, want, statementOperation(stmt), stmt)
	}
}
