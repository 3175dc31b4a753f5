//go:build integration

// Package integration runs the ledger against a real PostgreSQL started with
// testcontainers, where row locks are actually taken and contended.
package integration

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/migration"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/persistence"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/migrations"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/tests/testutil"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// postgresServer is started once per package run and migrated before the
// first test connects. TestMain terminates it.
var postgresServer struct {
	sync.Mutex
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
}

// TestDB is a migrated, emptied postgres database for one test.
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration tests skipped in short mode")
	}

	cfg := startPostgres(t)
	opts := []persistence.Option{}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		opts = append(opts, persistence.WithLogger(gormlogger.Default.LogMode(gormlogger.Info)))
	}
	database, err := persistence.NewDatabase(&cfg, opts...)
	require.NoError(t, err, "connect to test postgres")
	t.Cleanup(func() { _ = database.Close() })

	tdb := &TestDB{DB: database.DB, t: t}
	tdb.truncate()
	return tdb
}

// Ledger seeds a restaurant and wraps the database in the helpers the
// sqlite tests use.
func (tdb *TestDB) Ledger(restaurantName string) *testutil.Ledger {
	tdb.t.Helper()
	l := &testutil.Ledger{DB: tdb.DB, TxScope: persistence.NewGormTransactionScope(tdb.DB)}
	l.Restaurant = l.SeedRestaurant(tdb.t, restaurantName)
	return l
}

func (tdb *TestDB) truncate() {
	tdb.t.Helper()
	var tables []string
	require.NoError(tdb.t, tdb.DB.Raw(
		`SELECT quote_ident(tablename) FROM pg_tables WHERE schemaname = 'public' AND tablename <> 'schema_migrations'`,
	).Scan(&tables).Error)
	if len(tables) == 0 {
		return
	}
	require.NoError(tdb.t, tdb.DB.Exec("TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE").Error)
}

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	postgresServer.Lock()
	defer postgresServer.Unlock()
	if postgresServer.container != nil {
		return postgresServer.cfg
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("restaurant_hub_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		Port:     portNum,
		User:     "postgres",
		Password: "postgres",
		DBName:   "restaurant_hub_test",
		SSLMode:  "disable",
		// the race tests hold row locks on several connections at once
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
	}

	database, err := persistence.NewDatabase(&cfg)
	require.NoError(t, err, "connect for migrations")
	defer database.Close()
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migration.Embedded(migrations.FS), zap.NewNop())
	require.NoError(t, err, "create migrator")
	require.NoError(t, m.Up(), "apply migrations")

	postgresServer.container = container
	postgresServer.cfg = cfg
	return cfg
}

// TerminateSharedContainer stops the container started by NewTestDB.
func TerminateSharedContainer() {
	postgresServer.Lock()
	defer postgresServer.Unlock()
	if postgresServer.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = postgresServer.container.Terminate(ctx)
	postgresServer.container = nil
}
