// Package testutil provides common test utilities for the restaurant hub backend.
// It sets up migrated sqlite ledgers, seeds restaurants, members, items and
// customers, and wraps sqlmock for failure-path tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/partner"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// GNF is shorthand for a whole-franc amount.
func GNF(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Ledger is a migrated sqlite database holding one restaurant.
type Ledger struct {
	DB         *gorm.DB
	TxScope    *persistence.GormTransactionScope
	Restaurant *identity.Restaurant
}

// NewLedger opens a file-backed sqlite database under t.TempDir, migrates it
// and seeds a restaurant. The database is closed when the test ends.
func NewLedger(t *testing.T) *Ledger {
	t.Helper()

	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
	})
	require.NoError(t, err, "Failed to open sqlite ledger")
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, persistence.AutoMigrate(database.DB), "Failed to migrate ledger")

	l := &Ledger{
		DB:      database.DB,
		TxScope: persistence.NewGormTransactionScope(database.DB),
	}
	l.Restaurant = l.SeedRestaurant(t, "Chez Fatou")
	return l
}

// SeedRestaurant stores another restaurant in the same database.
func (l *Ledger) SeedRestaurant(t *testing.T, name string) *identity.Restaurant {
	t.Helper()
	r, err := identity.NewRestaurant(name, "Conakry")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormRestaurantRepository(l.DB).Save(context.Background(), r))
	return r
}

// Principal adds a member with the given role to the ledger's restaurant.
func (l *Ledger) Principal(t *testing.T, role identity.Role) identity.Principal {
	t.Helper()
	return l.PrincipalIn(t, l.Restaurant.ID, role)
}

// PrincipalIn adds a member with the given role to any restaurant.
func (l *Ledger) PrincipalIn(t *testing.T, restaurantID uuid.UUID, role identity.Role) identity.Principal {
	t.Helper()
	m, err := identity.NewMembership(uuid.New(), restaurantID, role)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormMembershipRepository(l.DB).Save(context.Background(), m))
	return m.Principal()
}

// SeedItem stores an inventory item with an initial stock movement when stock is not zero.
func (l *Ledger) SeedItem(t *testing.T, name string, stock, unitCost decimal.Decimal) *inventory.InventoryItem {
	t.Helper()
	ctx := context.Background()

	item, err := inventory.NewInventoryItem(l.Restaurant.ID, name, "kg", decimal.Zero, unitCost)
	require.NoError(t, err)
	if !stock.IsZero() {
		movementType := inventory.MovementTypeAdjustment
		if stock.IsPositive() {
			movementType = inventory.MovementTypePurchase
		}
		m, err := inventory.NewStockMovement(item, movementType, stock, inventory.MovementMeta{
			UnitCost:   &unitCost,
			Reason:     "Initial stock",
			SourceType: inventory.SourceTypeInitial,
			CreatedBy:  uuid.New(),
		})
		require.NoError(t, err)
		require.NoError(t, item.ApplyMovement(m))
		require.NoError(t, persistence.NewGormInventoryItemRepository(l.DB).Save(ctx, item))
		require.NoError(t, persistence.NewGormStockMovementRepository(l.DB).Create(ctx, m))
	} else {
		require.NoError(t, persistence.NewGormInventoryItemRepository(l.DB).Save(ctx, item))
	}
	item.ClearDomainEvents()
	return item
}

// SeedCustomer stores an active customer. A nil limit means unlimited credit.
func (l *Ledger) SeedCustomer(t *testing.T, name string, creditLimit *decimal.Decimal) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(l.Restaurant.ID, uuid.New(), partner.CustomerInput{
		Name:         name,
		CustomerType: partner.CustomerTypeIndividual,
		CreditLimit:  creditLimit,
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(l.DB).Create(context.Background(), c))
	c.ClearDomainEvents()
	return c
}

// Count returns the rows of a table that belong to the ledger's restaurant.
func (l *Ledger) Count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, l.DB.Table(table).Where("restaurant_id = ?", l.Restaurant.ID).Count(&n).Error)
	return n
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a postgres-dialect GORM handle backed by sqlmock.
// It is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewTestUUID generates a deterministic UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// RequireEventually retries condition until it holds or timeout passes.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
