package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDatabase creates a Database instance with a mocked SQL connection.
// Pings are monitored, so gorm's open-time ping is switched off and each
// test declares the pings it expects.
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB, Driver: "postgres", sqlDB: mockDB}, mock, mockDB
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"in memory", ":memory:", "file::memory:?cache=shared&_foreign_keys=1"},
		{"file path", "/tmp/hub.db", "file:/tmp/hub.db?_foreign_keys=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLiteDSN(tt.path))
		})
	}
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: t.TempDir() + "/hub.db"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", db.Driver)
	require.NoError(t, db.Ping(context.Background()))
	assert.Equal(t, 1, db.sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, AutoMigrate(db.DB))
	assert.True(t, db.DB.Migrator().HasTable("bank_transactions"))
	assert.True(t, db.DB.Migrator().HasIndex("sales", "idx_sales_restaurant_date"))
}

func TestNewDatabase_Options(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mysql")
	})

	t.Run("custom logger", func(t *testing.T) {
		silent := logger.Default.LogMode(logger.Silent)
		db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: t.TempDir() + "/hub.db"}, WithLogger(silent))
		require.NoError(t, err)
		defer db.Close()
		assert.Same(t, silent, db.DB.Config.Logger)
	})
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()
		assert.NoError(t, db.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping failure is returned", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		assert.Error(t, db.Ping(context.Background()))
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope(t *testing.T) {
	t.Run("commits when the unit of work succeeds", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		scope := NewGormTransactionScope(db.DB)
		err := scope.Execute(context.Background(), func(repos appshared.TransactionalRepositories) error {
			assert.NotNil(t, repos.BankRepo())
			assert.NotNil(t, repos.MovementRepo())
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns the unit of work error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		scope := NewGormTransactionScope(db.DB)
		err := scope.Execute(context.Background(), func(appshared.TransactionalRepositories) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
