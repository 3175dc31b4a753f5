package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB opens GORM over a sqlmock connection with the postgres dialect
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormInventoryItemRepository_FindByID(t *testing.T) {
	t.Run("scopes the lookup to the restaurant", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormInventoryItemRepository(db)

		restaurantID, itemID := uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE restaurant_id = \$1 AND id = \$2 ORDER BY .* LIMIT \$3`).
			WithArgs(restaurantID, itemID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name", "unit", "current_stock", "min_stock"}).
				AddRow(itemID, restaurantID, "Farine", "kg", "12.5000", "5.0000"))

		item, err := repo.FindByID(context.Background(), restaurantID, itemID)
		require.NoError(t, err)
		assert.Equal(t, "Farine", item.Name)
		assert.Equal(t, "12.5", item.CurrentStock.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a missing row to NOT_FOUND", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewGormInventoryItemRepository(db).FindByID(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInventoryItemRepository_FindByIDForUpdate(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	restaurantID, itemID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE restaurant_id = \$1 AND id = \$2 ORDER BY .* LIMIT \$3 FOR UPDATE`).
		WithArgs(restaurantID, itemID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name"}).AddRow(itemID, restaurantID, "Beurre"))

	item, err := NewGormInventoryItemRepository(db).FindByIDForUpdate(context.Background(), restaurantID, itemID)
	require.NoError(t, err)
	assert.Equal(t, "Beurre", item.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInventoryItemRepository_FindByIDs(t *testing.T) {
	t.Run("no IDs runs no query", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		items, err := NewGormInventoryItemRepository(db).FindByIDs(context.Background(), uuid.New(), nil)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads in ID order", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		restaurantID, a, b := uuid.New(), uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE restaurant_id = \$1 AND id IN \(\$2,\$3\) ORDER BY id ASC`).
			WithArgs(restaurantID, a, b).
			WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name"}).
				AddRow(a, restaurantID, "Farine").
				AddRow(b, restaurantID, "Sucre"))

		items, err := NewGormInventoryItemRepository(db).FindByIDs(context.Background(), restaurantID, []uuid.UUID{a, b})
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_FindAll(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	restaurantID := uuid.New()
	filter := shared.DefaultFilter()
	filter.OrderBy = "current_stock"
	filter.OrderDir = "asc"
	filter.Filters["category"] = "Boulangerie"
	filter.Filters["below_minimum"] = true

	mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items" WHERE restaurant_id = \$1 AND category = \$2 AND current_stock < min_stock`).
		WithArgs(restaurantID, "Boulangerie").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE .* ORDER BY "current_stock","id" LIMIT \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name"}).AddRow(uuid.New(), restaurantID, "Levure"))

	items, total, err := NewGormInventoryItemRepository(db).FindAll(context.Background(), restaurantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInventoryItemRepository_ResetStockByRestaurant(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	restaurantID := uuid.New()
	mock.ExpectExec(`UPDATE "inventory_items" SET "current_stock"=\$1,"updated_at"=CURRENT_TIMESTAMP WHERE restaurant_id = \$2`).
		WithArgs(0, restaurantID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewGormInventoryItemRepository(db).ResetStockByRestaurant(context.Background(), restaurantID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStockMovementRepository_FindByItem(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	restaurantID, itemID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE restaurant_id = \$1 AND item_id = \$2 ORDER BY created_at ASC,id ASC`).
		WithArgs(restaurantID, itemID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "item_id", "type", "quantity"}).
			AddRow(uuid.New(), restaurantID, itemID, "Purchase", "10").
			AddRow(uuid.New(), restaurantID, itemID, "Usage", "-4"))

	movements, err := NewGormStockMovementRepository(db).FindByItem(context.Background(), restaurantID, itemID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, "6", inventory.ReplayStock(movements).String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStockMovementRepository_CountAndDelete(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormStockMovementRepository(db)
	restaurantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE restaurant_id = \$1`).
		WithArgs(restaurantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectExec(`DELETE FROM "stock_movements" WHERE restaurant_id = \$1`).
		WithArgs(restaurantID).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.CountByRestaurant(context.Background(), restaurantID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	deleted, err := repo.DeleteByRestaurant(context.Background(), restaurantID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
