package inventory

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryItemRepository defines persistence operations for inventory items
type InventoryItemRepository interface {
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*InventoryItem, error)
	// FindByIDForUpdate loads the item under a row lock for the current transaction
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*InventoryItem, error)
	FindByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]InventoryItem, error)
	FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]InventoryItem, int64, error)
	Save(ctx context.Context, item *InventoryItem) error
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	// ResetStockByRestaurant sets currentStock to zero on every item of the restaurant
	ResetStockByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}

// StockMovementRepository defines persistence operations for the append-only movement log
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByItem(ctx context.Context, restaurantID, itemID uuid.UUID) ([]StockMovement, error)
	FindBySource(ctx context.Context, restaurantID uuid.UUID, sourceType SourceType, sourceID uuid.UUID) ([]StockMovement, error)
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}
