package persistence

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by ID within a restaurant
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&item).Error; err != nil {
		return nil, translateError(err, "Inventory item", "find")
	}
	return &item, nil
}

// FindByIDForUpdate finds an inventory item and locks its row
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := forUpdate(r.db.WithContext(ctx)).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&item).Error; err != nil {
		return nil, translateError(err, "Inventory item", "lock")
	}
	return &item, nil
}

// FindByIDs loads the items of the restaurant with the given IDs; unknown IDs are skipped
func (r *GormInventoryItemRepository) FindByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, translateError(err, "Inventory item", "list")
	}
	return items, nil
}

// FindAll lists items filtered by "category", "below_minimum" and a name search
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("restaurant_id = ?", restaurantID)
	query = whereFilters(query, filter, map[string]string{"category": "category"})
	if v, ok := filter.Filters["below_minimum"].(bool); ok && v {
		query = query.Where("current_stock < min_stock")
	}
	query = search(query, filter.Search, "name", "category")

	items, total, err := findPage[inventory.InventoryItem](query, filter, inventoryItemSort, "name")
	if err != nil {
		return nil, 0, translateError(err, "Inventory item", "list")
	}
	return items, total, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error, "Inventory item", "save")
}

// CountByRestaurant counts the items of a restaurant
func (r *GormInventoryItemRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &inventory.InventoryItem{}, restaurantID)
	return n, translateError(err, "Inventory item", "count")
}

// ResetStockByRestaurant zeroes currentStock on every item of the restaurant
func (r *GormInventoryItemRepository) ResetStockByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("restaurant_id = ?", restaurantID).
		Updates(map[string]any{
			"current_stock": 0,
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		})
	return result.RowsAffected, translateError(result.Error, "Inventory item", "reset")
}

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement to the log
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return translateError(r.db.WithContext(ctx).Create(movement).Error, "Stock movement", "create")
}

// FindByItem lists the movements of one item in the order they were recorded
func (r *GormStockMovementRepository) FindByItem(ctx context.Context, restaurantID, itemID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND item_id = ?", restaurantID, itemID).
		Order("created_at ASC").Order("id ASC").
		Find(&movements).Error; err != nil {
		return nil, translateError(err, "Stock movement", "list")
	}
	return movements, nil
}

// FindBySource lists the movements caused by one document
func (r *GormStockMovementRepository) FindBySource(ctx context.Context, restaurantID uuid.UUID, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND source_type = ? AND source_id = ?", restaurantID, sourceType, sourceID).
		Order("created_at ASC").Order("id ASC").
		Find(&movements).Error; err != nil {
		return nil, translateError(err, "Stock movement", "list")
	}
	return movements, nil
}

// CountByRestaurant counts the movements of a restaurant
func (r *GormStockMovementRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := countByRestaurant(r.db.WithContext(ctx), &inventory.StockMovement{}, restaurantID)
	return n, translateError(err, "Stock movement", "count")
}

// DeleteByRestaurant removes every movement of a restaurant
func (r *GormStockMovementRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	n, err := deleteByRestaurant(r.db.WithContext(ctx), &inventory.StockMovement{}, restaurantID)
	return n, translateError(err, "Stock movement", "delete")
}

var (
	_ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
	_ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
)
