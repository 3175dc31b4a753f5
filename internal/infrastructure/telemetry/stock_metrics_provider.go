package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider with aggregate
// queries on the restaurants and inventory_items tables.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// ActiveRestaurantIDs returns the IDs of active restaurants
func (p *GormStockMetricsProvider) ActiveRestaurantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("restaurants").
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

// LowStockCount counts a restaurant's active items whose stock is below a positive minimum
func (p *GormStockMetricsProvider) LowStockCount(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inventory_items").
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Where("min_stock > 0 AND current_stock < min_stock").
		Count(&count).Error
	return count, err
}
