package sales

import (
	"context"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate loads the sale under a row lock for the current transaction
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]Sale, int64, error)
	ExistsByDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) (bool, error)
	Create(ctx context.Context, sale *Sale) error
	Save(ctx context.Context, sale *Sale) error
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	CountItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}
