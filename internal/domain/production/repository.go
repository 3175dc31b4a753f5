package production

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductionLogRepository defines persistence operations for production logs
type ProductionLogRepository interface {
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*ProductionLog, error)
	// FindByIDForUpdate loads the log and its ingredients under a row lock
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*ProductionLog, error)
	FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]ProductionLog, int64, error)
	Create(ctx context.Context, log *ProductionLog) error
	Save(ctx context.Context, log *ProductionLog) error
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	CountItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}
