package partner

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID within a restaurant
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate locks the customer row so concurrent credit checks serialize
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*Customer, error)

	// FindAll finds customers matching the filter ("is_active", "customer_type") and Search
	FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)

	// Create inserts a new customer
	Create(ctx context.Context, customer *Customer) error

	// Save updates a customer
	Save(ctx context.Context, customer *Customer) error
}
