package identity

import (
	"context"

	"github.com/google/uuid"
)

// RestaurantRepository defines persistence operations for restaurants
type RestaurantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Restaurant, error)
	FindActive(ctx context.Context) ([]Restaurant, error)
	// LockForUpdate takes an exclusive row lock on the restaurant for the current transaction
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Restaurant, error)
	// LockForShare takes a shared row lock; it blocks while a reset holds the exclusive lock
	LockForShare(ctx context.Context, id uuid.UUID) error
	Save(ctx context.Context, restaurant *Restaurant) error
}

// MembershipRepository defines persistence operations for memberships
type MembershipRepository interface {
	FindByUserAndRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) (*Membership, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)
	Save(ctx context.Context, membership *Membership) error
}
