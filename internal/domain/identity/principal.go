package identity

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// Principal is the caller of a core operation: who, where, and in which role.
// It is passed explicitly to every application service call.
type Principal struct {
	UserID       uuid.UUID
	RestaurantID uuid.UUID
	Role         Role
}

// NewPrincipal builds a principal, rejecting empty identifiers and unknown roles
func NewPrincipal(userID, restaurantID uuid.UUID, role Role) (Principal, error) {
	if userID == uuid.Nil || restaurantID == uuid.Nil {
		return Principal{}, shared.ErrUnauthorized
	}
	if !role.IsValid() {
		return Principal{}, shared.NewForbiddenError("Unknown role")
	}
	return Principal{UserID: userID, RestaurantID: restaurantID, Role: role}, nil
}

// Require returns a ForbiddenError unless the predicate holds for the principal's role
func (p Principal) Require(predicate func(Role) bool, action string) error {
	if p.UserID == uuid.Nil || p.RestaurantID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if !predicate(p.Role) {
		return shared.NewForbiddenError("Role " + p.Role.String() + " is not allowed to " + action)
	}
	return nil
}
