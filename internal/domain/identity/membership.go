package identity

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// Membership binds a user to a restaurant with a role
type Membership struct {
	shared.BaseEntity
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_restaurant" json:"userId"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_restaurant;index" json:"restaurantId"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
}

// TableName returns the table name for GORM
func (Membership) TableName() string {
	return "memberships"
}

// NewMembership creates a membership
func NewMembership(userID, restaurantID uuid.UUID, role Role) (*Membership, error) {
	if userID == uuid.Nil || restaurantID == uuid.Nil {
		return nil, shared.NewValidationError("User and restaurant are required")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Invalid role")
	}
	return &Membership{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		RestaurantID: restaurantID,
		Role:         role,
	}, nil
}

// Principal returns the principal acting through this membership
func (m *Membership) Principal() Principal {
	return Principal{UserID: m.UserID, RestaurantID: m.RestaurantID, Role: m.Role}
}
