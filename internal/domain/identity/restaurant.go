package identity

import (
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
)

// Restaurant is the tenant: every ledger entity is scoped to one restaurant.
type Restaurant struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	Location string `gorm:"type:varchar(200)" json:"location,omitempty"`
	Currency string `gorm:"type:varchar(3);not null;default:'GNF'" json:"currency"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
}

// TableName returns the table name for GORM
func (Restaurant) TableName() string {
	return "restaurants"
}

// NewRestaurant creates a new active restaurant
func NewRestaurant(name, location string) (*Restaurant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Restaurant name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Restaurant name cannot exceed 200 characters")
	}
	return &Restaurant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Location:          location,
		Currency:          "GNF",
		IsActive:          true,
	}, nil
}
