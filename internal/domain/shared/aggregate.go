package shared

import "github.com/google/uuid"

// AggregateRoot is a consistency boundary that records the events its
// mutations raised until the application layer collects them.
type AggregateRoot interface {
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot adds an optimistic lock version and a pending event list
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1" json:"version"`

	pending []DomainEvent
}

// NewBaseAggregateRoot starts a new aggregate at version 1 with no events
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// IncrementVersion bumps the optimistic lock version
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent queues an event for publication after commit
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the events raised since the last clear
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

// ClearDomainEvents drops the queued events once they are published
func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

// TenantAggregateRoot belongs to one restaurant. Repositories filter every
// read and write of a tenant aggregate by RestaurantID.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurantId"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid;index" json:"createdByUserId,omitempty"`
}

// NewTenantAggregateRoot creates a restaurant-scoped aggregate with no
// recorded creator
func NewTenantAggregateRoot(restaurantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		RestaurantID:      restaurantID,
	}
}

// NewTenantAggregateRootWithCreator creates a restaurant-scoped aggregate
// attributed to the user who submitted it
func NewTenantAggregateRootWithCreator(restaurantID, createdBy uuid.UUID) TenantAggregateRoot {
	root := NewTenantAggregateRoot(restaurantID)
	root.CreatedBy = &createdBy
	return root
}

// BelongsTo reports whether the aggregate is owned by restaurantID
func (t *TenantAggregateRoot) BelongsTo(restaurantID uuid.UUID) bool {
	return t.RestaurantID == restaurantID
}
