package partner

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated       = "partner.customer_created"
	EventTypeCustomerStatusChanged = "partner.customer_status_changed"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID    `json:"customerId"`
	Name       string       `json:"name"`
	Type       CustomerType `json:"customerType"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID, customer.RestaurantID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
		Type:            customer.CustomerType,
	}
}

// CustomerStatusChangedEvent is published when a customer is activated or deactivated
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customerId"`
	IsActive   bool      `json:"isActive"`
}

// NewCustomerStatusChangedEvent creates a new CustomerStatusChangedEvent
func NewCustomerStatusChangedEvent(customer *Customer) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerStatusChanged, AggregateTypeCustomer, customer.ID, customer.RestaurantID),
		CustomerID:      customer.ID,
		IsActive:        customer.IsActive,
	}
}
