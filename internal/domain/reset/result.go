package reset

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryResult counts the records of one category: Count for the primary
// rows (sales, expenses, ...) and RelatedCount for their children.
// For inventory, Count is the movements deleted and RelatedCount the items reset.
type CategoryResult struct {
	Count        int64 `json:"count"`
	RelatedCount int64 `json:"relatedCount"`
}

// Result maps each category to its counts
type Result map[Category]CategoryResult

// Total returns the number of rows across all categories
func (r Result) Total() int64 {
	var n int64
	for _, c := range r {
		n += c.Count + c.RelatedCount
	}
	return n
}

const (
	EventTypeTenantDataReset = "reset.tenant_data_reset"

	AggregateTypeRestaurant = "Restaurant"
)

// TenantDataResetEvent is raised after a reset commits
type TenantDataResetEvent struct {
	shared.BaseDomainEvent
	Categories  []Category `json:"categories"`
	Result      Result     `json:"result"`
	PerformedBy uuid.UUID  `json:"performedBy"`
}

// NewTenantDataResetEvent creates a TenantDataResetEvent
func NewTenantDataResetEvent(restaurantID, performedBy uuid.UUID, categories []Category, result Result) *TenantDataResetEvent {
	return &TenantDataResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantDataReset, AggregateTypeRestaurant, restaurantID, restaurantID),
		Categories:      categories,
		Result:          result,
		PerformedBy:     performedBy,
	}
}
