package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenantAggregateRoot(t *testing.T) {
	restaurantID := uuid.New()

	root := NewTenantAggregateRoot(restaurantID)

	assert.NotEqual(t, uuid.Nil, root.ID)
	assert.Equal(t, 1, root.Version)
	assert.Equal(t, restaurantID, root.RestaurantID)
	assert.Nil(t, root.CreatedBy)
	assert.True(t, root.BelongsTo(restaurantID))
	assert.False(t, root.BelongsTo(uuid.New()))
}

func TestNewTenantAggregateRootWithCreator(t *testing.T) {
	restaurantID, userID := uuid.New(), uuid.New()

	root := NewTenantAggregateRootWithCreator(restaurantID, userID)

	assert.Equal(t, restaurantID, root.RestaurantID)
	require.NotNil(t, root.CreatedBy)
	assert.Equal(t, userID, *root.CreatedBy)
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Empty(t, root.GetDomainEvents())

	root.AddDomainEvent(nil)
	root.IncrementVersion()
	assert.Len(t, root.GetDomainEvents(), 1)
	assert.Equal(t, 2, root.Version)

	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())
}
