package inventory

import (
	"context"
	"sync"
	"testing"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu              sync.Mutex
	PublishedEvents []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, events...)
	return nil
}

type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) FindActive(ctx context.Context) ([]identity.Restaurant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*identity.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) LockForShare(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRestaurantRepository) Save(ctx context.Context, restaurant *identity.Restaurant) error {
	return m.Called(ctx, restaurant).Error(0)
}

type MockInventoryItemRepository struct {
	mock.Mock
}

func (m *MockInventoryItemRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, restaurantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, int64, error) {
	args := m.Called(ctx, restaurantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]inventory.InventoryItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockInventoryItemRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryItemRepository) ResetStockByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

// memoryMovementRepository keeps movements in a slice so tests can replay them
type memoryMovementRepository struct {
	movements []inventory.StockMovement
}

func (r *memoryMovementRepository) Create(_ context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memoryMovementRepository) FindByItem(_ context.Context, restaurantID, itemID uuid.UUID) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.RestaurantID == restaurantID && m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryMovementRepository) FindBySource(_ context.Context, restaurantID uuid.UUID, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.RestaurantID == restaurantID && m.SourceType == sourceType && m.SourceID != nil && *m.SourceID == sourceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryMovementRepository) CountByRestaurant(_ context.Context, restaurantID uuid.UUID) (int64, error) {
	var n int64
	for _, m := range r.movements {
		if m.RestaurantID == restaurantID {
			n++
		}
	}
	return n, nil
}

func (r *memoryMovementRepository) DeleteByRestaurant(_ context.Context, restaurantID uuid.UUID) (int64, error) {
	kept := r.movements[:0]
	var n int64
	for _, m := range r.movements {
		if m.RestaurantID == restaurantID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	r.movements = kept
	return n, nil
}

type ledgerFixture struct {
	ledger      *StockLedger
	restaurants *MockRestaurantRepository
	items       *MockInventoryItemRepository
	movements   *memoryMovementRepository
	publisher   *MockEventPublisher
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		restaurants: new(MockRestaurantRepository),
		items:       new(MockInventoryItemRepository),
		movements:   &memoryMovementRepository{},
		publisher:   &MockEventPublisher{},
	}
	scope := &appshared.Repositories{
		Restaurants: f.restaurants,
		Items:       f.items,
		Movements:   f.movements,
	}
	f.ledger = NewStockLedger(scope, f.items, f.movements, nil)
	f.ledger.SetEventPublisher(f.publisher)
	return f
}

func newTestItem(t *testing.T, restaurantID uuid.UUID, name string, minStock int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(restaurantID, name, "kg", decimal.NewFromInt(minStock), decimal.NewFromInt(1000))
	require.NoError(t, err)
	return item
}

func principalFor(restaurantID uuid.UUID, role identity.Role) identity.Principal {
	return identity.Principal{UserID: uuid.New(), RestaurantID: restaurantID, Role: role}
}

func TestStockLedger_RecordMovement(t *testing.T) {
	ctx := context.Background()
	restaurantID := uuid.New()

	t.Run("cached stock stays equal to the replayed log", func(t *testing.T) {
		f := newLedgerFixture()
		item := newTestItem(t, restaurantID, "Flour", 2)
		owner := principalFor(restaurantID, identity.RoleOwner)

		f.restaurants.On("LockForShare", mock.Anything, restaurantID).Return(nil)
		f.items.On("FindByIDForUpdate", mock.Anything, restaurantID, item.ID).Return(item, nil)
		f.items.On("Save", mock.Anything, item).Return(nil)
		f.items.On("FindByID", mock.Anything, restaurantID, item.ID).Return(item, nil)

		steps := []RecordMovementRequest{
			{Type: inventory.MovementTypePurchase, Quantity: decimal.NewFromInt(25)},
			{Type: inventory.MovementTypeUsage, Quantity: decimal.NewFromInt(-8)},
			{Type: inventory.MovementTypeWaste, Quantity: decimal.RequireFromString("-1.5")},
			{Type: inventory.MovementTypeAdjustment, Quantity: decimal.NewFromInt(3)},
			{Type: inventory.MovementTypeTransferOut, Quantity: decimal.NewFromInt(-4)},
		}
		for _, step := range steps {
			_, err := f.ledger.RecordMovement(ctx, owner, item.ID, step)
			require.NoError(t, err)
		}

		assert.True(t, decimal.RequireFromString("14.5").Equal(item.CurrentStock))
		audit, err := f.ledger.RecomputeStock(ctx, owner, item.ID)
		require.NoError(t, err)
		assert.True(t, audit.Coherent)
		assert.Equal(t, 5, audit.Movements)
		assert.Len(t, f.publisher.PublishedEvents, 5)
	})

	t.Run("negative stock is allowed and flagged", func(t *testing.T) {
		f := newLedgerFixture()
		item := newTestItem(t, restaurantID, "Sugar", 0)
		manager := principalFor(restaurantID, identity.RoleManager)

		f.restaurants.On("LockForShare", mock.Anything, restaurantID).Return(nil)
		f.items.On("FindByIDForUpdate", mock.Anything, restaurantID, item.ID).Return(item, nil)
		f.items.On("Save", mock.Anything, item).Return(nil)

		result, err := f.ledger.RecordMovement(ctx, manager, item.ID, RecordMovementRequest{
			Type:     inventory.MovementTypeUsage,
			Quantity: decimal.NewFromInt(-3),
		})
		require.NoError(t, err)
		assert.True(t, result.Movement.NegativeStock)
		assert.True(t, decimal.NewFromInt(-3).Equal(result.Item.CurrentStock))
	})

	t.Run("sign must match the movement type", func(t *testing.T) {
		f := newLedgerFixture()
		item := newTestItem(t, restaurantID, "Butter", 0)
		owner := principalFor(restaurantID, identity.RoleOwner)

		f.restaurants.On("LockForShare", mock.Anything, restaurantID).Return(nil)
		f.items.On("FindByIDForUpdate", mock.Anything, restaurantID, item.ID).Return(item, nil)

		_, err := f.ledger.RecordMovement(ctx, owner, item.ID, RecordMovementRequest{
			Type:     inventory.MovementTypePurchase,
			Quantity: decimal.NewFromInt(-3),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, f.movements.movements)
		f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("editors cannot record manual movements", func(t *testing.T) {
		f := newLedgerFixture()
		editor := principalFor(restaurantID, identity.RoleEditor)

		_, err := f.ledger.RecordMovement(ctx, editor, uuid.New(), RecordMovementRequest{
			Type:     inventory.MovementTypePurchase,
			Quantity: decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestStockLedger_CreateItem(t *testing.T) {
	ctx := context.Background()
	restaurantID := uuid.New()

	t.Run("initial stock is booked as an adjustment", func(t *testing.T) {
		f := newLedgerFixture()
		owner := principalFor(restaurantID, identity.RoleOwner)

		var saved *inventory.InventoryItem
		f.restaurants.On("LockForShare", mock.Anything, restaurantID).Return(nil)
		f.items.On("Save", mock.Anything, mock.AnythingOfType("*inventory.InventoryItem")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*inventory.InventoryItem) }).
			Return(nil)
		lookup := f.items.On("FindByIDForUpdate", mock.Anything, restaurantID, mock.Anything)
		lookup.Run(func(mock.Arguments) { lookup.ReturnArguments = mock.Arguments{saved, nil} })

		item, err := f.ledger.CreateItem(ctx, owner, CreateItemRequest{
			Name:         "Flour",
			Unit:         "kg",
			MinStock:     decimal.NewFromInt(2),
			UnitCostGNF:  decimal.NewFromInt(9000),
			InitialStock: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5).Equal(item.CurrentStock))
		require.Len(t, f.movements.movements, 1)
		m := f.movements.movements[0]
		assert.Equal(t, inventory.MovementTypeAdjustment, m.Type)
		assert.Equal(t, inventory.SourceTypeInitial, m.SourceType)
	})

	t.Run("zero initial stock writes no movement", func(t *testing.T) {
		f := newLedgerFixture()
		owner := principalFor(restaurantID, identity.RoleOwner)
		f.restaurants.On("LockForShare", mock.Anything, restaurantID).Return(nil)
		f.items.On("Save", mock.Anything, mock.Anything).Return(nil)

		item, err := f.ledger.CreateItem(ctx, owner, CreateItemRequest{Name: "Salt", Unit: "kg"})
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.IsZero())
		assert.Empty(t, f.movements.movements)
	})
}

func TestStockLedger_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	restaurantID := uuid.New()
	f := newLedgerFixture()

	flour := newTestItem(t, restaurantID, "Flour", 2)
	flour.CurrentStock = decimal.NewFromInt(5)
	yeast := newTestItem(t, restaurantID, "Yeast", 1)
	yeast.CurrentStock = decimal.NewFromInt(3)

	f.items.On("FindByIDs", mock.Anything, restaurantID, []uuid.UUID{flour.ID, yeast.ID}).
		Return([]inventory.InventoryItem{*flour, *yeast}, nil)

	report, err := f.ledger.CheckAvailability(ctx, principalFor(restaurantID, identity.RoleEditor), CheckAvailabilityRequest{
		Ingredients: []inventory.Requirement{
			{ItemID: flour.ID, Quantity: decimal.NewFromInt(5)},
			{ItemID: yeast.ID, Quantity: decimal.NewFromInt(2)},
			{ItemID: flour.ID, Quantity: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	assert.False(t, report.Available)
	short := report.InsufficientItems()
	require.Len(t, short, 1)
	assert.Equal(t, "Flour", short[0].ItemName)
	assert.True(t, decimal.NewFromInt(8).Equal(short[0].Required))
	assert.Equal(t, inventory.AvailabilityOK, report.Items[1].Status)
}

func TestLockItemsTx_LocksInIDOrder(t *testing.T) {
	ctx := context.Background()
	restaurantID := uuid.New()
	items := new(MockInventoryItemRepository)
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	var order []uuid.UUID
	for _, id := range []uuid.UUID{a, b} {
		id := id
		items.On("FindByIDForUpdate", mock.Anything, restaurantID, id).
			Run(func(mock.Arguments) { order = append(order, id) }).
			Return(&inventory.InventoryItem{}, nil)
	}

	locked, err := LockItemsTx(ctx, &appshared.Repositories{Items: items}, restaurantID, []uuid.UUID{b, a, b})
	require.NoError(t, err)
	assert.Len(t, locked, 2)
	assert.Equal(t, []uuid.UUID{a, b}, order)
}
