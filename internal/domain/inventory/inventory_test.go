package inventory

import (
	"testing"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, stock, minStock, unitCost string) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(uuid.New(), "Flour", "kg", decimal.RequireFromString(minStock), decimal.RequireFromString(unitCost))
	require.NoError(t, err)
	item.CurrentStock = decimal.RequireFromString(stock)
	return item
}

func TestMovementType_Direction(t *testing.T) {
	tests := []struct {
		movementType MovementType
		increase     bool
		decrease     bool
	}{
		{MovementTypePurchase, true, false},
		{MovementTypeTransferIn, true, false},
		{MovementTypeUsage, false, true},
		{MovementTypeWaste, false, true},
		{MovementTypeTransferOut, false, true},
		{MovementTypeAdjustment, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.movementType.String(), func(t *testing.T) {
			assert.True(t, tc.movementType.IsValid())
			assert.Equal(t, tc.increase, tc.movementType.IsIncrease())
			assert.Equal(t, tc.decrease, tc.movementType.IsDecrease())
		})
	}
	assert.False(t, MovementType("Theft").IsValid())
}

func TestNewStockMovement_SignRules(t *testing.T) {
	item := newTestItem(t, "0", "0", "0")
	meta := MovementMeta{CreatedBy: uuid.New()}

	tests := []struct {
		name         string
		movementType MovementType
		quantity     string
		wantErr      bool
	}{
		{"purchase positive", MovementTypePurchase, "10", false},
		{"purchase negative", MovementTypePurchase, "-10", true},
		{"usage negative", MovementTypeUsage, "-2", false},
		{"usage positive", MovementTypeUsage, "2", true},
		{"waste positive", MovementTypeWaste, "1", true},
		{"transfer out negative", MovementTypeTransferOut, "-1", false},
		{"transfer in negative", MovementTypeTransferIn, "-1", true},
		{"adjustment up", MovementTypeAdjustment, "3", false},
		{"adjustment down", MovementTypeAdjustment, "-3", false},
		{"zero", MovementTypeAdjustment, "0", true},
		{"unknown type", MovementType("Gift"), "1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStockMovement(item, tc.movementType, decimal.RequireFromString(tc.quantity), meta)
			if tc.wantErr {
				assert.ErrorIs(t, err, shared.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInventoryItem_ApplyMovement(t *testing.T) {
	item := newTestItem(t, "5", "2", "8000")
	user := uuid.New()

	cost := decimal.NewFromInt(9000)
	purchase, err := NewStockMovement(item, MovementTypePurchase, decimal.NewFromInt(10), MovementMeta{CreatedBy: user, UnitCost: &cost})
	require.NoError(t, err)
	require.NoError(t, item.ApplyMovement(purchase))

	assert.True(t, decimal.NewFromInt(5).Equal(purchase.BalanceBefore))
	assert.True(t, decimal.NewFromInt(15).Equal(purchase.BalanceAfter))
	assert.True(t, decimal.NewFromInt(15).Equal(item.CurrentStock))
	assert.True(t, cost.Equal(item.UnitCostGNF), "purchase cost becomes the current unit cost")
	assert.False(t, purchase.NegativeStock)

	waste, err := NewStockMovement(item, MovementTypeWaste, decimal.NewFromInt(-20), MovementMeta{CreatedBy: user, Reason: "spoiled"})
	require.NoError(t, err)
	require.NoError(t, item.ApplyMovement(waste))

	assert.True(t, waste.NegativeStock, "the ledger allows but flags negative stock")
	assert.True(t, decimal.NewFromInt(-5).Equal(item.CurrentStock))
	assert.Len(t, item.GetDomainEvents(), 2)
}

func TestInventoryItem_ApplyMovementRejectsForeignItem(t *testing.T) {
	item := newTestItem(t, "0", "0", "0")
	other := newTestItem(t, "0", "0", "0")

	m, err := NewStockMovement(other, MovementTypePurchase, decimal.NewFromInt(1), MovementMeta{CreatedBy: uuid.New()})
	require.NoError(t, err)
	assert.Error(t, item.ApplyMovement(m))
	assert.True(t, item.CurrentStock.IsZero())
}

func TestAuditStock_CacheCoherence(t *testing.T) {
	item := newTestItem(t, "0", "0", "0")
	user := uuid.New()
	var log []StockMovement

	steps := []struct {
		movementType MovementType
		quantity     int64
	}{
		{MovementTypePurchase, 25},
		{MovementTypeUsage, -8},
		{MovementTypeAdjustment, 3},
		{MovementTypeWaste, -30},
		{MovementTypeTransferIn, 4},
	}
	for _, s := range steps {
		m, err := NewStockMovement(item, s.movementType, decimal.NewFromInt(s.quantity), MovementMeta{CreatedBy: user})
		require.NoError(t, err)
		require.NoError(t, item.ApplyMovement(m))
		log = append(log, *m)

		audit := AuditStock(item, log)
		assert.True(t, audit.Coherent, "cache must equal replay after every movement")
	}

	assert.True(t, decimal.NewFromInt(-6).Equal(ReplayStock(log)))

	item.CurrentStock = decimal.NewFromInt(100)
	audit := AuditStock(item, log)
	assert.False(t, audit.Coherent)
	assert.True(t, decimal.NewFromInt(106).Equal(audit.Drift))
}

func TestCheckAvailability(t *testing.T) {
	flour := newTestItem(t, "5", "1", "8000")
	sugar := newTestItem(t, "10", "4", "12000")
	butter := newTestItem(t, "3", "0", "30000")
	items := map[uuid.UUID]*InventoryItem{flour.ID: flour, sugar.ID: sugar, butter.ID: butter}

	report, err := CheckAvailability(items, []Requirement{
		{ItemID: flour.ID, Quantity: decimal.NewFromInt(8)},
		{ItemID: sugar.ID, Quantity: decimal.NewFromInt(7)},
		{ItemID: butter.ID, Quantity: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)

	assert.False(t, report.Available)
	require.Len(t, report.Items, 3)
	assert.Equal(t, AvailabilityInsufficient, report.Items[0].Status)
	assert.True(t, decimal.NewFromInt(-3).Equal(report.Items[0].AfterProduction))
	assert.Equal(t, AvailabilityLow, report.Items[1].Status)
	assert.Equal(t, AvailabilityOK, report.Items[2].Status)
	// 8*8000 + 7*12000 + 1*30000
	assert.True(t, decimal.NewFromInt(178000).Equal(report.EstimatedCostGNF))
	assert.Len(t, report.InsufficientItems(), 1)
}

func TestCheckAvailability_ExactStockIsNotInsufficient(t *testing.T) {
	flour := newTestItem(t, "5", "0", "1000")
	report, err := CheckAvailability(map[uuid.UUID]*InventoryItem{flour.ID: flour}, []Requirement{
		{ItemID: flour.ID, Quantity: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)
	assert.True(t, report.Available)
	assert.Equal(t, AvailabilityOK, report.Items[0].Status)
}

func TestCheckAvailability_MergesDuplicatesAndRejectsUnknown(t *testing.T) {
	flour := newTestItem(t, "5", "0", "1000")
	items := map[uuid.UUID]*InventoryItem{flour.ID: flour}

	report, err := CheckAvailability(items, []Requirement{
		{ItemID: flour.ID, Quantity: decimal.NewFromInt(3)},
		{ItemID: flour.ID, Quantity: decimal.NewFromInt(3)},
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, AvailabilityInsufficient, report.Items[0].Status)

	_, err = CheckAvailability(items, []Requirement{{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = CheckAvailability(items, []Requirement{{ItemID: flour.ID, Quantity: decimal.Zero}})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
