package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sampleSummary(cash int64) financeapp.BankSummary {
	return financeapp.BankSummary{
		Balances: finance.Balances{
			Cash:        decimal.NewFromInt(cash),
			OrangeMoney: decimal.NewFromInt(250000),
			Card:        decimal.Zero,
			Total:       decimal.NewFromInt(cash + 250000),
		},
		Pending: finance.PendingTotals{
			TotalPendingDeposits:    decimal.NewFromInt(10000),
			TotalPendingWithdrawals: decimal.Zero,
		},
	}
}

func TestMemoryBalanceCache(t *testing.T) {
	ctx := context.Background()
	restaurantID := uuid.New()

	t.Run("miss returns nil without error", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		got, _, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get returns the summary", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		require.NoError(t, c.Set(ctx, restaurantID, sampleSummary(500000), 0))

		got, _, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Balances.Total.Equal(decimal.NewFromInt(750000)))
	})

	t.Run("restaurants do not share entries", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		require.NoError(t, c.Set(ctx, restaurantID, sampleSummary(1), 0))

		got, _, err := c.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		require.NoError(t, c.Set(ctx, restaurantID, sampleSummary(1), 0))
		require.NoError(t, c.Invalidate(ctx, restaurantID))

		got, _, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("invalidate advances the generation", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		_, before, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		require.NoError(t, c.Invalidate(ctx, restaurantID))

		_, after, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})

	t.Run("set with a superseded generation is dropped", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		_, gen, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		require.NoError(t, c.Invalidate(ctx, restaurantID))

		require.NoError(t, c.Set(ctx, restaurantID, sampleSummary(1), gen))
		got, _, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, 0, c.Len())

		_, gen, err = c.Get(ctx, restaurantID)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, restaurantID, sampleSummary(1), gen))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("expired entries are misses and get evicted", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, restaurantID, sampleSummary(1), 0))

		now = now.Add(time.Minute)
		got, _, err := c.Get(ctx, restaurantID)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("callers cannot mutate the stored copy", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		require.NoError(t, c.Set(ctx, restaurantID, sampleSummary(100), 0))

		first, _, _ := c.Get(ctx, restaurantID)
		first.Balances.Cash = decimal.NewFromInt(-1)

		second, _, _ := c.Get(ctx, restaurantID)
		assert.True(t, second.Balances.Cash.Equal(decimal.NewFromInt(100)))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		c := NewMemoryBalanceCache(time.Minute)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := uuid.New()
				_ = c.Set(ctx, id, sampleSummary(int64(i)), 0)
				_, _, _ = c.Get(ctx, id)
				_ = c.Invalidate(ctx, id)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 0, c.Len())
	})
}

func TestNewBalanceCache(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("none disables caching", func(t *testing.T) {
		h := NewBalanceCache(config.CacheConfig{Driver: "none"}, config.RedisConfig{}, logger)
		assert.Nil(t, h.Cache)
		assert.Nil(t, h.Ping)
		assert.NoError(t, h.Close())
	})

	t.Run("memory", func(t *testing.T) {
		h := NewBalanceCache(config.CacheConfig{Driver: "memory", BalanceTTL: time.Minute}, config.RedisConfig{}, logger)
		assert.IsType(t, &MemoryBalanceCache{}, h.Cache)
		assert.Nil(t, h.Ping)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		h := NewBalanceCache(
			config.CacheConfig{Driver: "redis", BalanceTTL: time.Minute, KeyPrefix: "rhub:"},
			config.RedisConfig{Host: "127.0.0.1", Port: 1},
			logger,
		)
		assert.IsType(t, &MemoryBalanceCache{}, h.Cache)
		assert.NoError(t, h.Close())
	})
}
