// Package cache holds read-through caches for computed ledger views.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ financeapp.BalanceCache = (*RedisBalanceCache)(nil)

// NewRedisClient connects and pings within five seconds
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// RedisBalanceCache stores bank summaries as JSON, one key per restaurant,
// next to a counter key holding the restaurant's generation.
// Entries expire after ttl so a missed invalidation heals itself.
type RedisBalanceCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBalanceCache wraps an existing client
func NewRedisBalanceCache(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, prefix: keyPrefix, ttl: ttl}
}

func (c *RedisBalanceCache) key(restaurantID uuid.UUID) string {
	return c.prefix + "bank_summary:" + restaurantID.String()
}

func (c *RedisBalanceCache) generationKey(restaurantID uuid.UUID) string {
	return c.prefix + "bank_summary_gen:" + restaurantID.String()
}

// Get returns a nil summary on a miss, with the generation either way
func (c *RedisBalanceCache) Get(ctx context.Context, restaurantID uuid.UUID) (*financeapp.BankSummary, uint64, error) {
	var summaryCmd, genCmd *redis.StringCmd
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		summaryCmd = pipe.Get(ctx, c.key(restaurantID))
		genCmd = pipe.Get(ctx, c.generationKey(restaurantID))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("get bank summary: %w", err)
	}

	gen, err := genCmd.Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("get bank summary generation: %w", err)
	}
	raw, err := summaryCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get bank summary: %w", err)
	}
	var summary financeapp.BankSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// A stale shape from an older release counts as a miss.
		_ = c.client.Del(ctx, c.key(restaurantID)).Err()
		return nil, gen, nil
	}
	return &summary, gen, nil
}

// Set stores summary for the configured ttl. The write is dropped when the
// generation moved past the one the caller read, including mid-transaction.
func (c *RedisBalanceCache) Set(ctx context.Context, restaurantID uuid.UUID, summary financeapp.BankSummary, generation uint64) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode bank summary: %w", err)
	}

	genKey := c.generationKey(restaurantID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(restaurantID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("set bank summary: %w", err)
	}
	return nil
}

// Invalidate deletes the restaurant's entry and advances its generation
func (c *RedisBalanceCache) Invalidate(ctx context.Context, restaurantID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey(restaurantID))
		pipe.Del(ctx, c.key(restaurantID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate bank summary: %w", err)
	}
	return nil
}

// Ping backs the cache health check
func (c *RedisBalanceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (c *RedisBalanceCache) Close() error {
	return c.client.Close()
}
