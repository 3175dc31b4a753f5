package cache

import (
	"context"
	"io"

	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"go.uber.org/zap"
)

// BalanceCacheHandle is what the server needs from the configured cache.
// Cache is nil when caching is disabled; Ping is nil unless the backend is remote.
type BalanceCacheHandle struct {
	Cache  financeapp.BalanceCache
	Ping   func(ctx context.Context) error
	Closer io.Closer
}

// Close releases the backend, if any
func (h BalanceCacheHandle) Close() error {
	if h.Closer == nil {
		return nil
	}
	return h.Closer.Close()
}

// NewBalanceCache picks the backend named by cfg.Driver. An unreachable Redis
// degrades to the in-memory cache with a warning; other instances may then
// serve a summary up to BalanceTTL old.
func NewBalanceCache(cfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) BalanceCacheHandle {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "none":
		logger.Info("Balance cache disabled")
		return BalanceCacheHandle{}
	case "redis":
		client, err := NewRedisClient(redisCfg)
		if err == nil {
			logger.Info("Using Redis balance cache", zap.String("addr", redisCfg.Addr()))
			c := NewRedisBalanceCache(client, cfg.KeyPrefix, cfg.BalanceTTL)
			return BalanceCacheHandle{Cache: c, Ping: c.Ping, Closer: c}
		}
		logger.Warn("Redis unavailable, falling back to in-memory balance cache", zap.Error(err))
	}
	return BalanceCacheHandle{Cache: NewMemoryBalanceCache(cfg.BalanceTTL)}
}
