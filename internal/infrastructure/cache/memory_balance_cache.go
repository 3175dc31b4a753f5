package cache

import (
	"context"
	"sync"
	"time"

	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/google/uuid"
)

var _ financeapp.BalanceCache = (*MemoryBalanceCache)(nil)

type summaryEntry struct {
	summary   financeapp.BankSummary
	expiresAt time.Time
}

// MemoryBalanceCache is a process-local BalanceCache for single-instance
// deployments and tests. Expired entries are dropped on read.
type MemoryBalanceCache struct {
	mu          sync.RWMutex
	entries     map[uuid.UUID]summaryEntry
	generations map[uuid.UUID]uint64
	ttl         time.Duration
	now         func() time.Time
}

// NewMemoryBalanceCache creates a cache whose entries live for ttl
func NewMemoryBalanceCache(ttl time.Duration) *MemoryBalanceCache {
	return &MemoryBalanceCache{
		entries:     make(map[uuid.UUID]summaryEntry),
		generations: make(map[uuid.UUID]uint64),
		ttl:         ttl,
		now:         time.Now,
	}
}

// Get returns a nil summary on a miss, with the generation either way
func (c *MemoryBalanceCache) Get(_ context.Context, restaurantID uuid.UUID) (*financeapp.BankSummary, uint64, error) {
	c.mu.RLock()
	entry, ok := c.entries[restaurantID]
	gen := c.generations[restaurantID]
	c.mu.RUnlock()
	if !ok {
		return nil, gen, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[restaurantID]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, restaurantID)
		}
		c.mu.Unlock()
		return nil, gen, nil
	}
	summary := entry.summary
	return &summary, gen, nil
}

// Set stores a copy of summary unless the restaurant was invalidated after
// generation was read
func (c *MemoryBalanceCache) Set(_ context.Context, restaurantID uuid.UUID, summary financeapp.BankSummary, generation uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[restaurantID] != generation {
		return nil
	}
	c.entries[restaurantID] = summaryEntry{summary: summary, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops the restaurant's entry and advances its generation
func (c *MemoryBalanceCache) Invalidate(_ context.Context, restaurantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, restaurantID)
	c.generations[restaurantID]++
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryBalanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
