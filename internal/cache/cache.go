/**
 * @description
 * Bounded-TTL cache for volatile provider data: per-user usage limits, the global
 * payout destination list, and per-country bank lists. The cache is advisory:
 * a stale read racing a concurrent invalidation is acceptable, and a failed
 * remote fetch is never cached (no negative caching).
 *
 * Two implementations exist. The Redis one is used in production when REDIS_URL
 * is configured; the in-memory one (with an injectable clock) backs local runs
 * and deterministic tests.
 */

package cache

import (
	"context"
	"sync"
	"time"
)

// Cache names for the three keyspaces held by the service.
const (
	KeyDestinations = "destinations"
)

// LimitsKey builds the usage-limits cache key for a user.
func LimitsKey(userID string) string { return "limits:" + userID }

// BanksKey builds the bank-list cache key for a payout country.
func BanksKey(countryCode string) string { return "banks:" + countryCode }

// Cache is a process-wide key/value store with per-entry TTL. Values are opaque
// JSON documents returned by the provider.
type Cache interface {
	// Get returns the cached value and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache implementation. The clock is injectable so
// TTL behavior can be tested deterministically.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache using the wall clock.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(time.Now)
}

// NewMemoryCacheWithClock creates an in-memory cache with the given clock.
func NewMemoryCacheWithClock(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}
