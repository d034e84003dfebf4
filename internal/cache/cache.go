// Package cache provides a process-lifetime TTL cache for upstream
// responses, keyed by (category, park name).
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used for categories without an explicit TTL.
const DefaultTTL = time.Hour

type entry struct {
	value     any
	timestamp time.Time
}

// Cache stores fetched values with a per-category time-to-live. An entry
// past its TTL is treated as absent and evicted on read. Concurrent
// misses on the same key may both fetch and write; last write wins —
// values are idempotent snapshots of upstream state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttls    map[string]time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a Cache with the given per-category TTLs.
func New(ttls map[string]time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttls:    make(map[string]time.Duration, len(ttls)),
		now:     time.Now,
	}
	for k, v := range ttls {
		c.ttls[k] = v
	}
	return c
}

func (c *Cache) key(category, park string) string {
	return category + "\x00" + park
}

func (c *Cache) ttl(category string) time.Duration {
	if d, ok := c.ttls[category]; ok {
		return d
	}
	return DefaultTTL
}

// Get returns the cached value for (category, park) if present and fresh.
// Stale entries are evicted and reported as absent.
func (c *Cache) Get(category, park string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(category, park)
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl(category) {
		delete(c.entries, k)
		return nil, false
	}
	return e.value, true
}

// Put stores value for (category, park) with the current timestamp,
// replacing any previous entry wholesale.
func (c *Cache) Put(category, park string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(category, park)] = entry{value: value, timestamp: c.now()}
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of entries currently held, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetNow replaces the clock used for timestamps and expiry checks.
// Intended for tests.
func (c *Cache) SetNow(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
