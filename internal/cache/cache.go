// Package cache provides a fetch-through TTL cache keyed on any comparable
// type. Entries are refreshed lazily on lookup; a failed fetch never
// replaces or poisons an existing entry.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
	ttl      time.Duration
}

// TTLCache is a process-wide keyed cache with per-lookup expiry. Concurrent
// lookups for the same key may both run the fetch (there is no
// single-flight), but entry writes are atomic per key.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[K]entry[V]
}

// New creates a cache using the wall clock.
func New[K comparable, V any]() *TTLCache[K, V] {
	return NewWithClock[K, V](time.Now)
}

// NewWithClock creates a cache with an injected clock, for tests.
func NewWithClock[K comparable, V any](now func() time.Time) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		now:     now,
		entries: make(map[K]entry[V]),
	}
}

// GetOrFetch returns the cached value for key if it is younger than ttl,
// otherwise calls fetch and stores the result. The bool reports a cache
// hit. A fetch error is returned as-is and leaves the cache untouched.
//
// The lock is not held across fetch, so lookups for other keys never block
// on a slow fetch.
func (c *TTLCache[K, V]) GetOrFetch(key K, ttl time.Duration, fetch func() (V, error)) (V, bool, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.storedAt) < ttl {
		c.mu.Unlock()
		return e.value, true, nil
	}
	c.mu.Unlock()

	value, err := fetch()
	if err != nil {
		var zero V
		return zero, false, err
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
	return value, false, nil
}

// Sweep removes entries older than the TTL they were stored with and
// returns how many were dropped. Callers decide whether and how often to
// sweep; lookups are correct without it.
func (c *TTLCache[K, V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dropped := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= e.ttl {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
