package cache

import (
	"sync"
	"time"

	"github.com/membify/membify-backend/internal/clock"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a small in-memory cache with a fixed time-to-live per entry.
// Expiry is evaluated against an injected clock, and entries can be
// invalidated explicitly, so tests never need to sleep.
type TTL[V any] struct {
	clk clock.Clock
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry[V]
}

func NewTTL[V any](clk clock.Clock, ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		clk:     clk,
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key if it has not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.clk.Now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.clk.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate removes key immediately.
func (c *TTL[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
