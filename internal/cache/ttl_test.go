package cache

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func TestGetMissesEmptyCache(t *testing.T) {
	c := NewTTL[int](newFakeClock(), time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("hit on empty cache")
	}
}

func TestSetThenGetWithinTTL(t *testing.T) {
	clk := newFakeClock()
	c := NewTTL[string](clk, 2*time.Minute)

	c.Set("status", "active")
	clk.now = clk.now.Add(119 * time.Second)

	got, ok := c.Get("status")
	if !ok || got != "active" {
		t.Fatalf("want hit with %q, got %q ok=%v", "active", got, ok)
	}
}

func TestEntryExpiresAtTTLBoundary(t *testing.T) {
	clk := newFakeClock()
	c := NewTTL[string](clk, 2*time.Minute)

	c.Set("status", "active")
	clk.now = clk.now.Add(2 * time.Minute)

	if _, ok := c.Get("status"); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestSetRefreshesExpiry(t *testing.T) {
	clk := newFakeClock()
	c := NewTTL[int](clk, time.Minute)

	c.Set("n", 1)
	clk.now = clk.now.Add(50 * time.Second)
	c.Set("n", 2)
	clk.now = clk.now.Add(50 * time.Second)

	got, ok := c.Get("n")
	if !ok || got != 2 {
		t.Fatalf("overwrite did not refresh the TTL: got %d ok=%v", got, ok)
	}
}

func TestInvalidateRemovesEntry(t *testing.T) {
	c := NewTTL[int](newFakeClock(), time.Minute)

	c.Set("n", 1)
	c.Invalidate("n")

	if _, ok := c.Get("n"); ok {
		t.Fatal("entry survived invalidation")
	}
}
