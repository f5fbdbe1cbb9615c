package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/nilsson-hagberg/warehouse/internal/allocator"
	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/manager"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

func TestSortedNameCache_HitsWithinTTL(t *testing.T) {
	m := manager.New(warehouse.Dims{Rows: 1, Shelves: 1, Zones: 2}, allocator.NewProximity())
	m.Add(item.Item{ID: 1, Name: "A", Quantity: 1, Quality: item.Normal()})

	c := newSortedNameCache(m)
	entries, hit, err := c.get(context.Background())
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	if hit {
		t.Fatalf("first get() hit = true, want false")
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %v, want 1 entry", entries)
	}

	m.Add(item.Item{ID: 2, Name: "B", Quantity: 1, Quality: item.Normal()})
	entries, hit, err = c.get(context.Background())
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	if !hit {
		t.Fatalf("second get() hit = false, want true (within TTL)")
	}
	if len(entries) != 1 {
		t.Fatalf("stale entries = %v, want still 1 entry (B not yet visible)", entries)
	}
}

func TestSortedNameCache_InvalidateForcesRefresh(t *testing.T) {
	m := manager.New(warehouse.Dims{Rows: 1, Shelves: 1, Zones: 2}, allocator.NewProximity())
	m.Add(item.Item{ID: 1, Name: "A", Quantity: 1, Quality: item.Normal()})

	c := newSortedNameCache(m)
	c.get(context.Background())

	m.Add(item.Item{ID: 2, Name: "B", Quantity: 1, Quality: item.Normal()})
	c.invalidate()

	entries, hit, err := c.get(context.Background())
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	if hit {
		t.Fatalf("get() after invalidate hit = true, want false")
	}
	if len(entries) != 2 {
		t.Fatalf("entries after invalidate = %v, want 2 entries", entries)
	}
}

func TestSortedNameCache_ExpiresAfterTTL(t *testing.T) {
	m := manager.New(warehouse.Dims{Rows: 1, Shelves: 1, Zones: 2}, allocator.NewProximity())
	m.Add(item.Item{ID: 1, Name: "A", Quantity: 1, Quality: item.Normal()})

	c := newSortedNameCache(m)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }
	c.get(context.Background())

	m.Add(item.Item{ID: 2, Name: "B", Quantity: 1, Quality: item.Normal()})
	fakeNow = fakeNow.Add(c.ttl + time.Millisecond)

	entries, hit, err := c.get(context.Background())
	if err != nil {
		t.Fatalf("get() error = %v", err)
	}
	if hit {
		t.Fatalf("get() after TTL expiry hit = true, want false")
	}
	if len(entries) != 2 {
		t.Fatalf("entries after expiry = %v, want 2 entries", entries)
	}
}
