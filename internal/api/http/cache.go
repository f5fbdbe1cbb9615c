package httpapi

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nilsson-hagberg/warehouse/internal/manager"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

// sortedNameCache coalesces concurrent GET /api/items requests into one
// ListSortedByName call. The manager itself is synchronous and already
// fast, but a handful of simultaneous polling clients turning into a
// single pass through the sorted index is the same trade this corpus
// makes for its own snapshot endpoint: prefer a short-lived cache over
// recomputing the same answer once per request.
type sortedNameCache struct {
	m   *manager.Manager
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries []warehouse.NameEntry
	expires time.Time

	sg singleflight.Group
}

func newSortedNameCache(m *manager.Manager) *sortedNameCache {
	return &sortedNameCache{m: m, ttl: 200 * time.Millisecond, now: time.Now}
}

// invalidate drops the cached snapshot; called after any mutation so a
// client never observes a list that is stale relative to its own write.
func (c *sortedNameCache) invalidate() {
	c.mu.Lock()
	c.entries = nil
	c.expires = time.Time{}
	c.mu.Unlock()
}

func (c *sortedNameCache) get(_ context.Context) ([]warehouse.NameEntry, bool, error) {
	c.mu.RLock()
	if c.entries != nil && c.now().Before(c.expires) {
		out := c.entries
		c.mu.RUnlock()
		return out, true, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.sg.Do("list-sorted-by-name", func() (any, error) {
		c.mu.RLock()
		if c.entries != nil && c.now().Before(c.expires) {
			out := c.entries
			c.mu.RUnlock()
			return out, nil
		}
		c.mu.RUnlock()

		entries := c.m.ListSortedByName()

		c.mu.Lock()
		c.entries = entries
		c.expires = c.now().Add(c.ttl)
		c.mu.Unlock()

		return entries, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]warehouse.NameEntry), false, nil
}
