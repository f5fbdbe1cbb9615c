// Package allocator defines the placement contract for the warehouse
// manager and its two concrete strategies. An allocator decides where a
// candidate item would be placed; it never mutates the grid itself — the
// manager performs the actual Claim once a location has been chosen.
package allocator

import (
	"errors"

	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

// ErrNoSpace is returned when a full traversal of the grid finds no
// location that satisfies every placement constraint for the candidate
// item.
var ErrNoSpace = errors.New("allocator: no space available")

// Strategy is the allocator contract, split into a pure preview and an
// explicit commit so that a manager's pure placement-preview query and its
// real add operation can share one scanning implementation without the
// query accidentally advancing Round-robin's cursor.
//
//   - Propose returns the location the candidate would be placed at, given
//     the grid's current contents and the strategy's current internal
//     state (e.g. Round-robin's cursor). It never mutates anything.
//   - Commit is called only once a Propose'd location has actually been
//     claimed on the grid; it is where a stateful strategy advances its
//     own bookkeeping (Proximity's Commit is a no-op; it is stateless).
//
// A manager that calls Propose without a following Commit (the Allocate
// query) leaves the strategy exactly as it found it.
type Strategy interface {
	Propose(g *warehouse.Grid, it *item.Item) (warehouse.Location, error)
	Commit(g *warehouse.Grid, loc warehouse.Location, it *item.Item)
}

// suitable reports whether anchor satisfies every placement constraint for
// it on g: Fragile row bound, and a claimable span for every quality
// (span == 1 for Normal and Fragile).
func suitable(g *warehouse.Grid, it *item.Item, anchor warehouse.Location) bool {
	if f := it.Quality.Fragile; f != nil && anchor.Row > f.MaxRow {
		return false
	}
	return g.CanClaim(anchor, it.Quality.Span())
}
