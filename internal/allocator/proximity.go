package allocator

import (
	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

// Proximity is the nearest-to-base strategy: it always returns the first
// location in canonical order (row ascending, shelf ascending, zone
// ascending) that satisfies every placement constraint. It carries no
// state between calls.
type Proximity struct{}

// NewProximity returns a ready-to-use nearest-to-base allocator.
func NewProximity() *Proximity { return &Proximity{} }

// Propose scans the grid in canonical order and returns the first
// suitable anchor, or ErrNoSpace if none exists.
func (Proximity) Propose(g *warehouse.Grid, it *item.Item) (warehouse.Location, error) {
	var found warehouse.Location
	ok := false
	g.Each(func(loc warehouse.Location, _ warehouse.Slot) bool {
		if !suitable(g, it, loc) {
			return true
		}
		found = loc
		ok = true
		return false
	})
	if !ok {
		return warehouse.Location{}, ErrNoSpace
	}
	return found, nil
}

// Commit is a no-op: Proximity is stateless, so committing a placement
// changes nothing about future proposals.
func (Proximity) Commit(*warehouse.Grid, warehouse.Location, *item.Item) {}
