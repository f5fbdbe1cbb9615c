package allocator

import (
	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

// RoundRobin is the wraparound strategy: it scans forward from a
// persistent cursor, wraps at most once through the entire grid, and
// returns the first suitable anchor. The cursor is moved past the chosen
// item's span on success and is otherwise left untouched — in particular
// it is never rewound by removals, so zones freed behind the cursor stay
// unvisited until a full wrap brings the scan back around to them.
//
// The scan itself is grounded on the same "increment, wrap, skip unusable"
// loop this corpus uses for Linux-style PID allocation: check the current
// position, advance regardless of the outcome, and declare exhaustion only
// once advancing brings you back to where you started.
type RoundRobin struct {
	cursor warehouse.Location
}

// NewRoundRobin returns a round-robin allocator with its cursor at the
// grid's first location.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Propose scans forward from the cursor, wrapping once, and returns the
// first suitable anchor without moving the cursor. Returns ErrNoSpace if
// the full wrap finds nothing.
func (rr *RoundRobin) Propose(g *warehouse.Grid, it *item.Item) (warehouse.Location, error) {
	dims := g.Dims()
	start := rr.cursor
	loc := start

	for {
		if suitable(g, it, loc) {
			return loc, nil
		}

		next := step(dims, loc)
		if next == start {
			return warehouse.Location{}, ErrNoSpace
		}
		loc = next
	}
}

// Commit advances the cursor past the span just claimed at loc. Must be
// called with the same (loc, it) a preceding Propose returned and on the
// same grid; calling it without an actual grid claim would desynchronize
// the cursor from reality.
func (rr *RoundRobin) Commit(g *warehouse.Grid, loc warehouse.Location, it *item.Item) {
	rr.cursor = advance(g.Dims(), loc, it.Quality.Span())
}

// step advances loc by one zone in canonical order, wrapping to (0,0,0)
// once loc was the grid's last location.
func step(dims warehouse.Dims, loc warehouse.Location) warehouse.Location {
	next, wrapped := dims.Next(loc)
	if wrapped {
		return warehouse.Location{}
	}
	return next
}

// advance moves loc forward by n zones, wrapping as needed; used to park
// the cursor just past a just-claimed span.
func advance(dims warehouse.Dims, loc warehouse.Location, n int) warehouse.Location {
	for i := 0; i < n; i++ {
		loc = step(dims, loc)
	}
	return loc
}
