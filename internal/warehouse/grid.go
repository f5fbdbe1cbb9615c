package warehouse

import "github.com/nilsson-hagberg/warehouse/internal/item"

// ZoneState is the occupancy state of a single zone slot.
type ZoneState int

const (
	// StateEmpty means the zone holds nothing.
	StateEmpty ZoneState = iota
	// StateAnchor means the zone is the anchor of an item (the only zone
	// ever returned by a query or accepted by a removal).
	StateAnchor
	// StateTail means the zone is covered by an Oversized item anchored
	// elsewhere on the same shelf.
	StateTail
)

// Slot is a read-only snapshot of one zone. Item is non-nil only when
// State == StateAnchor; AnchorAt is meaningful only when State == StateTail.
type Slot struct {
	State    ZoneState
	Item     *item.Item
	AnchorAt Location
}

// Grid is a dense, fixed-size three-dimensional array of zone slots. It is
// the raw occupancy truth for the warehouse: it knows nothing about
// indexes, allocators, or filters, and exposes only the primitive
// operations those layers compose — read a slot, atomically claim a run of
// zones on one shelf, atomically release an anchor and everything it
// covers. Every other mutation (moving an item, resizing) is intentionally
// absent; the grid's only state machine is Empty -> Anchor/Tail -> Empty.
type Grid struct {
	dims  Dims
	slots []slot // row-major: index = (row*Shelves+shelf)*Zones + zone
}

type slot struct {
	state    ZoneState
	item     *item.Item
	anchorAt Location
}

// NewGrid constructs an all-empty grid with the given dimensions. Panics if
// any dimension is non-positive: a zero-volume grid is a construction bug,
// not a runtime condition to recover from.
func NewGrid(dims Dims) *Grid {
	if dims.Rows <= 0 || dims.Shelves <= 0 || dims.Zones <= 0 {
		panic("warehouse: grid dimensions must all be positive")
	}
	return &Grid{
		dims:  dims,
		slots: make([]slot, dims.Rows*dims.Shelves*dims.Zones),
	}
}

// Dims returns the grid's fixed dimensions.
func (g *Grid) Dims() Dims { return g.dims }

func (g *Grid) index(loc Location) int {
	return (loc.Row*g.dims.Shelves+loc.Shelf)*g.dims.Zones + loc.Zone
}

// At returns the slot at loc. Returns ErrInvalidLocation if loc is out of
// range.
func (g *Grid) At(loc Location) (Slot, error) {
	if !g.dims.Contains(loc) {
		return Slot{}, ErrInvalidLocation
	}
	s := g.slots[g.index(loc)]
	return Slot{State: s.state, Item: s.item, AnchorAt: s.anchorAt}, nil
}

// CanClaim reports whether the span zones [anchor.Zone, anchor.Zone+span)
// on anchor's shelf are all in range and Empty, without mutating anything.
// Allocators use this to probe candidates; Claim re-checks it anyway so
// CanClaim is purely advisory.
func (g *Grid) CanClaim(anchor Location, span int) bool {
	if !g.dims.Contains(anchor) {
		return false
	}
	if anchor.Zone+span > g.dims.Zones {
		return false
	}
	for z := anchor.Zone; z < anchor.Zone+span; z++ {
		loc := Location{Row: anchor.Row, Shelf: anchor.Shelf, Zone: z}
		if g.slots[g.index(loc)].state != StateEmpty {
			return false
		}
	}
	return true
}

// Claim atomically writes it as the anchor at anchor, and marks the
// following span-1 zones on the same shelf as tails pointing back to
// anchor. Returns ErrInvalidLocation if anchor is out of range, or a
// *ConstraintError if anchor's row exceeds a Fragile item's
// MaxRow, any covered zone is not Empty, or the span would cross the shelf
// boundary. On any error, the grid is left unmodified.
func (g *Grid) Claim(anchor Location, span int, it *item.Item) error {
	if !g.dims.Contains(anchor) {
		return ErrInvalidLocation
	}
	if it.Quality.Fragile != nil && anchor.Row > it.Quality.Fragile.MaxRow {
		return &ConstraintError{Reason: "fragile row bound violated"}
	}
	if anchor.Zone+span > g.dims.Zones {
		return &ConstraintError{Reason: "oversized span overflows shelf"}
	}
	for z := anchor.Zone; z < anchor.Zone+span; z++ {
		loc := Location{Row: anchor.Row, Shelf: anchor.Shelf, Zone: z}
		if g.slots[g.index(loc)].state != StateEmpty {
			return &ConstraintError{Reason: "zone already occupied"}
		}
	}

	g.slots[g.index(anchor)] = slot{state: StateAnchor, item: it}
	for z := anchor.Zone + 1; z < anchor.Zone+span; z++ {
		loc := Location{Row: anchor.Row, Shelf: anchor.Shelf, Zone: z}
		g.slots[g.index(loc)] = slot{state: StateTail, anchorAt: anchor}
	}
	return nil
}

// Release clears the anchor at loc and every tail it covers (span is taken
// from the anchored item's Quality). Returns the released item.
//
// Returns ErrInvalidLocation if loc is out of range, ErrEmpty if loc holds
// nothing, or ErrNotAnchor if loc is a tail slot.
func (g *Grid) Release(loc Location) (*item.Item, error) {
	if !g.dims.Contains(loc) {
		return nil, ErrInvalidLocation
	}
	s := g.slots[g.index(loc)]
	switch s.state {
	case StateEmpty:
		return nil, ErrEmpty
	case StateTail:
		return nil, ErrNotAnchor
	}

	span := s.item.Quality.Span()
	for z := loc.Zone; z < loc.Zone+span; z++ {
		tloc := Location{Row: loc.Row, Shelf: loc.Shelf, Zone: z}
		g.slots[g.index(tloc)] = slot{}
	}
	return s.item, nil
}

// Each calls fn for every location in canonical order, stopping early if fn
// returns false. Used by the proximity allocator and by tests asserting
// grid-wide invariants; not used by the round-robin allocator, which scans
// from its own cursor via Dims.Next directly.
func (g *Grid) Each(fn func(Location, Slot) bool) {
	d := g.dims
	for r := 0; r < d.Rows; r++ {
		for sh := 0; sh < d.Shelves; sh++ {
			for z := 0; z < d.Zones; z++ {
				loc := Location{Row: r, Shelf: sh, Zone: z}
				sl, _ := g.At(loc)
				if !fn(loc, sl) {
					return
				}
			}
		}
	}
}
