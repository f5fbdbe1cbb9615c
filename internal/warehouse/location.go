package warehouse

import "fmt"

// Location is the (row, shelf, zone) triple addressing a single zone slot.
// Lower indices are closer to the base; Less defines the canonical
// traversal order used by both allocator strategies: row-major, then
// shelf, then zone.
type Location struct {
	Row   int
	Shelf int
	Zone  int
}

// Less reports whether l precedes other in canonical (row, shelf, zone)
// lexicographic order.
func (l Location) Less(other Location) bool {
	if l.Row != other.Row {
		return l.Row < other.Row
	}
	if l.Shelf != other.Shelf {
		return l.Shelf < other.Shelf
	}
	return l.Zone < other.Zone
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d,%d)", l.Row, l.Shelf, l.Zone)
}

// Dims is the fixed (R, S, Z) shape of a warehouse grid.
type Dims struct {
	Rows    int
	Shelves int
	Zones   int
}

// Contains reports whether loc is within bounds for these dimensions.
func (d Dims) Contains(loc Location) bool {
	return loc.Row >= 0 && loc.Row < d.Rows &&
		loc.Shelf >= 0 && loc.Shelf < d.Shelves &&
		loc.Zone >= 0 && loc.Zone < d.Zones
}

// Next advances loc by one zone in canonical order, wrapping zone into
// shelf, shelf into row, and row back to (0,0,0) once loc was the last
// location in the grid. The round-robin allocator uses this to scan
// forward from its cursor and to wrap exactly once through the whole
// grid; the bool return says whether wraparound occurred.
func (d Dims) Next(loc Location) (next Location, wrapped bool) {
	loc.Zone++
	if loc.Zone >= d.Zones {
		loc.Zone = 0
		loc.Shelf++
		if loc.Shelf >= d.Shelves {
			loc.Shelf = 0
			loc.Row++
			if loc.Row >= d.Rows {
				return Location{}, true
			}
		}
	}
	return loc, false
}
