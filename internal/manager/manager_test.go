package manager

import (
	"errors"
	"testing"

	"github.com/nilsson-hagberg/warehouse/internal/allocator"
	"github.com/nilsson-hagberg/warehouse/internal/filter"
	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

func newTestManager(strategy allocator.Strategy, opts ...Option) *Manager {
	return New(warehouse.Dims{Rows: 2, Shelves: 2, Zones: 3}, strategy, opts...)
}

// TestManager_S1ThroughS4 walks a single proximity-allocator manager through
// a Normal add, a Fragile add with an expiry query, an Oversized add that
// fills a shelf, and the removal of that shelf's anchor.
func TestManager_S1ThroughS4(t *testing.T) {
	m := newTestManager(allocator.NewProximity())

	// S1
	loc, err := m.Add(item.Item{ID: 1, Name: "A", Quantity: 5, Quality: item.Normal()})
	if err != nil {
		t.Fatalf("Add(A) error = %v", err)
	}
	if want := (warehouse.Location{Row: 0, Shelf: 0, Zone: 0}); loc != want {
		t.Fatalf("Add(A) location = %v, want %v", loc, want)
	}
	if present, count := m.CountByID(1); !present || count != 1 {
		t.Fatalf("CountByID(1) = (%v, %d), want (true, 1)", present, count)
	}

	// S2
	loc2, err := m.Add(item.Item{ID: 2, Name: "B", Quantity: 1, Quality: item.NewFragile(10, 0)})
	if err != nil {
		t.Fatalf("Add(B) error = %v", err)
	}
	if want := (warehouse.Location{Row: 0, Shelf: 0, Zone: 1}); loc2 != want {
		t.Fatalf("Add(B) location = %v, want %v", loc2, want)
	}
	if got := m.CountExpiringBy(10); got != 1 {
		t.Fatalf("CountExpiringBy(10) = %d, want 1", got)
	}
	if got := m.CountExpiringBy(9); got != 0 {
		t.Fatalf("CountExpiringBy(9) = %d, want 0", got)
	}

	// S3
	loc3, err := m.Add(item.Item{ID: 3, Name: "C", Quantity: 1, Quality: item.NewOversized(3)})
	if err != nil {
		t.Fatalf("Add(C) error = %v", err)
	}
	if want := (warehouse.Location{Row: 0, Shelf: 1, Zone: 0}); loc3 != want {
		t.Fatalf("Add(C) location = %v, want %v", loc3, want)
	}
	for _, z := range []int{1, 2} {
		slot, err := m.At(warehouse.Location{Row: 0, Shelf: 1, Zone: z})
		if err != nil {
			t.Fatalf("At(0,1,%d) error = %v", z, err)
		}
		if slot.State != warehouse.StateTail {
			t.Fatalf("At(0,1,%d).State = %v, want StateTail", z, slot.State)
		}
	}

	// S4
	if _, err := m.Remove(warehouse.Location{Row: 0, Shelf: 1, Zone: 1}); !errors.Is(err, warehouse.ErrNotAnchor) {
		t.Fatalf("Remove(tail) error = %v, want ErrNotAnchor", err)
	}
	removed, err := m.Remove(warehouse.Location{Row: 0, Shelf: 1, Zone: 0})
	if err != nil {
		t.Fatalf("Remove(anchor) error = %v", err)
	}
	if removed.ID != 3 {
		t.Fatalf("Remove(anchor) returned id %d, want 3", removed.ID)
	}
	for z := 0; z < 3; z++ {
		slot, err := m.At(warehouse.Location{Row: 0, Shelf: 1, Zone: z})
		if err != nil {
			t.Fatalf("At(0,1,%d) error = %v", z, err)
		}
		if slot.State != warehouse.StateEmpty {
			t.Fatalf("At(0,1,%d).State = %v, want StateEmpty", z, slot.State)
		}
	}
	if present, count := m.CountByID(3); present || count != 0 {
		t.Fatalf("CountByID(3) after removal = (%v, %d), want (false, 0)", present, count)
	}
}

// TestManager_S5RoundRobinCursorDoesNotRewind mirrors the round-robin
// allocator's own cursor test, but end to end through Add/Remove.
func TestManager_S5RoundRobinCursorDoesNotRewind(t *testing.T) {
	m := newTestManager(allocator.NewRoundRobin())

	want := []warehouse.Location{
		{Row: 0, Shelf: 0, Zone: 0},
		{Row: 0, Shelf: 0, Zone: 1},
		{Row: 0, Shelf: 0, Zone: 2},
		{Row: 0, Shelf: 1, Zone: 0},
	}
	for i, w := range want {
		loc, err := m.Add(item.Item{ID: int64(i + 1), Name: "x", Quantity: 1, Quality: item.Normal()})
		if err != nil {
			t.Fatalf("Add(%d) error = %v", i, err)
		}
		if loc != w {
			t.Fatalf("Add(%d) location = %v, want %v", i, loc, w)
		}
	}

	if _, err := m.Remove(warehouse.Location{Row: 0, Shelf: 0, Zone: 0}); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	loc, err := m.Add(item.Item{ID: 5, Name: "x", Quantity: 1, Quality: item.Normal()})
	if err != nil {
		t.Fatalf("Add(5) error = %v", err)
	}
	if want := (warehouse.Location{Row: 0, Shelf: 1, Zone: 1}); loc != want {
		t.Fatalf("Add(5) location = %v, want %v (cursor must not rewind)", loc, want)
	}
}

// TestManager_S6FilterRejectionLeavesStateUnchanged exercises a MaxQuantity
// filter: an over-limit add is rejected and the grid stays untouched, so the
// very next add still lands at the warehouse's first location.
func TestManager_S6FilterRejectionLeavesStateUnchanged(t *testing.T) {
	m := newTestManager(allocator.NewProximity(), WithFilterChain(filter.NewChain(filter.MaxQuantity{Max: 10})))

	_, err := m.Add(item.Item{ID: 1, Name: "over", Quantity: 11, Quality: item.Normal()})
	var rej *filter.RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("Add(over-limit) error = %v, want *filter.RejectedError", err)
	}
	if present, _ := m.CountByID(1); present {
		t.Fatalf("CountByID(1) after rejected add = true, want false")
	}

	loc, err := m.Add(item.Item{ID: 2, Name: "ok", Quantity: 5, Quality: item.Normal()})
	if err != nil {
		t.Fatalf("Add(within-limit) error = %v", err)
	}
	if want := (warehouse.Location{}); loc != want {
		t.Fatalf("Add(within-limit) location = %v, want %v", loc, want)
	}
}

func TestManager_Allocate_DoesNotMutateStateOrCursor(t *testing.T) {
	m := newTestManager(allocator.NewRoundRobin())

	first, err := m.Allocate(item.Item{ID: 1, Quantity: 1, Quality: item.Normal()})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	second, err := m.Allocate(item.Item{ID: 2, Quantity: 1, Quality: item.Normal()})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if first != second {
		t.Fatalf("Allocate() is not idempotent: first = %v, second = %v", first, second)
	}
	if present, _ := m.CountByID(1); present {
		t.Fatalf("Allocate() must not place the item, but CountByID(1) = true")
	}
}

func TestManager_PlaceAt_BypassesFilterAndAllocatorButUpdatesIndexes(t *testing.T) {
	m := newTestManager(allocator.NewProximity(), WithFilterChain(filter.NewChain(filter.MaxQuantity{Max: 1})))

	loc := warehouse.Location{Row: 1, Shelf: 1, Zone: 2}
	it := item.Item{ID: 9, Name: "z", Quantity: 99, Quality: item.Normal()}
	if err := m.PlaceAt(loc, it); err != nil {
		t.Fatalf("PlaceAt() error = %v", err)
	}

	if present, count := m.CountByID(9); !present || count != 1 {
		t.Fatalf("CountByID(9) after PlaceAt = (%v, %d), want (true, 1)", present, count)
	}
	locs := m.LocateByID(9)
	if len(locs) != 1 || locs[0] != loc {
		t.Fatalf("LocateByID(9) = %v, want [%v]", locs, loc)
	}
}

func TestManager_PlaceAt_ConstraintViolationLeavesGridUnchanged(t *testing.T) {
	m := newTestManager(allocator.NewProximity())
	loc := warehouse.Location{Row: 0, Shelf: 0, Zone: 0}
	if err := m.PlaceAt(loc, item.Item{ID: 1, Quantity: 1, Quality: item.Normal()}); err != nil {
		t.Fatalf("first PlaceAt() error = %v", err)
	}

	var ce *warehouse.ConstraintError
	err := m.PlaceAt(loc, item.Item{ID: 2, Quantity: 1, Quality: item.Normal()})
	if !errors.As(err, &ce) {
		t.Fatalf("PlaceAt(occupied) error = %v, want *warehouse.ConstraintError", err)
	}
	if present, count := m.CountByID(2); present || count != 0 {
		t.Fatalf("CountByID(2) after failed PlaceAt = (%v, %d), want (false, 0)", present, count)
	}
}

func TestManager_PlaceAt_FragileRowBoundViolationLeavesGridUnchanged(t *testing.T) {
	m := newTestManager(allocator.NewProximity())
	loc := warehouse.Location{Row: 1, Shelf: 0, Zone: 0}

	var ce *warehouse.ConstraintError
	err := m.PlaceAt(loc, item.Item{ID: 1, Quantity: 1, Quality: item.NewFragile(10, 0)})
	if !errors.As(err, &ce) {
		t.Fatalf("PlaceAt(row beyond MaxRow) error = %v, want *warehouse.ConstraintError", err)
	}
	if present, count := m.CountByID(1); present || count != 0 {
		t.Fatalf("CountByID(1) after failed PlaceAt = (%v, %d), want (false, 0)", present, count)
	}
}

func TestManager_ListSortedByName(t *testing.T) {
	m := newTestManager(allocator.NewProximity())
	m.Add(item.Item{ID: 2, Name: "B", Quantity: 1, Quality: item.Normal()})
	m.Add(item.Item{ID: 1, Name: "A", Quantity: 1, Quality: item.Normal()})

	entries := m.ListSortedByName()
	if len(entries) != 2 {
		t.Fatalf("ListSortedByName() = %+v, want 2 entries", entries)
	}
	if entries[0].Name != "A" || entries[1].Name != "B" {
		t.Fatalf("ListSortedByName() = %+v, want A before B", entries)
	}
}

func TestManager_AdvanceDayStampsArrival(t *testing.T) {
	m := newTestManager(allocator.NewProximity())
	m.AdvanceDay(7)

	loc, err := m.Add(item.Item{ID: 1, Quantity: 1, Quality: item.Normal()})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	slot, err := m.At(loc)
	if err != nil {
		t.Fatalf("At() error = %v", err)
	}
	if slot.Item.ArrivalDay != 7 {
		t.Fatalf("ArrivalDay = %d, want 7", slot.Item.ArrivalDay)
	}
}

type recordingSink struct {
	kinds []string
}

func (s *recordingSink) Published(kind string, _ item.Item, _ warehouse.Location) {
	s.kinds = append(s.kinds, kind)
}

func TestManager_EventSinkReceivesAddAndRemove(t *testing.T) {
	sink := &recordingSink{}
	m := newTestManager(allocator.NewProximity(), WithEventSink(sink))

	loc, err := m.Add(item.Item{ID: 1, Quantity: 1, Quality: item.Normal()})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := m.Remove(loc); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if want := []string{"add", "remove"}; len(sink.kinds) != 2 || sink.kinds[0] != want[0] || sink.kinds[1] != want[1] {
		t.Fatalf("sink.kinds = %v, want %v", sink.kinds, want)
	}
}
