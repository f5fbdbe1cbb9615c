// Package item defines the warehouse's item model: a typed, immutable value
// record plus the quality variant discriminating Normal / Fragile / Oversized
// storage semantics.
package item

import "fmt"

// Quality discriminates the storage semantics of an Item. Exactly one of
// Fragile or Oversized is non-nil at a time; neither set means Normal.
//
// Quality is a value type, not an interface: the set of variants is closed
// and small, and every consumer (allocator, filters, indexes) needs to
// switch on all three, so a tagged struct keeps that switch exhaustive and
// comparable without type assertions.
type Quality struct {
	Fragile   *Fragile
	Oversized *Oversized
}

// Fragile carries an expiry day and the highest row the item may occupy.
type Fragile struct {
	ExpiryDay int
	MaxRow    int
}

// Oversized carries the number of contiguous zones, within a single shelf,
// the item occupies.
type Oversized struct {
	Span int
}

// Normal returns the Quality for a plain item with no extra constraints.
func Normal() Quality { return Quality{} }

// NewFragile returns the Quality for a fragile item.
func NewFragile(expiryDay, maxRow int) Quality {
	return Quality{Fragile: &Fragile{ExpiryDay: expiryDay, MaxRow: maxRow}}
}

// NewOversized returns the Quality for an oversized item. span == 1 is legal
// (and semantically equivalent to Normal for placement purposes) but callers
// that care about span-aware bookkeeping must still treat it as Oversized.
func NewOversized(span int) Quality {
	return Quality{Oversized: &Oversized{Span: span}}
}

// IsFragile reports whether q is the Fragile variant.
func (q Quality) IsFragile() bool { return q.Fragile != nil }

// IsOversized reports whether q is the Oversized variant.
func (q Quality) IsOversized() bool { return q.Oversized != nil }

// Span returns the number of zones the item occupies: 1 for Normal and
// Fragile, Oversized.Span for Oversized.
func (q Quality) Span() int {
	if q.Oversized != nil {
		return q.Oversized.Span
	}
	return 1
}

// Item is an immutable value record. Once placed, neither its identity nor
// its quantity changes; removal returns the same value to the caller.
type Item struct {
	ID         int64
	Name       string
	Quantity   int
	ArrivalDay int // stamped by the manager at placement time, zero until then
	Quality    Quality
}

// Validate checks the structural constraints every Item must satisfy
// regardless of warehouse state (quantity positivity, span positivity).
// Warehouse-state-dependent constraints (row bounds, free zones) are the
// allocator's and filter chain's concern, not the item's.
func (it Item) Validate() error {
	if it.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", it.Quantity)
	}
	if it.Quality.IsOversized() && it.Quality.Oversized.Span < 1 {
		return fmt.Errorf("oversized span must be at least 1, got %d", it.Quality.Oversized.Span)
	}
	return nil
}

// String renders a short human-readable identity for logging, deliberately
// omitting quantity and quality detail.
func (it Item) String() string {
	return fmt.Sprintf("item{id=%d name=%q}", it.ID, it.Name)
}
