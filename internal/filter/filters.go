package filter

import (
	"fmt"

	validator "github.com/go-playground/validator/v10"

	"github.com/nilsson-hagberg/warehouse/internal/item"
)

// MaxQuantity rejects items whose quantity exceeds Max.
type MaxQuantity struct {
	Max int
}

func (MaxQuantity) Name() string { return "max_quantity" }

func (f MaxQuantity) Evaluate(_ State, it *item.Item) (bool, string) {
	if it.Quantity > f.Max {
		return false, fmt.Sprintf("quantity %d exceeds maximum %d", it.Quantity, f.Max)
	}
	return true, ""
}

// ForbiddenName rejects items whose name is in Names.
type ForbiddenName struct {
	Names map[string]struct{}
}

// NewForbiddenName builds a ForbiddenName filter from a plain name list.
func NewForbiddenName(names ...string) ForbiddenName {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return ForbiddenName{Names: set}
}

func (ForbiddenName) Name() string { return "forbidden_name" }

func (f ForbiddenName) Evaluate(_ State, it *item.Item) (bool, string) {
	if _, blocked := f.Names[it.Name]; blocked {
		return false, fmt.Sprintf("name %q is forbidden", it.Name)
	}
	return true, ""
}

// FragileRowPolicy caps how high (far from base) a Fragile item's MaxRow
// bound may be set, as a facility-level policy independent of the
// allocator's own row-bound enforcement. MaxAllowedMaxRow is the largest
// MaxRow a Fragile item may declare; it does not apply to Normal or
// Oversized items.
type FragileRowPolicy struct {
	MaxAllowedMaxRow int
}

func (FragileRowPolicy) Name() string { return "fragile_row_policy" }

func (f FragileRowPolicy) Evaluate(_ State, it *item.Item) (bool, string) {
	fr := it.Quality.Fragile
	if fr == nil {
		return true, ""
	}
	if fr.MaxRow > f.MaxAllowedMaxRow {
		return false, fmt.Sprintf("fragile max_row %d exceeds facility policy %d", fr.MaxRow, f.MaxAllowedMaxRow)
	}
	return true, ""
}

// OversizedSpanPolicy caps how many zones a single Oversized item may
// claim, independent of the physical Zones-per-shelf bound the grid
// already enforces.
type OversizedSpanPolicy struct {
	MaxSpan int
}

func (OversizedSpanPolicy) Name() string { return "oversized_span_policy" }

func (f OversizedSpanPolicy) Evaluate(_ State, it *item.Item) (bool, string) {
	ov := it.Quality.Oversized
	if ov == nil {
		return true, ""
	}
	if ov.Span > f.MaxSpan {
		return false, fmt.Sprintf("oversized span %d exceeds facility policy %d", ov.Span, f.MaxSpan)
	}
	return true, ""
}

// DuplicateNameLimit rejects an item if the warehouse already holds Max or
// more items sharing its name. Unlike the other filters here, it consults
// State rather than only the candidate, so it is grounded on the shape of
// a uniqueness policy rather than a pure field check.
type DuplicateNameLimit struct {
	Max int
}

func (DuplicateNameLimit) Name() string { return "duplicate_name_limit" }

func (f DuplicateNameLimit) Evaluate(state State, it *item.Item) (bool, string) {
	_, count := state.CountByName(it.Name)
	if count >= f.Max {
		return false, fmt.Sprintf("name %q already has %d stored, limit is %d", it.Name, count, f.Max)
	}
	return true, ""
}

// shadowItem mirrors Item's structural constraints as validator tags, so
// StructTagPolicy can delegate to go-playground/validator instead of
// hand-rolled field checks — the way this corpus's HTTP layer leans on the
// same library for request DTOs, generalized here to a filter-chain
// member instead of a decode-time check.
type shadowItem struct {
	Name     string `validate:"max=100"`
	Quantity int    `validate:"required,gt=0"`
}

// StructTagPolicy runs the item's structural fields through a shared
// validator.Validate instance. It exists alongside Item.Validate (called
// unconditionally by the manager before the chain runs) to demonstrate a
// chain member whose acceptance rule comes from struct tags rather than
// hand-written Go, the way the rest of this corpus prefers a validation
// library over ad hoc checks wherever one fits.
type StructTagPolicy struct {
	validate *validator.Validate
}

// NewStructTagPolicy returns a StructTagPolicy backed by a fresh validator
// instance. Safe to share; validator.Validate is stateless after
// construction.
func NewStructTagPolicy() *StructTagPolicy {
	return &StructTagPolicy{validate: validator.New()}
}

func (*StructTagPolicy) Name() string { return "struct_tag_policy" }

func (p *StructTagPolicy) Evaluate(_ State, it *item.Item) (bool, string) {
	shadow := shadowItem{Name: it.Name, Quantity: it.Quantity}
	if err := p.validate.Struct(shadow); err != nil {
		return false, err.Error()
	}
	return true, ""
}
