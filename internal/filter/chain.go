package filter

import "github.com/nilsson-hagberg/warehouse/internal/item"

// RejectedError names the filter that rejected a candidate and why. The
// manager surfaces it verbatim as the admission-denied outcome of a
// rejected add.
type RejectedError struct {
	Filter string
	Reason string
}

func (e *RejectedError) Error() string {
	return "filter: rejected by " + e.Filter + ": " + e.Reason
}

// Chain is an ordered, mutable list of filters. Admission requires every
// filter to accept; the first rejection short-circuits the rest. The
// chain may be appended to or cleared between Evaluate calls, but never
// concurrently with one. Append and Clear take no lock, and the manager's
// Filters accessor returns the chain without holding the manager's mutex,
// so callers that modify the chain must not do so while an Add runs.
type Chain struct {
	filters []Filter
}

// NewChain returns a chain seeded with the given filters, evaluated in the
// given order.
func NewChain(filters ...Filter) *Chain {
	c := &Chain{}
	c.filters = append(c.filters, filters...)
	return c
}

// Append adds f to the end of the chain.
func (c *Chain) Append(f Filter) {
	c.filters = append(c.filters, f)
}

// Clear removes every filter from the chain.
func (c *Chain) Clear() {
	c.filters = nil
}

// Filters returns a copy of the chain's filters, in evaluation order.
func (c *Chain) Filters() []Filter {
	out := make([]Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

// Evaluate runs every filter in order against it, short-circuiting on the
// first rejection. Returns nil if every filter accepts, or a
// *RejectedError naming the first filter to reject and its reason.
func (c *Chain) Evaluate(state State, it *item.Item) error {
	for _, f := range c.filters {
		if ok, reason := f.Evaluate(state, it); !ok {
			return &RejectedError{Filter: f.Name(), Reason: reason}
		}
	}
	return nil
}
