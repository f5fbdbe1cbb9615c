// Package filter implements the admission chain gating what the manager
// will accept into the warehouse. A filter is a read-only predicate over
// (warehouse state, candidate item); the chain runs every filter in order
// and stops at the first rejection.
package filter

import "github.com/nilsson-hagberg/warehouse/internal/item"

// State is the read-only view of warehouse occupancy a filter may
// consult. It is defined here, not in the manager package, so that
// filter has no dependency on manager — the manager satisfies this
// interface with its own indexes, keeping the dependency direction
// manager -> filter, never the reverse.
type State interface {
	// CountByName reports whether any item with the given name is
	// currently stored, and how many.
	CountByName(name string) (present bool, count int)
	// CountByID reports whether any item with the given id is currently
	// stored, and how many.
	CountByID(id int64) (present bool, count int)
}

// Filter is the admission predicate contract. Evaluate must not mutate
// anything it is given; Reason is shown to the caller only when Evaluate
// returns false.
type Filter interface {
	// Name identifies the filter in a RejectedError, so callers can tell
	// which policy blocked a candidate.
	Name() string
	// Evaluate reports whether it may be admitted given state, and, if
	// not, why.
	Evaluate(state State, it *item.Item) (ok bool, reason string)
}
