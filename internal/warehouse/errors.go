package warehouse

import "errors"

// Sentinel errors returned by grid operations. Callers should match them
// with errors.Is; every failing path here leaves the grid exactly as it was
// before the call.
var (
	// ErrInvalidLocation means the coordinates are out of range for the
	// grid's dimensions.
	ErrInvalidLocation = errors.New("warehouse: invalid location")

	// ErrNotAnchor means the targeted zone is a tail slot, not an anchor,
	// so it cannot be the target of a removal.
	ErrNotAnchor = errors.New("warehouse: location is not an anchor")

	// ErrEmpty means the targeted zone holds no item.
	ErrEmpty = errors.New("warehouse: location is empty")
)

// ConstraintError reports a placement that would violate a structural
// invariant: a Fragile row bound, or an Oversized span overflowing its
// shelf or colliding with a non-empty zone. Grid.Claim returns it; the
// manager's PlaceAt, which bypasses the allocator and filter chain,
// relies on that check and hands the error back to its caller.
type ConstraintError struct {
	Reason string
}

func (e *ConstraintError) Error() string { return "warehouse: constraint violated: " + e.Reason }
