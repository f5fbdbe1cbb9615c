// Package manager implements the warehouse facade: the sole mutator of the
// grid and its indexes, and the place every add/remove/query call passes
// through. It owns the active allocator strategy and filter chain and keeps
// both swappable without invalidating anything already stored.
package manager

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nilsson-hagberg/warehouse/internal/allocator"
	"github.com/nilsson-hagberg/warehouse/internal/filter"
	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

// Manager is the core's single entry point. The core itself is
// single-threaded and synchronous: every exported method runs to completion
// before returning, and the embedded mutex exists solely so that a host
// serving concurrent callers (the HTTP demo layer, a TUI event loop) can
// wrap access without duplicating that guarantee itself. Nothing below the
// mutex assumes concurrent access.
type Manager struct {
	log *zap.Logger

	mu       sync.Mutex
	dims     warehouse.Dims
	grid     *warehouse.Grid
	indexes  *warehouse.Indexes
	strategy allocator.Strategy
	chain    *filter.Chain
	events   EventSink

	today int // advanced externally via AdvanceDay; stamps ArrivalDay
}

// EventSink receives a notification after each successful mutation. It is a
// side channel, never consulted for correctness: a Manager with the default
// discarding sink (see New) behaves identically to one with a recording
// sink. The sink is called unconditionally, so it must not be nil.
type EventSink interface {
	Published(kind string, it item.Item, loc warehouse.Location)
}

// nopSink discards every event; it is the default when New is not given one.
type nopSink struct{}

func (nopSink) Published(string, item.Item, warehouse.Location) {}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger attaches a logger other than zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithEventSink attaches a non-discarding event sink.
func WithEventSink(sink EventSink) Option {
	return func(m *Manager) { m.events = sink }
}

// WithFilterChain seeds the manager's filter chain. The zero chain accepts
// everything.
func WithFilterChain(c *filter.Chain) Option {
	return func(m *Manager) { m.chain = c }
}

// New constructs a Manager over an empty grid of the given dimensions using
// strategy as its initial allocator. Panics if dims is non-positive, via
// warehouse.NewGrid.
func New(dims warehouse.Dims, strategy allocator.Strategy, opts ...Option) *Manager {
	m := &Manager{
		log:      zap.NewNop(),
		dims:     dims,
		grid:     warehouse.NewGrid(dims),
		indexes:  warehouse.NewIndexes(),
		strategy: strategy,
		chain:    filter.NewChain(),
		events:   nopSink{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetStrategy swaps the active allocator. Existing indexes and grid content
// are untouched; a round-robin cursor being swapped in starts at the zero
// location, not wherever the outgoing strategy had reached.
func (m *Manager) SetStrategy(strategy allocator.Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategy = strategy
}

// Filters returns the manager's filter chain for append/clear calls in
// between operations.
func (m *Manager) Filters() *filter.Chain {
	return m.chain
}

// AdvanceDay sets the day stamped onto items placed by future Add calls.
// The core has no wall clock of its own; the host is expected to call this
// once per simulated day.
func (m *Manager) AdvanceDay(day int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.today = day
}

// Add runs the filter chain, then the active allocator, and on success
// writes the grid and every applicable index. it.ArrivalDay is stamped with
// the manager's current day and it.ID/Name/Quantity/Quality are otherwise
// stored as given.
//
// Returns the assigned anchor location, or:
//   - a *filter.RejectedError if some filter in the chain rejected it,
//   - allocator.ErrNoSpace if no location satisfies every constraint,
//   - an error from it.Validate() if the item itself is structurally invalid.
//
// Every failing path leaves the grid and indexes exactly as before the call.
func (m *Manager) Add(it item.Item) (warehouse.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := it.Validate(); err != nil {
		return warehouse.Location{}, fmt.Errorf("manager: invalid item: %w", err)
	}

	if err := m.chain.Evaluate(unlockedState{m.indexes}, &it); err != nil {
		m.log.Debug("add rejected", zap.Stringer("item", itemStringer{it}), zap.Error(err))
		return warehouse.Location{}, err
	}

	loc, err := m.strategy.Propose(m.grid, &it)
	if err != nil {
		m.log.Debug("add found no space", zap.Stringer("item", itemStringer{it}))
		return warehouse.Location{}, err
	}

	it.ArrivalDay = m.today
	if err := m.grid.Claim(loc, it.Quality.Span(), &it); err != nil {
		// The allocator just proposed loc as suitable; a Claim failure here
		// means Propose and CanClaim disagree, which is a strategy bug, not
		// a normal runtime outcome. Surface it rather than retrying.
		return warehouse.Location{}, fmt.Errorf("manager: allocator proposed unclaimable location: %w", err)
	}
	m.strategy.Commit(m.grid, loc, &it)
	m.indexIn(it, loc)

	m.log.Info("item added",
		zap.Stringer("item", itemStringer{it}),
		zap.Stringer("location", loc),
	)
	m.events.Published("add", it, loc)
	return loc, nil
}

// Remove releases the anchor at loc and removes every index entry filed
// against it. Returns the removed item, or warehouse.ErrInvalidLocation,
// warehouse.ErrEmpty, or warehouse.ErrNotAnchor.
func (m *Manager) Remove(loc warehouse.Location) (item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, err := m.grid.Release(loc)
	if err != nil {
		return item.Item{}, err
	}

	m.indexOut(*it, loc)
	m.log.Info("item removed", zap.Stringer("item", itemStringer{*it}), zap.Stringer("location", loc))
	m.events.Published("remove", *it, loc)
	return *it, nil
}

// PlaceAt bypasses the filter chain and allocator entirely and claims loc
// directly, for tests that need to set up warehouse state precisely. It
// still stamps ArrivalDay and updates every index, so the result is
// indistinguishable from a successful Add at that location.
//
// Returns warehouse.ErrInvalidLocation or a *warehouse.ConstraintError if
// loc or the span it covers cannot be claimed.
func (m *Manager) PlaceAt(loc warehouse.Location, it item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := it.Validate(); err != nil {
		return fmt.Errorf("manager: invalid item: %w", err)
	}

	it.ArrivalDay = m.today
	if err := m.grid.Claim(loc, it.Quality.Span(), &it); err != nil {
		var ce *warehouse.ConstraintError
		if errors.As(err, &ce) {
			return ce
		}
		return err
	}
	m.indexIn(it, loc)
	m.log.Info("item placed directly", zap.Stringer("item", itemStringer{it}), zap.Stringer("location", loc))
	m.events.Published("place_at", it, loc)
	return nil
}

// Allocate is a pure query: it returns the location an item would be
// placed at by the active strategy without mutating the grid, indexes, or
// the strategy's own internal cursor.
func (m *Manager) Allocate(it item.Item) (warehouse.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.strategy.Propose(m.grid, &it)
}

// CountByID reports whether any item with id is stored, and how many.
func (m *Manager) CountByID(id int64) (present bool, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexes.CountByID(id)
}

// CountByName reports whether any item with name is stored, and how many.
func (m *Manager) CountByName(name string) (present bool, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexes.CountByName(name)
}

// LocateByID returns every anchor location filed under id.
func (m *Manager) LocateByID(id int64) []warehouse.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexes.LocateByID(id)
}

// LocateByName returns every anchor location filed under name.
func (m *Manager) LocateByName(name string) []warehouse.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexes.LocateByName(name)
}

// ListSortedByName returns every stored item ascending by name, tied by id
// then by location.
func (m *Manager) ListSortedByName() []warehouse.NameEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexes.ListSortedByName()
}

// CountExpiringBy returns the number of Fragile items whose expiry day is
// <= day.
func (m *Manager) CountExpiringBy(day int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexes.CountExpiringBy(day)
}

// At returns the slot at loc, for callers (the demo HTTP layer, tests) that
// need to inspect occupancy directly rather than through an index.
func (m *Manager) At(loc warehouse.Location) (warehouse.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.At(loc)
}

// Dims returns the warehouse's fixed dimensions.
func (m *Manager) Dims() warehouse.Dims { return m.dims }

// indexIn files it into every applicable index. Caller must hold m.mu.
func (m *Manager) indexIn(it item.Item, loc warehouse.Location) {
	m.indexes.IndexIn(it.ID, it.Name, loc, fragileExpiryDay(it))
}

// indexOut removes it's entries from every applicable index. Caller must
// hold m.mu.
func (m *Manager) indexOut(it item.Item, loc warehouse.Location) {
	m.indexes.IndexOut(it.ID, it.Name, loc, fragileExpiryDay(it))
}

// unlockedState satisfies filter.State by reading the indexes directly,
// without taking m.mu: the chain is always evaluated from inside a method
// that already holds the lock, and Go's sync.Mutex is not reentrant.
type unlockedState struct {
	indexes *warehouse.Indexes
}

func (s unlockedState) CountByName(name string) (present bool, count int) {
	return s.indexes.CountByName(name)
}

func (s unlockedState) CountByID(id int64) (present bool, count int) {
	return s.indexes.CountByID(id)
}

func fragileExpiryDay(it item.Item) *int {
	if it.Quality.Fragile == nil {
		return nil
	}
	day := it.Quality.Fragile.ExpiryDay
	return &day
}

// itemStringer adapts item.Item's String method to zap.Stringer without
// copying the item a second time per log call.
type itemStringer struct{ it item.Item }

func (s itemStringer) String() string { return s.it.String() }
