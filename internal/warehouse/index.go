package warehouse

import "sort"

// multiIndex maps a key to the multiset of anchor locations filed under it.
// It backs both the by-id and by-name indexes: same shape, same
// operations, different key type, so one generic type serves both instead
// of two near-identical hand-rolled maps.
type multiIndex[K comparable] struct {
	byKey map[K][]Location
}

func newMultiIndex[K comparable]() *multiIndex[K] {
	return &multiIndex[K]{byKey: make(map[K][]Location)}
}

// Add files loc under key.
func (m *multiIndex[K]) Add(key K, loc Location) {
	m.byKey[key] = append(m.byKey[key], loc)
}

// Remove deletes the first occurrence of loc filed under key. No-op if not
// present; callers are expected to only remove locations they know were
// added.
func (m *multiIndex[K]) Remove(key K, loc Location) {
	locs := m.byKey[key]
	for i, l := range locs {
		if l == loc {
			locs = append(locs[:i], locs[i+1:]...)
			break
		}
	}
	if len(locs) == 0 {
		delete(m.byKey, key)
		return
	}
	m.byKey[key] = locs
}

// Count reports whether key has any entries, and how many.
func (m *multiIndex[K]) Count(key K) (present bool, count int) {
	locs, ok := m.byKey[key]
	return ok && len(locs) > 0, len(locs)
}

// Locations returns a copy of the locations filed under key, in insertion
// order. Callers must not mutate the grid through the returned slice.
func (m *multiIndex[K]) Locations(key K) []Location {
	locs := m.byKey[key]
	out := make([]Location, len(locs))
	copy(out, locs)
	return out
}

// expiryBucket is one distinct expiry day and the anchors filed under it.
type expiryBucket struct {
	day  int
	locs []Location
}

// expiryIndex is an ordered mapping keyed by expiry day, supporting a
// prefix count ("how many Fragile anchors have expiry_day <= today") in
// O(log n + k) via binary search over a sorted run of per-day buckets, per
// the sub-linear prefix-count contract. A sorted
// slice is simpler than a balanced tree for the scale this manager targets
// and keeps insertion, removal, and prefix-count all within one small
// file.
type expiryIndex struct {
	buckets []expiryBucket // sorted ascending by day
}

func newExpiryIndex() *expiryIndex {
	return &expiryIndex{}
}

func (e *expiryIndex) search(day int) int {
	return sort.Search(len(e.buckets), func(i int) bool { return e.buckets[i].day >= day })
}

// Add files loc under the given expiry day.
func (e *expiryIndex) Add(day int, loc Location) {
	i := e.search(day)
	if i < len(e.buckets) && e.buckets[i].day == day {
		e.buckets[i].locs = append(e.buckets[i].locs, loc)
		return
	}
	e.buckets = append(e.buckets, expiryBucket{})
	copy(e.buckets[i+1:], e.buckets[i:])
	e.buckets[i] = expiryBucket{day: day, locs: []Location{loc}}
}

// Remove deletes loc from the given expiry day's bucket, dropping the
// bucket entirely once empty.
func (e *expiryIndex) Remove(day int, loc Location) {
	i := e.search(day)
	if i >= len(e.buckets) || e.buckets[i].day != day {
		return
	}
	locs := e.buckets[i].locs
	for j, l := range locs {
		if l == loc {
			locs = append(locs[:j], locs[j+1:]...)
			break
		}
	}
	if len(locs) == 0 {
		e.buckets = append(e.buckets[:i], e.buckets[i+1:]...)
		return
	}
	e.buckets[i].locs = locs
}

// CountUpTo returns the number of Fragile anchors whose expiry day is <=
// day.
func (e *expiryIndex) CountUpTo(day int) int {
	i := sort.Search(len(e.buckets), func(i int) bool { return e.buckets[i].day > day })
	count := 0
	for _, b := range e.buckets[:i] {
		count += len(b.locs)
	}
	return count
}

// NameEntry is one row of ListSortedByName's result: an item's name and id
// alongside the anchor location it was found at.
type NameEntry struct {
	Name string
	ID   int64
	Loc  Location
}

// Indexes bundles every secondary structure the manager keeps coherent
// with the grid: by-id, by-name, by-expiry, and the derived by-name-sorted
// view. It stores only plain Location values, never grid back-pointers —
// coherence is the manager's job, routed through one mutation path, not a
// responsibility the indexes share with each other.
type Indexes struct {
	byID     *multiIndex[int64]
	byName   *multiIndex[string]
	byExpiry *expiryIndex
	sorted   []NameEntry // kept sorted by (name, id, location) at all times
}

// NewIndexes returns a set of empty indexes.
func NewIndexes() *Indexes {
	return &Indexes{
		byID:     newMultiIndex[int64](),
		byName:   newMultiIndex[string](),
		byExpiry: newExpiryIndex(),
	}
}

// IndexIn files loc under every index applicable to it: always by-id and
// by-name, and by-expiry only if fragileExpiryDay is non-nil (a Fragile
// item's expiry day).
func (ix *Indexes) IndexIn(id int64, name string, loc Location, fragileExpiryDay *int) {
	ix.byID.Add(id, loc)
	ix.byName.Add(name, loc)
	if fragileExpiryDay != nil {
		ix.byExpiry.Add(*fragileExpiryDay, loc)
	}
	ix.insertSorted(NameEntry{Name: name, ID: id, Loc: loc})
}

// IndexOut removes every entry filed for loc under the same keys IndexIn
// used to file it.
func (ix *Indexes) IndexOut(id int64, name string, loc Location, fragileExpiryDay *int) {
	ix.byID.Remove(id, loc)
	ix.byName.Remove(name, loc)
	if fragileExpiryDay != nil {
		ix.byExpiry.Remove(*fragileExpiryDay, loc)
	}
	ix.removeSorted(NameEntry{Name: name, ID: id, Loc: loc})
}

// CountByID reports whether any item with id is stored, and how many.
func (ix *Indexes) CountByID(id int64) (present bool, count int) { return ix.byID.Count(id) }

// CountByName reports whether any item with name is stored, and how many.
func (ix *Indexes) CountByName(name string) (present bool, count int) { return ix.byName.Count(name) }

// LocateByID returns every anchor location filed under id.
func (ix *Indexes) LocateByID(id int64) []Location { return ix.byID.Locations(id) }

// LocateByName returns every anchor location filed under name.
func (ix *Indexes) LocateByName(name string) []Location { return ix.byName.Locations(name) }

// CountExpiringBy returns the number of Fragile anchors whose expiry day is
// <= day.
func (ix *Indexes) CountExpiringBy(day int) int { return ix.byExpiry.CountUpTo(day) }

// ListSortedByName returns every indexed item ascending by name, tied by
// id then by location, for deterministic ordering on ties.
func (ix *Indexes) ListSortedByName() []NameEntry {
	out := make([]NameEntry, len(ix.sorted))
	copy(out, ix.sorted)
	return out
}

func (ix *Indexes) insertSorted(e NameEntry) {
	i := sort.Search(len(ix.sorted), func(i int) bool { return !entryLess(ix.sorted[i], e) })
	ix.sorted = append(ix.sorted, NameEntry{})
	copy(ix.sorted[i+1:], ix.sorted[i:])
	ix.sorted[i] = e
}

func (ix *Indexes) removeSorted(e NameEntry) {
	for i, cur := range ix.sorted {
		if cur == e {
			ix.sorted = append(ix.sorted[:i], ix.sorted[i+1:]...)
			return
		}
	}
}

func entryLess(a, b NameEntry) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Loc.Less(b.Loc)
}
