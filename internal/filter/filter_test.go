package filter

import (
	"errors"
	"testing"

	"github.com/nilsson-hagberg/warehouse/internal/item"
)

type fakeState struct {
	nameCounts map[string]int
}

func (f fakeState) CountByName(name string) (bool, int) {
	c, ok := f.nameCounts[name]
	return ok && c > 0, c
}

func (f fakeState) CountByID(int64) (bool, int) { return false, 0 }

func TestChain_FirstRejectionShortCircuits(t *testing.T) {
	chain := NewChain(MaxQuantity{Max: 10}, NewForbiddenName("banned"))

	it := &item.Item{ID: 1, Name: "widget", Quantity: 11, Quality: item.Normal()}
	err := chain.Evaluate(fakeState{}, it)

	var rej *RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("Evaluate() error = %v, want *RejectedError", err)
	}
	if rej.Filter != "max_quantity" {
		t.Fatalf("rejecting filter = %q, want max_quantity", rej.Filter)
	}
}

func TestChain_AllAcceptReturnsNil(t *testing.T) {
	chain := NewChain(MaxQuantity{Max: 10}, NewForbiddenName("banned"))
	it := &item.Item{ID: 1, Name: "widget", Quantity: 5, Quality: item.Normal()}

	if err := chain.Evaluate(fakeState{}, it); err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}
}

func TestChain_ClearRemovesAllFilters(t *testing.T) {
	chain := NewChain(MaxQuantity{Max: 1})
	chain.Clear()
	it := &item.Item{ID: 1, Name: "widget", Quantity: 99, Quality: item.Normal()}

	if err := chain.Evaluate(fakeState{}, it); err != nil {
		t.Fatalf("Evaluate() on empty chain error = %v, want nil", err)
	}
}

func TestFragileRowPolicy_IgnoresNonFragile(t *testing.T) {
	f := FragileRowPolicy{MaxAllowedMaxRow: 0}
	it := &item.Item{ID: 1, Quantity: 1, Quality: item.Normal()}
	ok, _ := f.Evaluate(fakeState{}, it)
	if !ok {
		t.Fatal("FragileRowPolicy must accept non-Fragile items regardless of policy")
	}
}

func TestFragileRowPolicy_RejectsOverPolicyMaxRow(t *testing.T) {
	f := FragileRowPolicy{MaxAllowedMaxRow: 2}
	it := &item.Item{ID: 1, Quantity: 1, Quality: item.NewFragile(10, 3)}
	ok, reason := f.Evaluate(fakeState{}, it)
	if ok {
		t.Fatalf("expected rejection, got accept (reason=%q)", reason)
	}
}

func TestDuplicateNameLimit(t *testing.T) {
	f := DuplicateNameLimit{Max: 2}
	state := fakeState{nameCounts: map[string]int{"widget": 2}}
	it := &item.Item{ID: 1, Name: "widget", Quantity: 1, Quality: item.Normal()}

	ok, _ := f.Evaluate(state, it)
	if ok {
		t.Fatal("expected rejection once name count reaches Max")
	}
}

func TestStructTagPolicy_RejectsZeroQuantity(t *testing.T) {
	p := NewStructTagPolicy()
	it := &item.Item{ID: 1, Name: "widget", Quantity: 0, Quality: item.Normal()}
	ok, reason := p.Evaluate(fakeState{}, it)
	if ok {
		t.Fatalf("expected rejection for zero quantity, got accept (reason=%q)", reason)
	}
}

func TestStructTagPolicy_AcceptsValidItem(t *testing.T) {
	p := NewStructTagPolicy()
	it := &item.Item{ID: 1, Name: "widget", Quantity: 5, Quality: item.Normal()}
	ok, reason := p.Evaluate(fakeState{}, it)
	if !ok {
		t.Fatalf("expected acceptance, got rejection (reason=%q)", reason)
	}
}
