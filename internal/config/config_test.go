package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Allocator != AllocatorProximity {
		t.Fatalf("Allocator = %q, want %q", cfg.Allocator, AllocatorProximity)
	}
	if cfg.Dims.Rows <= 0 || cfg.Dims.Shelves <= 0 || cfg.Dims.Zones <= 0 {
		t.Fatalf("Dims = %+v, want all-positive", cfg.Dims)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("WAREHOUSE_ROWS", "3")
	t.Setenv("WAREHOUSE_SHELVES", "5")
	t.Setenv("WAREHOUSE_ZONES", "7")
	t.Setenv("WAREHOUSE_ALLOCATOR", "round_robin")
	t.Setenv("WAREHOUSE_MAX_QUANTITY", "10")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Dims.Rows != 3 || cfg.Dims.Shelves != 5 || cfg.Dims.Zones != 7 {
		t.Fatalf("Dims = %+v, want {3 5 7}", cfg.Dims)
	}
	if cfg.Allocator != AllocatorRoundRobin {
		t.Fatalf("Allocator = %q, want %q", cfg.Allocator, AllocatorRoundRobin)
	}
	if cfg.MaxQuantity != 10 {
		t.Fatalf("MaxQuantity = %d, want 10", cfg.MaxQuantity)
	}
}

func TestFromEnv_RejectsUnknownAllocator(t *testing.T) {
	t.Setenv("WAREHOUSE_ALLOCATOR", "nonsense")
	if _, err := FromEnv(); err == nil {
		t.Fatal("FromEnv() error = nil, want error for unknown allocator")
	}
}

func TestFromEnv_RejectsNonPositiveDims(t *testing.T) {
	t.Setenv("WAREHOUSE_ROWS", "0")
	if _, err := FromEnv(); err == nil {
		t.Fatal("FromEnv() error = nil, want error for zero rows")
	}
}
