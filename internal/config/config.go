// Package config resolves process configuration from the environment, the
// same inline os.Getenv convention cmd/zmux-server/main.go uses for its own
// dev/prod switches, gathered here into one place since the warehouse
// server has more than a couple of knobs to read.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

// Allocator names the allocator strategy chosen at boot.
type Allocator string

const (
	AllocatorProximity  Allocator = "proximity"
	AllocatorRoundRobin Allocator = "round_robin"
)

// Config is everything cmd/warehouse-server needs to wire a Manager and an
// HTTP server around it.
type Config struct {
	Dims      warehouse.Dims
	Allocator Allocator

	MaxQuantity int // 0 disables the MaxQuantity filter

	RedisAddr    string // empty disables the Redis event sink
	RedisDB      int
	EventChannel string

	HTTPAddr string
	Env      string // "dev" enables permissive CORS, as in cmd/zmux-server
}

// defaults mirror a small 4x4x8 warehouse: enough to exercise
// every placement rule without requiring the operator to set anything.
func defaults() Config {
	return Config{
		Dims:         warehouse.Dims{Rows: 4, Shelves: 4, Zones: 8},
		Allocator:    AllocatorProximity,
		MaxQuantity:  0,
		RedisDB:      0,
		EventChannel: "warehouse:events",
		HTTPAddr:     ":8080",
		Env:          "prod",
	}
}

// FromEnv reads WAREHOUSE_* variables over the defaults. Malformed integer
// or enum values are reported as errors rather than silently ignored, since
// a misconfigured dimension changes placement results for every request.
func FromEnv() (Config, error) {
	cfg := defaults()

	if v, ok := os.LookupEnv("WAREHOUSE_ROWS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: WAREHOUSE_ROWS: %w", err)
		}
		cfg.Dims.Rows = n
	}
	if v, ok := os.LookupEnv("WAREHOUSE_SHELVES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: WAREHOUSE_SHELVES: %w", err)
		}
		cfg.Dims.Shelves = n
	}
	if v, ok := os.LookupEnv("WAREHOUSE_ZONES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: WAREHOUSE_ZONES: %w", err)
		}
		cfg.Dims.Zones = n
	}

	if v, ok := os.LookupEnv("WAREHOUSE_ALLOCATOR"); ok {
		switch Allocator(v) {
		case AllocatorProximity, AllocatorRoundRobin:
			cfg.Allocator = Allocator(v)
		default:
			return Config{}, fmt.Errorf("config: WAREHOUSE_ALLOCATOR: unknown strategy %q", v)
		}
	}

	if v, ok := os.LookupEnv("WAREHOUSE_MAX_QUANTITY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: WAREHOUSE_MAX_QUANTITY: %w", err)
		}
		cfg.MaxQuantity = n
	}

	if v, ok := os.LookupEnv("WAREHOUSE_REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := os.LookupEnv("WAREHOUSE_REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: WAREHOUSE_REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}
	if v, ok := os.LookupEnv("WAREHOUSE_EVENT_CHANNEL"); ok {
		cfg.EventChannel = v
	}

	if v, ok := os.LookupEnv("WAREHOUSE_HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := os.LookupEnv("ENV"); ok {
		cfg.Env = v
	}

	if cfg.Dims.Rows <= 0 || cfg.Dims.Shelves <= 0 || cfg.Dims.Zones <= 0 {
		return Config{}, fmt.Errorf("config: dimensions must all be positive, got %+v", cfg.Dims)
	}

	return cfg, nil
}
