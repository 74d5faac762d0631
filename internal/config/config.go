// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Validation failures wrap ErrInvalidConfig; loading failures wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/rolling"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory game job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of compute workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreDriver selects the report store: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the sqlite database path.
	StoreDSN string `koanf:"store_dsn"`

	// DataDir is the root of saved play files, laid out as <season>/<game_id>/plays.json.
	DataDir string `koanf:"data_dir"`

	// IncludeFightingMajors opens penalty windows for fighting majors.
	IncludeFightingMajors bool `koanf:"include_fighting_majors"`

	// MomentumWeights maps goal, shot, hit and attempt to their momentum weight.
	MomentumWeights map[string]float64 `koanf:"momentum_weights"`

	// MaxPeriod is the deepest period accepted before a game is rejected.
	MaxPeriod int `koanf:"max_period"`

	// Teams is the team directory with arena direction-of-play flags.
	Teams []model.Team `koanf:"teams"`
}

// New creates a Config with defaults. Context is reserved for future use.
func New(_ context.Context) *Config {
	w := rolling.DefaultWeights()
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		QueueSize:             1_000,
		WorkerCount:           runtime.NumCPU(),
		DedupeSize:            10_000,
		StoreDriver:           DriverMemory,
		DataDir:               "Data",
		IncludeFightingMajors: true,
		MomentumWeights: map[string]float64{
			"goal":    w.Goal,
			"shot":    w.Shot,
			"hit":     w.Hit,
			"attempt": w.Attempt,
		},
		MaxPeriod: timeline.DefaultMaxPeriod,
	}
}

// Weights returns the momentum weights, falling back to defaults for
// missing keys.
func (c *Config) Weights() rolling.Weights {
	w := rolling.DefaultWeights()
	if v, ok := c.MomentumWeights["goal"]; ok {
		w.Goal = v
	}
	if v, ok := c.MomentumWeights["shot"]; ok {
		w.Shot = v
	}
	if v, ok := c.MomentumWeights["hit"]; ok {
		w.Hit = v
	}
	if v, ok := c.MomentumWeights["attempt"]; ok {
		w.Attempt = v
	}
	return w
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.MaxPeriod < 3:
		return fmt.Errorf("%w: max_period must be at least 3", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	for k, v := range c.MomentumWeights {
		if v < 0 {
			return fmt.Errorf("%w: momentum weight %s is negative", ErrInvalidConfig, k)
		}
	}
	seen := make(map[string]struct{}, len(c.Teams))
	for _, t := range c.Teams {
		if t.Abbrev == "" || t.Name == "" {
			return fmt.Errorf("%w: team entries need a name and an abbrev", ErrInvalidConfig)
		}
		if _, dup := seen[t.Abbrev]; dup {
			return fmt.Errorf("%w: duplicate team %s", ErrInvalidConfig, t.Abbrev)
		}
		seen[t.Abbrev] = struct{}{}
	}
	return nil
}
