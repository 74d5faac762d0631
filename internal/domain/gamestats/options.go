package gamestats

import (
	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/rolling"
	"github.com/okian/rinkstats/internal/domain/timeline"
	"github.com/okian/rinkstats/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWeights sets the momentum weights.
func WithWeights(w rolling.Weights) Option {
	return func(e *Engine) {
		if w != (rolling.Weights{}) {
			e.weights = w
		}
	}
}

// WithFightingMajors controls whether fighting majors open penalty windows.
func WithFightingMajors(include bool) Option {
	return func(e *Engine) {
		e.includeFighting = include
	}
}

// WithMaxPeriod sets the deepest period accepted.
func WithMaxPeriod(p int) Option {
	return func(e *Engine) {
		if p >= 3 {
			e.maxPeriod = p
		}
	}
}

// WithSummaryStats sets the period table columns.
func WithSummaryStats(stats ...counters.Stat) Option {
	return func(e *Engine) {
		if len(stats) > 0 {
			e.summaryStats = stats
		}
	}
}

func defaults(e *Engine) {
	e.logger = logger.Nop()
	e.weights = rolling.DefaultWeights()
	e.includeFighting = true
	e.maxPeriod = timeline.DefaultMaxPeriod
}
