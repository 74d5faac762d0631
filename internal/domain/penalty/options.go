package penalty

import "github.com/okian/rinkstats/pkg/logger"

// Option applies a configuration option to the Walker.
type Option func(*Walker)

// WithFightingMajors controls whether fighting majors open a penalty window.
// When false they are skipped entirely, PIM included.
func WithFightingMajors(include bool) Option {
	return func(w *Walker) {
		w.includeFighting = include
	}
}

// WithLogger sets a custom logger for the walker.
func WithLogger(l logger.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.logger = l
		}
	}
}
