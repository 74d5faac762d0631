package service

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/rinkstats/internal/adapters/repository"
	"github.com/okian/rinkstats/internal/adapters/source"
	"github.com/okian/rinkstats/internal/adapters/teams"
	"github.com/okian/rinkstats/internal/config"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of compute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued games.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submitted game ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine sets the compute engine.
func WithEngine(e *gamestats.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithStore sets the report store. The service closes it on Stop.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithTeams sets the team directory used to resolve submitted team names.
func WithTeams(d *teams.Directory) Option {
	return func(s *Service) {
		if d != nil {
			s.teams = d
		}
	}
}

// WithSource sets where saved games are loaded from.
func WithSource(p source.PlaysProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.source = p
		}
	}
}

// FromConfig translates cfg into service options, opening the configured
// store and building the engine and team directory.
func FromConfig(ctx context.Context, cfg *config.Config, l logger.Logger) ([]Option, error) {
	const op = "service.from_config"
	if l == nil {
		l = logger.Get()
	}

	dir, err := teams.New(cfg.Teams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var st repository.Store
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		if st, err = repository.NewSQLiteStore(ctx, cfg.StoreDSN); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	default:
		st = repository.NewMemoryStore()
	}

	engine := gamestats.New(
		gamestats.WithLogger(l.Named("engine")),
		gamestats.WithWeights(cfg.Weights()),
		gamestats.WithFightingMajors(cfg.IncludeFightingMajors),
		gamestats.WithMaxPeriod(cfg.MaxPeriod),
	)

	opts := []Option{
		WithLogger(l),
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithEngine(engine),
		WithStore(st),
		WithTeams(dir),
	}
	if info, err := os.Stat(cfg.DataDir); err == nil && info.IsDir() {
		opts = append(opts, WithSource(source.NewDir(cfg.DataDir)))
	}
	return opts, nil
}
