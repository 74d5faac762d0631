// Package service wires the engine, queue, workers and store into the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rinkstats/internal/adapters/mq/queue"
	"github.com/okian/rinkstats/internal/adapters/mq/worker"
	"github.com/okian/rinkstats/internal/adapters/repository"
	"github.com/okian/rinkstats/internal/adapters/source"
	"github.com/okian/rinkstats/internal/adapters/teams"
	"github.com/okian/rinkstats/internal/domain/dedupe"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/summary"
	"github.com/okian/rinkstats/internal/domain/types"
	"github.com/okian/rinkstats/pkg/logger"
	"github.com/okian/rinkstats/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// Service accepts game submissions, computes them in the background and
// serves the stored reports.
type Service struct {
	mu sync.RWMutex

	engine  *gamestats.Engine
	store   repository.Store
	teams   *teams.Directory
	source  source.PlaysProvider
	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool

	workerCount int
	queueSize   int
	dedupeSize  int

	started bool
	logger  logger.Logger
}

// New constructs a Service. Unset components get in-memory defaults on
// Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1_000,
		dedupeSize:  10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the queue and dedupe cache and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.start"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.engine == nil {
		s.engine = gamestats.New(gamestats.WithLogger(s.logger.Named("engine")))
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.teams == nil {
		dir, err := teams.New(nil)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.teams = dir
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, s.engine, s.store,
		worker.WithFailureHandler(s.jobFailed),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "game service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("teams", s.teams.Len()),
		logger.Bool("source", s.source != nil),
	)
	return nil
}

// Stop drains queued games and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping game service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "error closing store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "game service stopped")
}

// jobFailed lets a game that failed to compute or store be submitted again.
func (s *Service) jobFailed(ctx context.Context, j queue.Job, err error) { //nolint:gocritic // hugeParam: jobs travel by value
	s.deduper.Forget(ctx, j.GameID)
	s.logger.Warn(ctx, "game not stored",
		logger.String("job_id", j.ID),
		logger.String("game_id", j.GameID),
		logger.String("kind", gamestats.ErrorKind(err)),
	)
}

// Submit validates a game and queues it for computation. A game id seen
// before is acknowledged as a duplicate and not queued again.
func (s *Service) Submit(ctx context.Context, sub types.Submission) (types.Receipt, error) {
	const op = "service.submit"

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.Receipt{}, types.ErrNotStarted
	}

	if err := sub.Validate(); err != nil {
		return types.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, _, err := summary.ParseGameID(sub.GameID); err != nil {
		return types.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}
	m, err := s.matchup(sub)
	if err != nil {
		return types.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.deduper.SeenAndRecord(ctx, sub.GameID) {
		metrics.RecordGameDuplicate()
		s.logger.Debug(ctx, "duplicate game submission", logger.String("game_id", sub.GameID))
		return types.Receipt{GameID: sub.GameID, Status: types.StatusDuplicate, Duplicate: true}, nil
	}

	job := model.GameJob{
		ID:          uuid.NewString(),
		GameID:      sub.GameID,
		Matchup:     m,
		Plays:       sub.Plays,
		SubmittedAt: time.Now(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.deduper.Forget(ctx, sub.GameID)
		return types.Receipt{}, fmt.Errorf("%s: %w: %w", op, types.ErrBackpressure, err)
	}
	s.logger.Debug(ctx, "game queued",
		logger.String("job_id", job.ID),
		logger.String("game_id", job.GameID),
		logger.Int("plays", len(job.Plays)),
	)
	return types.Receipt{JobID: job.ID, GameID: sub.GameID, Status: types.StatusAccepted}, nil
}

func (s *Service) matchup(sub types.Submission) (model.Matchup, error) {
	if sub.Matchup != nil {
		return *sub.Matchup, nil
	}
	return s.teams.Matchup(sub.AwayTeam, sub.HomeTeam)
}

// SubmitSaved queues a game read from the plays source.
func (s *Service) SubmitSaved(ctx context.Context, gameID string) (types.Receipt, error) {
	if s.source == nil {
		return types.Receipt{}, types.ErrNoSource
	}
	g, err := s.source.Load(ctx, gameID)
	if err != nil {
		return types.Receipt{}, err
	}
	return s.Submit(ctx, types.Submission{
		GameID:   g.GameID,
		AwayTeam: g.AwayTeam,
		HomeTeam: g.HomeTeam,
		Plays:    g.Plays,
	})
}

// Report returns the stored report of gameID.
func (s *Service) Report(ctx context.Context, gameID string) (*gamestats.Report, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, gameID)
}

// Games lists stored games ordered by id.
func (s *Service) Games(ctx context.Context, limit int) ([]repository.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, limit)
}

// Series aggregates the stored games of ids, in the order given.
func (s *Service) Series(ctx context.Context, ids []string) (summary.SeriesReport, error) {
	const op = "service.series"
	if err := s.ready(); err != nil {
		return summary.SeriesReport{}, err
	}
	recaps := make([]summary.Recap, 0, len(ids))
	for _, id := range ids {
		r, err := s.store.Get(ctx, id)
		if err != nil {
			return summary.SeriesReport{}, fmt.Errorf("%s: game %s: %w", op, id, err)
		}
		recaps = append(recaps, r.Recap())
	}
	return summary.Series(recaps)
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.ErrNotStarted
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["games"] = s.store.Count(ctx)
		stats["teams"] = s.teams.Len()
		stats["source"] = s.source != nil
	}
	return stats
}

// IsNotFound reports whether err means an unknown game.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, source.ErrGameNotFound)
}
