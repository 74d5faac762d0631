// Package gamestats runs the full per-game pipeline: timeline, counters,
// penalties, rolling windows, momentum and the summary reports.
package gamestats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/penalty"
	"github.com/okian/rinkstats/internal/domain/rink"
	"github.com/okian/rinkstats/internal/domain/rolling"
	"github.com/okian/rinkstats/internal/domain/summary"
	"github.com/okian/rinkstats/internal/domain/timeline"
	"github.com/okian/rinkstats/pkg/logger"
	"github.com/okian/rinkstats/pkg/metrics"
)

// Input is one game to compute.
type Input struct {
	GameID  string
	Matchup model.Matchup
	Plays   []model.RawEvent
}

// Report is everything computed for one game. Timeline and Counters are
// kept in memory only.
type Report struct {
	GameID     string                   `json:"game_id"`
	Game       summary.Game             `json:"game"`
	Events     []model.Event            `json:"events"`
	Final      [2]map[counters.Stat]int `json:"final"`
	Intervals  [2][]penalty.Interval    `json:"intervals"`
	Rolling    []rolling.Table          `json:"rolling"`
	Momentum   []rolling.MomentumPoint  `json:"momentum"`
	Summary    summary.Table            `json:"summary"`
	Goals      summary.GoalLog          `json:"goals"`
	Rink       rink.Map                 `json:"rink"`
	Series     counters.Series          `json:"series"`
	ComputedAt time.Time                `json:"computed_at"`

	Timeline *timeline.Timeline `json:"-"`
	Counters *counters.Table    `json:"-"`
}

// Recap returns what a series aggregate needs from the report.
func (r *Report) Recap() summary.Recap {
	return summary.Recap{Game: r.Game, Table: r.Summary}
}

// Engine computes game reports. It holds no per-game state and is safe for
// concurrent use.
type Engine struct {
	logger          logger.Logger
	weights         rolling.Weights
	includeFighting bool
	maxPeriod       int
	summaryStats    []counters.Stat
	walker          *penalty.Walker
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	defaults(e)
	for _, opt := range opts {
		opt(e)
	}
	e.walker = penalty.NewWalker(
		penalty.WithFightingMajors(e.includeFighting),
		penalty.WithLogger(e.logger.Named("penalty")),
	)
	return e
}

// Compute runs the pipeline for one game.
func (e *Engine) Compute(ctx context.Context, in Input) (*Report, error) {
	const op = "gamestats.compute"
	start := time.Now()

	rep, err := e.compute(ctx, in)
	if err != nil {
		metrics.RecordComputeError(ErrorKind(err))
		e.logger.Error(ctx, "game failed",
			logger.String("game_id", in.GameID),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%s: game %s: %w", op, in.GameID, err)
	}

	elapsed := time.Since(start)
	metrics.RecordGameComputed(string(rep.Game.Type), elapsed)
	e.logger.Info(ctx, "game computed",
		logger.String("game_id", in.GameID),
		logger.Int("events", len(rep.Events)),
		logger.Int("rows", rep.Timeline.Len()),
		logger.String("winner", rep.Game.Winner),
		logger.Duration("elapsed", elapsed),
	)
	return rep, nil
}

func (e *Engine) compute(ctx context.Context, in Input) (*Report, error) {
	if len(in.Plays) == 0 {
		return nil, model.ErrNoEvents
	}
	tl, err := timeline.Build(in.Plays, timeline.WithMaxPeriod(e.maxPeriod))
	if err != nil {
		return nil, err
	}
	game, err := summary.GameSummary(in.GameID, tl, in.Matchup)
	if err != nil {
		return nil, err
	}
	table, err := counters.Aggregate(tl, in.Matchup)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pen, err := e.walker.Walk(ctx, tl, in.Matchup)
	if err != nil {
		return nil, err
	}
	table = pen.Apply(table)

	tables := rolling.ComputeAll(tl, table)
	momentum, err := rolling.Momentum(tables, e.weights)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		GameID:     in.GameID,
		Game:       game,
		Events:     tl.Events(),
		Intervals:  pen.Intervals,
		Rolling:    tables,
		Momentum:   momentum,
		Summary:    summary.Summarize(tl, table, game, e.summaryStats...),
		Goals:      summary.Goals(tl, table, in.Matchup),
		Rink:       rink.Build(tl, in.Matchup),
		Series:     counters.Sample(tl, table),
		ComputedAt: time.Now().UTC(),
		Timeline:   tl,
		Counters:   table,
	}
	last := table.At(table.Len() - 1)
	for _, side := range model.Sides {
		rep.Final[side] = make(map[counters.Stat]int, counters.NumStats)
		for s := counters.Stat(0); s < counters.NumStats; s++ {
			rep.Final[side][s] = last[side][s]
		}
	}

	metrics.RecordEventsNormalized(len(rep.Events))
	metrics.RecordPenaltiesWalked(pen.Walked)
	metrics.RecordSpecialTeamsGoals(
		last[model.Away][counters.PPG]+last[model.Home][counters.PPG],
		last[model.Away][counters.SHG]+last[model.Home][counters.SHG],
	)
	return rep, nil
}

// Error kinds reported by ErrorKind.
const (
	KindMalformedEvent     = "malformed_event"
	KindUnresolvedOpponent = "unresolved_opponent"
	KindUnsupportedPeriod  = "unsupported_period"
	KindNoEvents           = "no_events"
	KindInvalidGameID      = "invalid_game_id"
	KindCanceled           = "canceled"
	KindInternal           = "internal"
)

// ErrorKind classifies a compute error for metrics and transport mapping.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrMalformedEvent):
		return KindMalformedEvent
	case errors.Is(err, model.ErrUnresolvedOpponent):
		return KindUnresolvedOpponent
	case errors.Is(err, model.ErrUnsupportedPeriod):
		return KindUnsupportedPeriod
	case errors.Is(err, model.ErrNoEvents):
		return KindNoEvents
	case errors.Is(err, summary.ErrInvalidGameID):
		return KindInvalidGameID
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
