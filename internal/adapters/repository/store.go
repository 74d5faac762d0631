// Package repository stores computed game reports.
package repository

import (
	"context"
	"time"

	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/summary"
)

// Entry is the listing row of a stored game.
type Entry struct {
	GameID     string           `json:"game_id"`
	Season     string           `json:"season"`
	Type       summary.GameType `json:"game_type"`
	Away       string           `json:"away"`
	Home       string           `json:"home"`
	Score      [2]int           `json:"score"`
	Winner     string           `json:"winner,omitempty"`
	ComputedAt time.Time        `json:"computed_at"`
}

// Store provides read/write access to computed reports.
type Store interface {
	// Put saves r, replacing any report with the same game id.
	Put(ctx context.Context, r *gamestats.Report) error

	// Get returns the report of gameID.
	// Returns ErrNotFound if the game is unknown.
	Get(ctx context.Context, gameID string) (*gamestats.Report, error)

	// List returns up to limit entries ordered by game id. A zero limit
	// lists every game.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Count returns the number of stored games.
	Count(ctx context.Context) int

	// Close releases the store's resources.
	Close() error
}

func entryOf(r *gamestats.Report) Entry {
	return Entry{
		GameID:     r.GameID,
		Season:     r.Game.Season,
		Type:       r.Game.Type,
		Away:       r.Game.Matchup.Team(model.Away).Abbrev,
		Home:       r.Game.Matchup.Team(model.Home).Abbrev,
		Score:      r.Game.Score,
		Winner:     r.Game.Winner,
		ComputedAt: r.ComputedAt,
	}
}

func validate(r *gamestats.Report) error {
	if r == nil || r.GameID == "" {
		return ErrInvalidReport
	}
	return nil
}
