// Package types contains the request and response shapes shared by the
// service and its transports.
package types

import (
	"errors"
	"strings"

	"github.com/okian/rinkstats/internal/domain/model"
)

// Validation errors for submissions.
var (
	ErrMissingGameID = errors.New("missing game_id")
	ErrMissingTeams  = errors.New("missing teams: give matchup or away_team and home_team")
	ErrMissingPlays  = errors.New("missing plays")
)

// Service availability errors shared with transports.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("backpressure")
	ErrNoSource     = errors.New("no plays source configured")
)

// Submission is one game handed in for computation. Teams come either as a
// full matchup or as names/abbreviations resolved through the team
// directory.
type Submission struct {
	GameID   string           `json:"game_id"`
	Matchup  *model.Matchup   `json:"matchup,omitempty"`
	AwayTeam string           `json:"away_team,omitempty"`
	HomeTeam string           `json:"home_team,omitempty"`
	Plays    []model.RawEvent `json:"plays"`
}

// Validate checks that the submission names a game, its teams and plays.
func (s *Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.GameID) == "":
		return ErrMissingGameID
	case s.Matchup == nil && (strings.TrimSpace(s.AwayTeam) == "" || strings.TrimSpace(s.HomeTeam) == ""):
		return ErrMissingTeams
	case len(s.Plays) == 0:
		return ErrMissingPlays
	}
	return nil
}

// Receipt acknowledges a submission.
type Receipt struct {
	JobID     string `json:"job_id,omitempty"`
	GameID    string `json:"game_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Receipt statuses.
const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)
