package summary

import (
	"fmt"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// GameType is the competition a game belongs to, read from its id.
type GameType string

// Game types.
const (
	PreSeason     GameType = "Pre-Season"
	RegularSeason GameType = "Regular Season"
	PostSeason    GameType = "Post-Season"
)

const (
	overtimePeriod = 4
	shootoutPeriod = 5
)

// Game is the headline report of one game.
type Game struct {
	GameID        string        `json:"game_id"`
	Season        string        `json:"season"`
	Type          GameType      `json:"game_type"`
	Matchup       model.Matchup `json:"matchup"`
	Overtime      bool          `json:"overtime"`
	Shootout      bool          `json:"shootout"`
	Score         [2]int        `json:"score"`
	Shots         [2]int        `json:"shots"`
	ShootoutGoals [2]int        `json:"shootout_goals"`
	Winner        string        `json:"winner,omitempty"`
}

// ParseGameID splits an upstream id such as 2021030415 into its season
// and game type.
func ParseGameID(id string) (string, GameType, error) {
	const op = "summary.parse_game_id"
	if len(id) < 6 {
		return "", "", fmt.Errorf("%s: %w: %q", op, ErrInvalidGameID, id)
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return "", "", fmt.Errorf("%s: %w: %q", op, ErrInvalidGameID, id)
		}
	}
	switch id[4:6] {
	case "01":
		return id[:4], PreSeason, nil
	case "02":
		return id[:4], RegularSeason, nil
	default:
		return id[:4], PostSeason, nil
	}
}

// GameSummary builds the headline report. Shootout attempts are kept out of
// goals and shots; the shootout winner is credited one goal.
func GameSummary(gameID string, tl *timeline.Timeline, m model.Matchup) (Game, error) {
	season, typ, err := ParseGameID(gameID)
	if err != nil {
		return Game{}, err
	}
	g := Game{
		GameID:   gameID,
		Season:   season,
		Type:     typ,
		Matchup:  m,
		Overtime: tl.HasPeriod(overtimePeriod),
		Shootout: tl.HasPeriod(shootoutPeriod) && typ != PostSeason,
	}

	var tot counters.Totals
	for _, e := range tl.Events() {
		side, ok := m.SideOf(e.Team)
		if !ok {
			continue
		}
		if g.Shootout && e.Period == shootoutPeriod {
			if e.Type == model.EventGoal {
				g.ShootoutGoals[side]++
			}
			continue
		}
		tot = tot.Apply(counters.Indicators(e, side)...)
	}
	for _, side := range model.Sides {
		g.Score[side] = tot[side][counters.Goals]
		g.Shots[side] = tot[side][counters.Shots]
	}
	if side, ok := g.ShootoutWinner(); ok {
		g.Score[side]++
	}
	switch {
	case g.Score[model.Home] > g.Score[model.Away]:
		g.Winner = m.Home.Abbrev
	case g.Score[model.Away] > g.Score[model.Home]:
		g.Winner = m.Away.Abbrev
	}
	return g, nil
}

// ShootoutWinner reports the side that won a regular-season shootout.
func (g Game) ShootoutWinner() (model.Side, bool) {
	if !g.Shootout {
		return 0, false
	}
	switch {
	case g.ShootoutGoals[model.Home] > g.ShootoutGoals[model.Away]:
		return model.Home, true
	case g.ShootoutGoals[model.Away] > g.ShootoutGoals[model.Home]:
		return model.Away, true
	}
	return 0, false
}
