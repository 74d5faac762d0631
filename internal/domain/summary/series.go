package summary

import (
	"fmt"
	"math"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
)

// Recap is what Series needs from one computed game.
type Recap struct {
	Game  Game  `json:"game"`
	Table Table `json:"table"`
}

// SeriesGame is one row of the series game list.
type SeriesGame struct {
	Number    int    `json:"number"`
	GameID    string `json:"game_id"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	HomeShots int    `json:"home_shots"`
	AwayShots int    `json:"away_shots"`
	Winner    string `json:"winner,omitempty"`
	Overtime  bool   `json:"overtime"`
	Shootout  bool   `json:"shootout"`
}

// TeamTotals sums one team's game-total lines across a series.
type TeamTotals struct {
	Team           string                    `json:"team"`
	Wins           int                       `json:"wins"`
	Values         map[counters.Stat]int     `json:"values"`
	PerGame        map[counters.Stat]float64 `json:"per_game"`
	ShotPct        float64                   `json:"shot_pct"`
	ShotAttemptPct float64                   `json:"shot_attempt_pct"`
	FaceoffPct     float64                   `json:"faceoff_pct"`
}

// SeriesReport aggregates several games between the same two teams. Teams
// are ordered as home then away of the first game.
type SeriesReport struct {
	Games []SeriesGame  `json:"games"`
	Teams [2]TeamTotals `json:"teams"`
}

// Series aggregates recaps in the order given.
func Series(recaps []Recap) (SeriesReport, error) {
	const op = "summary.series"
	if len(recaps) == 0 {
		return SeriesReport{}, fmt.Errorf("%s: %w", op, ErrNoGames)
	}
	first := recaps[0].Game.Matchup
	var rep SeriesReport
	index := map[string]int{first.Home.Abbrev: 0, first.Away.Abbrev: 1}
	for i := range rep.Teams {
		rep.Teams[i].Values = make(map[counters.Stat]int)
		rep.Teams[i].PerGame = make(map[counters.Stat]float64)
	}
	rep.Teams[0].Team = first.Home.Abbrev
	rep.Teams[1].Team = first.Away.Abbrev
	var credited [2]int

	for n, r := range recaps {
		g := r.Game
		_, okHome := index[g.Matchup.Home.Abbrev]
		_, okAway := index[g.Matchup.Away.Abbrev]
		if !okHome || !okAway || g.Matchup.Home.Abbrev == g.Matchup.Away.Abbrev {
			return SeriesReport{}, fmt.Errorf("%s: %w: game %s", op, ErrMixedTeams, g.GameID)
		}
		rep.Games = append(rep.Games, SeriesGame{
			Number:    n + 1,
			GameID:    g.GameID,
			Home:      g.Matchup.Home.Abbrev,
			Away:      g.Matchup.Away.Abbrev,
			HomeScore: g.Score[model.Home],
			AwayScore: g.Score[model.Away],
			HomeShots: g.Shots[model.Home],
			AwayShots: g.Shots[model.Away],
			Winner:    g.Winner,
			Overtime:  g.Overtime,
			Shootout:  g.Shootout,
		})
		if g.Winner != "" {
			rep.Teams[index[g.Winner]].Wins++
		}
		if side, ok := g.ShootoutWinner(); ok {
			credited[index[g.Matchup.Team(side).Abbrev]]++
		}
		for _, l := range r.Table.Lines {
			if l.Period != GameTotal {
				continue
			}
			tt := &rep.Teams[index[l.Team]]
			for s, v := range l.Values {
				tt.Values[s] += v
			}
		}
	}

	games := float64(len(recaps))
	faceoffs := rep.Teams[0].Values[counters.FaceoffWins] + rep.Teams[1].Values[counters.FaceoffWins]
	for i := range rep.Teams {
		tt := &rep.Teams[i]
		for s, v := range tt.Values {
			tt.PerGame[s] = math.Round(10*float64(v)/games) / 10
		}
		tt.ShotPct = Percent(tt.Values[counters.Goals]-credited[i], tt.Values[counters.Shots])
		tt.ShotAttemptPct = Percent(tt.Values[counters.Shots], tt.Values[counters.ShotAttempts])
		tt.FaceoffPct = Percent(tt.Values[counters.FaceoffWins], faceoffs)
	}
	return rep, nil
}
