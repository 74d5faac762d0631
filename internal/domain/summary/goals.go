package summary

import (
	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// Goal is one entry of a team's goal log.
type Goal struct {
	Number     int         `json:"number"` // team's running goal total
	Team       string      `json:"team"`
	Period     int         `json:"period"`
	PeriodTime model.Clock `json:"period_time"`
	Time       model.Clock `json:"time"`
	Scorer     string      `json:"scorer"`
	Players    [4]string   `json:"players"`
}

// GoalLog lists each side's goals in the order they were scored.
type GoalLog struct {
	Goals [2][]Goal `json:"goals"`
}

// Max returns side's goal total, 0 when it never scored.
func (l GoalLog) Max(side model.Side) int {
	g := l.Goals[side]
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1].Number
}

// MaxGoals returns the larger of the two goal totals.
func (l GoalLog) MaxGoals() int {
	return max(l.Max(model.Away), l.Max(model.Home))
}

// Goals builds the goal log from the timeline and its running totals.
func Goals(tl *timeline.Timeline, t *counters.Table, m model.Matchup) GoalLog {
	var log GoalLog
	for i, r := range tl.Rows() {
		if !r.Is(model.EventGoal) {
			continue
		}
		side, ok := m.SideOf(r.Event.Team)
		if !ok {
			continue
		}
		log.Goals[side] = append(log.Goals[side], Goal{
			Number:     t.Value(side, counters.Goals, i),
			Team:       r.Event.Team,
			Period:     r.Event.Period,
			PeriodTime: r.Event.PeriodTime,
			Time:       r.Time,
			Scorer:     r.Event.Player(1),
			Players:    r.Event.Players,
		})
	}
	return log
}
