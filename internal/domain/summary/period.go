// Package summary splits running totals into period tables and builds the
// game, goal and series reports on top of them.
package summary

import (
	"math"
	"slices"
	"strconv"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// Period labels beyond the numbered regulation periods.
const (
	Overtime  = "OT"
	GameTotal = "Game Total"
)

const regulationPeriods = 3

// DefaultStats are the columns of a period table.
var DefaultStats = []counters.Stat{
	counters.Goals,
	counters.Shots,
	counters.HouseShots,
	counters.ShotAttempts,
	counters.BlockedShots,
	counters.MissedShots,
	counters.HouseAttempts,
	counters.FaceoffWins,
	counters.Hits,
	counters.PowerPlays,
	counters.PPG,
	counters.SHG,
	counters.PIM,
	counters.Takeaways,
	counters.Giveaways,
}

// Line is one (period, team) row of a period table.
type Line struct {
	Period         string                `json:"period"`
	Team           string                `json:"team"`
	Side           model.Side            `json:"side"`
	Values         map[counters.Stat]int `json:"values"`
	ShotPct        float64               `json:"shot_pct"`
	ShotAttemptPct float64               `json:"shot_attempt_pct"`
	FaceoffPct     float64               `json:"faceoff_pct"`
}

// Value returns the line's value for stat, 0 when the column is not selected.
func (l Line) Value(stat counters.Stat) int { return l.Values[stat] }

// Table is the period summary: periods 1-3, an optional OT bucket and the
// game total, home team first within each period.
type Table struct {
	Stats []counters.Stat `json:"stats"`
	Lines []Line          `json:"lines"`
}

// Line finds the row for period and side.
func (t Table) Line(period string, side model.Side) (Line, bool) {
	for _, l := range t.Lines {
		if l.Period == period && l.Side == side {
			return l, true
		}
	}
	return Line{}, false
}

// Periods returns the distinct period labels in table order.
func (t Table) Periods() []string {
	var out []string
	for _, l := range t.Lines {
		if !slices.Contains(out, l.Period) {
			out = append(out, l.Period)
		}
	}
	return out
}

// Summarize splits the running totals into per-period deltas. A period's
// boundary is the last PERIOD_END/PERIOD_OFFICIAL row in it, else the
// largest value seen in its rows, else the previous period's boundary.
// A regular-season shootout is left out of the deltas; its winner gets one
// goal in the OT and game total lines, matching the headline score.
func Summarize(tl *timeline.Timeline, t *counters.Table, g Game, stats ...counters.Stat) Table {
	if len(stats) == 0 {
		stats = DefaultStats
	}
	last := regulationPeriods
	if ps := tl.Periods(); len(ps) > 0 {
		last = max(last, ps[len(ps)-1])
	}
	var credit [2]int
	if g.Shootout {
		last = min(last, overtimePeriod)
		if side, ok := g.ShootoutWinner(); ok {
			credit[side] = 1
		}
	}
	bounds := boundaries(tl, t, last)
	m := g.Matchup

	out := Table{Stats: slices.Clone(stats)}
	for p := 1; p <= regulationPeriods; p++ {
		out.Lines = append(out.Lines, lines(strconv.Itoa(p), diff(bounds[p], bounds[p-1]), m, stats, [2]int{})...)
	}
	if last > regulationPeriods {
		out.Lines = append(out.Lines, lines(Overtime, diff(bounds[last], bounds[regulationPeriods]), m, stats, credit)...)
	}
	out.Lines = append(out.Lines, lines(GameTotal, bounds[last], m, stats, credit)...)
	return out
}

func boundaries(tl *timeline.Timeline, t *counters.Table, last int) []counters.Totals {
	marker := make([]int, last+1)
	for i := range marker {
		marker[i] = -1
	}
	peak := make([]counters.Totals, last+1)
	seen := make([]bool, last+1)

	for i, r := range tl.Rows() {
		p := r.Period()
		if p == 0 || p > last {
			continue
		}
		seen[p] = true
		if r.Event.Type.IsPeriodBoundary() {
			marker[p] = i
		}
		at := t.At(i)
		for _, side := range model.Sides {
			for s := range at[side] {
				peak[p][side][s] = max(peak[p][side][s], at[side][s])
			}
		}
	}

	bounds := make([]counters.Totals, last+1)
	for p := 1; p <= last; p++ {
		switch {
		case marker[p] >= 0:
			bounds[p] = t.At(marker[p])
		case seen[p]:
			bounds[p] = peak[p]
		default:
			bounds[p] = bounds[p-1]
		}
	}
	return bounds
}

func diff(a, b counters.Totals) counters.Totals {
	var out counters.Totals
	for _, side := range model.Sides {
		for s := range out[side] {
			out[side][s] = a[side][s] - b[side][s]
		}
	}
	return out
}

// lines builds the home and away rows. credit is added to the goal column
// after the percentages are taken.
func lines(period string, tot counters.Totals, m model.Matchup, stats []counters.Stat, credit [2]int) []Line {
	faceoffs := tot[model.Home][counters.FaceoffWins] + tot[model.Away][counters.FaceoffWins]
	out := make([]Line, 0, 2)
	for _, side := range []model.Side{model.Home, model.Away} {
		v := tot[side]
		l := Line{
			Period:         period,
			Team:           m.Team(side).Abbrev,
			Side:           side,
			Values:         make(map[counters.Stat]int, len(stats)),
			ShotPct:        Percent(v[counters.Goals], v[counters.Shots]),
			ShotAttemptPct: Percent(v[counters.Shots], v[counters.ShotAttempts]),
			FaceoffPct:     Percent(v[counters.FaceoffWins], faceoffs),
		}
		for _, s := range stats {
			l.Values[s] = v[s]
		}
		if _, ok := l.Values[counters.Goals]; ok {
			l.Values[counters.Goals] += credit[side]
		}
		out = append(out, l)
	}
	return out
}

// Percent returns 100*n/d rounded to one decimal, with d floored at 1.
func Percent(n, d int) float64 {
	return math.Round(1000*float64(n)/float64(max(d, 1))) / 10
}
