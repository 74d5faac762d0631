// Package rolling computes trailing-window statistics and the momentum index
// on the 5-second grid.
package rolling

import (
	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// Window layout on the 5-second grid.
const (
	SubWindows  = 5
	MinuteSteps = timeline.StepsPerMinute
	PriorSteps  = SubWindows * MinuteSteps
)

// DefaultStats are the counters that get rolling tables.
var DefaultStats = []counters.Stat{
	counters.Shots,
	counters.Hits,
	counters.Goals,
	counters.ShotAttempts,
	counters.Giveaways,
	counters.Takeaways,
}

// Point is one grid point of a rolling table for one side.
type Point struct {
	Time  model.Clock `json:"time"`
	Total int         `json:"total"`
	// SubWindows[k] is the amount accrued k to k+1 minutes ago, scaled by (5-k)/5.
	SubWindows [SubWindows]float64 `json:"sub_windows"`
	Weighted   float64             `json:"weighted"`
	Prior5     int                 `json:"prior_5"`
}

// Table is the rolling view of one stat for both sides.
type Table struct {
	Stat   counters.Stat `json:"stat"`
	Points [2][]Point    `json:"points"`
}

// Compute builds the rolling table of stat from the running totals.
func Compute(tl *timeline.Timeline, t *counters.Table, stat counters.Stat) Table {
	out := Table{Stat: stat}
	for _, side := range model.Sides {
		cum := make([]int, tl.GridLen())
		for g := range cum {
			cum[g] = t.Value(side, stat, tl.GridRow(g))
		}
		out.Points[side] = points(tl, cum)
	}
	return out
}

// ComputeAll builds a rolling table for each of stats, in order.
func ComputeAll(tl *timeline.Timeline, t *counters.Table, stats ...counters.Stat) []Table {
	if len(stats) == 0 {
		stats = DefaultStats
	}
	out := make([]Table, 0, len(stats))
	for _, s := range stats {
		out = append(out, Compute(tl, t, s))
	}
	return out
}

func points(tl *timeline.Timeline, cum []int) []Point {
	pts := make([]Point, len(cum))
	for g := range cum {
		p := Point{Time: tl.GridTime(g), Total: cum[g]}
		for k := 0; k < SubWindows; k++ {
			hi := cum[max(0, g-MinuteSteps*k)]
			lo := cum[max(0, g-MinuteSteps*(k+1))]
			p.SubWindows[k] = float64(hi-lo) * float64(SubWindows-k) / SubWindows
			p.Weighted += p.SubWindows[k]
		}
		if g <= PriorSteps {
			p.Prior5 = cum[g]
		} else {
			p.Prior5 = cum[g] - cum[g-PriorSteps]
		}
		pts[g] = p
	}
	return pts
}

// Find returns the table for stat.
func Find(tables []Table, stat counters.Stat) (Table, bool) {
	for _, t := range tables {
		if t.Stat == stat {
			return t, true
		}
	}
	return Table{}, false
}
