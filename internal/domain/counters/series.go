package counters

import (
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// Series is the running totals sampled at every grid point of a game.
type Series struct {
	Time []model.Clock `json:"time"`
	// Values is indexed by side, then stat, then grid point.
	Values           [2]map[Stat][]int `json:"values"`
	ShotDifferential []int             `json:"shot_differential"`
}

// Sample reads t at each grid point of tl.
func Sample(tl *timeline.Timeline, t *Table) Series {
	n := tl.GridLen()
	s := Series{
		Time:             make([]model.Clock, n),
		ShotDifferential: make([]int, n),
	}
	for g := 0; g < n; g++ {
		s.Time[g] = tl.GridTime(g)
		s.ShotDifferential[g] = t.ShotDifferential(tl.GridRow(g))
	}
	for _, side := range model.Sides {
		s.Values[side] = make(map[Stat][]int, NumStats)
		for stat := Stat(0); stat < NumStats; stat++ {
			col := t.Column(side, stat)
			out := make([]int, n)
			for g := range out {
				out[g] = col[tl.GridRow(g)]
			}
			s.Values[side][stat] = out
		}
	}
	return s
}

// Len returns the number of grid points.
func (s Series) Len() int { return len(s.Time) }

// At returns one counter at grid point g.
func (s Series) At(side model.Side, stat Stat, g int) int { return s.Values[side][stat][g] }
