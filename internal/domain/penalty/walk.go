package penalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
	"github.com/okian/rinkstats/pkg/logger"
)

// Interval is one penalty window with both ends aligned to the 5-second grid.
type Interval struct {
	Start model.Clock `json:"start"`
	End   model.Clock `json:"end"`
}

// Contains reports whether c falls inside the window.
func (iv Interval) Contains(c model.Clock) bool { return c >= iv.Start && c <= iv.End }

// Duration returns End - Start.
func (iv Interval) Duration() model.Clock { return iv.End - iv.Start }

// Result holds the penalty columns for every timeline row, per side.
// MenOnIce is a level; the other columns are running totals.
type Result struct {
	MenOnIce   [2][]int
	PowerPlays [2][]int
	PPG        [2][]int
	SHG        [2][]int
	PIM        [2][]int
	Intervals  [2][]Interval

	Walked      int // penalties that opened a window
	Misconducts int
}

// Apply returns a copy of t carrying the penalty columns.
func (r Result) Apply(t *counters.Table) *counters.Table {
	for _, side := range model.Sides {
		t = t.With(side, counters.MenOnIce, r.MenOnIce[side])
		t = t.With(side, counters.PowerPlays, r.PowerPlays[side])
		t = t.With(side, counters.PPG, r.PPG[side])
		t = t.With(side, counters.SHG, r.SHG[side])
		t = t.With(side, counters.PIM, r.PIM[side])
	}
	return t
}

// Walker runs the penalty state machine. It holds no per-game state and is
// safe for concurrent use.
type Walker struct {
	includeFighting bool
	logger          logger.Logger
}

// NewWalker creates a walker. Fighting majors are included by default.
func NewWalker(opts ...Option) *Walker {
	w := &Walker{
		includeFighting: true,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// walkState accumulates per-row deltas while penalties are processed in order.
type walkState struct {
	moi, pp, ppg, shg, pim [2][]int
	ppgSeen, shgSeen       []bool
}

func newWalkState(n int) *walkState {
	s := &walkState{ppgSeen: make([]bool, n), shgSeen: make([]bool, n)}
	for _, side := range model.Sides {
		s.moi[side] = make([]int, n)
		s.pp[side] = make([]int, n)
		s.ppg[side] = make([]int, n)
		s.shg[side] = make([]int, n)
		s.pim[side] = make([]int, n)
	}
	return s
}

// Walk processes every penalty in timeline order.
//
// A penalty takes one skater off the offending side at its row and at every
// following row up to start+length. A goal by the short-handed side inside
// the window is a short-handed goal and the window continues; a goal by the
// other side is a power-play goal and closes the window at that instant.
// Each goal row is credited at most once per kind, however many windows
// cover it.
func (w *Walker) Walk(ctx context.Context, tl *timeline.Timeline, m model.Matchup) (Result, error) {
	const op = "penalty.walk"
	rows := tl.Rows()
	n := len(rows)
	st := newWalkState(n)
	var res Result

	for i, r := range rows {
		if !r.Is(model.EventPenalty) {
			continue
		}
		e := r.Event
		side, ok := m.SideOf(e.Team)
		if !ok {
			return Result{}, model.NewEventError(op, e.Index, model.ErrUnresolvedOpponent,
				fmt.Errorf("penalty team %q", e.Team))
		}

		kind, minutes := Classify(e.SecondaryType)
		if kind == Misconduct {
			st.pim[side][i] += minutes
			res.Misconducts++
			continue
		}
		if e.SecondaryType == fighting && !w.includeFighting {
			continue
		}
		if i+1 >= n {
			return Result{}, model.NewEventError(op, e.Index, model.ErrMalformedEvent,
				errors.New("penalty has no following row"))
		}
		j := i + 1
		for j < n && rows[j].IsGrid() {
			j++
		}
		if j < n {
			if next := rows[j].Event; next != nil && next.Player(1) == e.Player(1) &&
				IsMisconduct(next.SecondaryType) && minutes != majorMinutes {
				minutes = majorMinutes
			}
		}

		iv := st.walkOne(tl, m, i, side, minutes)
		res.Intervals[side] = append(res.Intervals[side], iv)
		res.Walked++

		w.logger.Debug(ctx, "penalty walked",
			logger.String("team", e.Team),
			logger.String("type", e.SecondaryType),
			logger.Int("minutes", minutes),
			logger.String("start", iv.Start.String()),
			logger.String("end", iv.End.String()),
		)
	}

	for _, side := range model.Sides {
		res.MenOnIce[side] = level(st.moi[side])
		res.PowerPlays[side] = runningSum(st.pp[side])
		res.PPG[side] = runningSum(st.ppg[side])
		res.SHG[side] = runningSum(st.shg[side])
		res.PIM[side] = runningSum(st.pim[side])
	}
	return res, nil
}

// walkOne applies a single penalty starting at row i and returns its window.
func (s *walkState) walkOne(tl *timeline.Timeline, m model.Matchup, i int, side model.Side, minutes int) Interval {
	rows := tl.Rows()
	opp := side.Opponent()

	s.moi[side][i]--
	s.pp[opp][i]++
	s.pim[side][i] += minutes

	start := rows[i].Time
	end := start + model.Clock(minutes*model.SecondsPerMinute)
	closed := false
	x := i + 1
	for ; x < len(rows) && rows[x].Time <= end; x++ {
		s.moi[side][x]--
		g := rows[x].Event
		if g == nil || g.Type != model.EventGoal {
			continue
		}
		scorer, ok := m.SideOf(g.Team)
		if !ok {
			continue
		}
		if scorer == side && !s.shgSeen[x] {
			s.shg[side][x]++
			s.shgSeen[x] = true
			continue
		}
		if scorer == opp && !s.ppgSeen[x] {
			s.ppg[opp][x]++
			s.ppgSeen[x] = true
			end = rows[x].Time
			closed = true
			break
		}
	}
	if !closed && x >= len(rows) {
		end = tl.Last().Time
	}
	return Interval{Start: start.Round5(), End: end.Round5()}
}

func level(delta []int) []int {
	out := make([]int, len(delta))
	for i, d := range delta {
		out[i] = counters.FullStrength + d
	}
	return out
}

func runningSum(delta []int) []int {
	out := make([]int, len(delta))
	sum := 0
	for i, d := range delta {
		sum += d
		out[i] = sum
	}
	return out
}
