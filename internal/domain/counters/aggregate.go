package counters

import (
	"fmt"

	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// Indicator is one (side, stat) increment produced by a single play.
type Indicator struct {
	Side model.Side
	Stat Stat
}

// Indicators classifies a play. Blocked shots credit the blocking team and
// count the attempt against the shooting team on the other side.
func Indicators(e model.Event, side model.Side) []Indicator {
	house := InHouse(e.X, e.Y)
	opp := side.Opponent()
	var out []Indicator
	add := func(s model.Side, st ...Stat) {
		for _, x := range st {
			out = append(out, Indicator{Side: s, Stat: x})
		}
	}

	switch e.Type {
	case model.EventGoal:
		add(side, Goals, Shots, ShotAttempts)
		if house {
			add(side, HouseShots, HouseAttempts)
		}
	case model.EventShot:
		add(side, Shots, ShotAttempts)
		if house {
			add(side, HouseShots, HouseAttempts)
		}
	case model.EventMissedShot:
		add(side, MissedShots, ShotAttempts)
		if house {
			add(side, HouseAttempts)
		}
	case model.EventBlockedShot:
		add(side, BlockedShots)
		add(opp, ShotAttempts)
		if house {
			add(opp, HouseAttempts)
		}
	case model.EventHit:
		add(side, Hits)
	case model.EventTakeaway:
		add(side, Takeaways)
	case model.EventGiveaway:
		add(side, Giveaways)
	case model.EventFaceoff:
		add(side, FaceoffWins)
	}
	return out
}

// Counts reports whether the play type feeds any counter.
func Counts(t model.EventType) bool {
	switch t {
	case model.EventGoal, model.EventShot, model.EventMissedShot, model.EventBlockedShot,
		model.EventHit, model.EventTakeaway, model.EventGiveaway, model.EventFaceoff:
		return true
	}
	return false
}

// Totals is the running value of every counter for both sides at one row.
type Totals [2][NumStats]int

// Apply returns a copy of t with the indicators added.
func (t Totals) Apply(ind ...Indicator) Totals {
	for _, i := range ind {
		t[i.Side][i.Stat]++
	}
	return t
}

// Get returns one counter value.
func (t Totals) Get(side model.Side, stat Stat) int { return t[side][stat] }

// ResolveSides checks that every acting team belongs to the matchup.
func ResolveSides(tl *timeline.Timeline, m model.Matchup) error {
	const op = "counters.resolve_sides"
	if m.Home.Abbrev == "" || m.Away.Abbrev == "" || m.Home.Abbrev == m.Away.Abbrev {
		return fmt.Errorf("%s: %w: home %q away %q", op, model.ErrUnresolvedOpponent, m.Home.Abbrev, m.Away.Abbrev)
	}
	teams := tl.Teams()
	if len(teams) > 2 {
		return fmt.Errorf("%s: %w: %d teams %v", op, model.ErrUnresolvedOpponent, len(teams), teams)
	}
	for _, team := range teams {
		if _, ok := m.SideOf(team); !ok {
			return fmt.Errorf("%s: %w: %q is not in the matchup", op, model.ErrUnresolvedOpponent, team)
		}
	}
	return nil
}

// Aggregate folds the plays of tl into running totals, one snapshot per row.
// Men On Ice starts at full strength; the other penalty columns start at zero.
func Aggregate(tl *timeline.Timeline, m model.Matchup) (*Table, error) {
	const op = "counters.aggregate"
	if err := ResolveSides(tl, m); err != nil {
		return nil, err
	}

	var cur Totals
	cur[model.Away][MenOnIce] = FullStrength
	cur[model.Home][MenOnIce] = FullStrength

	rows := make([]Totals, tl.Len())
	for i, r := range tl.Rows() {
		if r.Event != nil && Counts(r.Event.Type) {
			side, ok := m.SideOf(r.Event.Team)
			if !ok {
				return nil, model.NewEventError(op, r.Event.Index, model.ErrUnresolvedOpponent,
					fmt.Errorf("%s without a team", r.Event.Type))
			}
			cur = cur.Apply(Indicators(*r.Event, side)...)
		}
		rows[i] = cur
	}
	return &Table{rows: rows}, nil
}
