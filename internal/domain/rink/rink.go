// Package rink normalizes play coordinates so each team attacks the same end
// all game, and groups located plays per team.
package rink

import (
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/timeline"
)

// Group names a set of located plays.
type Group string

// Groups of a rink map.
const (
	Goals     Group = "goals"
	Shots     Group = "shots"
	Attempts  Group = "attempts" // missed and blocked
	Hits      Group = "hits"
	Takeaways Group = "takeaways"
	Giveaways Group = "giveaways"
	Faceoffs  Group = "faceoff_wins"
)

// Point is one located play after normalization.
type Point struct {
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Type       model.EventType `json:"event_type"`
	Period     int             `json:"period"`
	PeriodTime model.Clock     `json:"period_time"`
	Time       model.Clock     `json:"time"`
	Players    [4]string       `json:"players"`
}

// Map holds each side's located plays by group.
type Map struct {
	Groups [2]map[Group][]Point `json:"groups"`
}

// Get returns side's points in group g.
func (m Map) Get(side model.Side, g Group) []Point {
	return m.Groups[side][g]
}

// Normalize mirrors coordinates in even periods so the away team attacks the
// negative end, then mirrors them all again when the arena records the other
// way round.
func Normalize(e model.Event, flip bool) (float64, float64) {
	x, y := e.X, e.Y
	if e.Period%2 == 0 {
		x, y = -x, -y
	}
	if flip {
		x, y = -x, -y
	}
	return x, y
}

// Build groups every located play. The arena flag is the home team's
// direction-of-play setting. Blocked shots are credited to the shooting
// team and turned 180 degrees, since the feed locates them for the blocker.
func Build(tl *timeline.Timeline, m model.Matchup) Map {
	var out Map
	for i := range out.Groups {
		out.Groups[i] = make(map[Group][]Point)
	}
	flip := m.Home.NormalDirection
	for _, r := range tl.Rows() {
		e := r.Event
		if e == nil || !e.HasCoords {
			continue
		}
		side, ok := m.SideOf(e.Team)
		if !ok {
			continue
		}
		x, y := Normalize(*e, flip)
		var g Group
		switch e.Type {
		case model.EventGoal:
			g = Goals
		case model.EventShot:
			g = Shots
		case model.EventMissedShot:
			g = Attempts
		case model.EventBlockedShot:
			g, side, x, y = Attempts, side.Opponent(), -x, -y
		case model.EventHit:
			g = Hits
		case model.EventTakeaway:
			g = Takeaways
		case model.EventGiveaway:
			g = Giveaways
		case model.EventFaceoff:
			g = Faceoffs
		default:
			continue
		}
		out.Groups[side][g] = append(out.Groups[side][g], Point{
			X:          x + 0, // drop negative zero
			Y:          y + 0,
			Type:       e.Type,
			Period:     e.Period,
			PeriodTime: e.PeriodTime,
			Time:       e.Time,
			Players:    e.Players,
		})
	}
	return out
}
