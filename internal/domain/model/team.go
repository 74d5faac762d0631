package model

// Side identifies one of the two teams in a game.
type Side int

// Sides of a game.
const (
	Away Side = iota
	Home
)

// Sides lists both sides in storage order.
var Sides = [2]Side{Away, Home}

// Opponent returns the other side.
func (s Side) Opponent() Side { return 1 - s }

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Team is the reference data the engine needs for one club.
type Team struct {
	Name   string `json:"name" koanf:"name"`
	Abbrev string `json:"abbrev" koanf:"abbrev"`
	// NormalDirection is the arena direction-of-play flag. When set, every
	// coordinate is flipped once more after the per-period flip.
	NormalDirection bool `json:"normal_direction" koanf:"normal_direction"`
}

// Matchup pairs the away and home teams of one game.
type Matchup struct {
	Away Team `json:"away"`
	Home Team `json:"home"`
}

// Team returns the team playing on side s.
func (m Matchup) Team(s Side) Team {
	if s == Home {
		return m.Home
	}
	return m.Away
}

// SideOf resolves a team abbreviation to its side.
func (m Matchup) SideOf(abbrev string) (Side, bool) {
	switch abbrev {
	case "":
		return Away, false
	case m.Home.Abbrev:
		return Home, true
	case m.Away.Abbrev:
		return Away, true
	}
	return Away, false
}
