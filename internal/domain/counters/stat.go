// Package counters classifies plays into per-team indicators and keeps their
// running totals along the timeline.
package counters

import (
	"fmt"
	"strings"
)

// Stat names one counter column.
type Stat int

// Counter columns. The penalty columns are filled by the penalty walk.
const (
	Goals Stat = iota
	Shots
	Hits
	ShotAttempts
	BlockedShots
	MissedShots
	Takeaways
	Giveaways
	FaceoffWins
	HouseShots
	HouseAttempts
	MenOnIce
	PowerPlays
	PPG
	SHG
	PIM
	NumStats
)

// FullStrength is the Men On Ice level without penalties.
const FullStrength = 5

var statNames = [NumStats]string{
	Goals:         "Goals",
	Shots:         "Shots",
	Hits:          "Hits",
	ShotAttempts:  "Shot Attempts",
	BlockedShots:  "Blocked Shots",
	MissedShots:   "Missed Shots",
	Takeaways:     "Takeaways",
	Giveaways:     "Giveaways",
	FaceoffWins:   "Faceoff Wins",
	HouseShots:    "House Shots",
	HouseAttempts: "House Attempts",
	MenOnIce:      "Men On Ice",
	PowerPlays:    "Power Plays",
	PPG:           "PPG",
	SHG:           "SHG",
	PIM:           "PIM",
}

func (s Stat) String() string {
	if s < 0 || s >= NumStats {
		return fmt.Sprintf("Stat(%d)", int(s))
	}
	return statNames[s]
}

// MarshalText encodes the stat by name.
func (s Stat) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a stat name written by MarshalText.
func (s *Stat) UnmarshalText(b []byte) error {
	v, err := ParseStat(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStat resolves a stat by name; case, spaces, dashes and underscores are ignored.
func ParseStat(name string) (Stat, error) {
	want := squash(name)
	for i, n := range statNames {
		if squash(n) == want {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

func squash(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
}
