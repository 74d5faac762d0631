// Package penalty walks penalties along the timeline to track men on ice,
// power plays, special-teams goals and penalty windows.
package penalty

// Penalty lengths in minutes.
const (
	minorMinutes       = 2
	doubleMinorMinutes = 4
	majorMinutes       = 5
	misconductMinutes  = 10
)

// Kind is the severity class of a penalty.
type Kind int

// Severity classes.
const (
	Minor Kind = iota
	DoubleMinor
	Major
	Misconduct
)

func (k Kind) String() string {
	switch k {
	case DoubleMinor:
		return "double minor"
	case Major:
		return "major"
	case Misconduct:
		return "misconduct"
	default:
		return "minor"
	}
}

var (
	doubleMinors = map[string]struct{}{
		"Hi stick - double minor":    {},
		"Cross check - double minor": {},
		"Spearing":                   {},
	}
	majors = map[string]struct{}{
		"Fighting":      {},
		"Kicking":       {},
		"Slew-footing":  {},
		"Butt-ending":   {},
		"Match penalty": {},
	}
	misconducts = map[string]struct{}{
		"Instigator - Misconduct": {},
		"Misconduct":              {},
		"Game misconduct":         {},
	}
)

// fighting is the one major the walk can be told to skip.
const fighting = "Fighting"

// Classify maps a penalty's secondary type to its class and length in minutes.
// Anything not listed is a two-minute minor.
func Classify(secondary string) (Kind, int) {
	if _, ok := misconducts[secondary]; ok {
		return Misconduct, misconductMinutes
	}
	if _, ok := majors[secondary]; ok {
		return Major, majorMinutes
	}
	if _, ok := doubleMinors[secondary]; ok {
		return DoubleMinor, doubleMinorMinutes
	}
	return Minor, minorMinutes
}

// IsMisconduct reports whether secondary names a misconduct.
func IsMisconduct(secondary string) bool {
	_, ok := misconducts[secondary]
	return ok
}
