package counters

import "math"

// House zone bounds in rink coordinates (feet from center ice).
const (
	houseSlotStart = 54.0
	houseSlotEnd   = 69.0
	houseGoalLine  = 89.0
	houseHalfWidth = 22.0
	houseCrease    = 4.0
)

// InHouse reports whether (x, y) lies in the high-danger zone in front of
// either net: the slot rectangle, the strip in front of the crease, and the
// sloped wedge joining them.
func InHouse(x, y float64) bool {
	ax, ay := math.Abs(x), math.Abs(y)
	switch {
	case ax >= houseSlotStart && ax <= houseSlotEnd:
		return ay <= houseHalfWidth
	case ax > houseSlotEnd && ax <= houseGoalLine:
		if ay <= houseCrease {
			return true
		}
		return ay <= houseHalfWidth && ay <= houseEdge(ax)
	}
	return false
}

// houseEdge is the wedge boundary, falling from 22 at x=69 to 4 at x=89.
func houseEdge(ax float64) float64 {
	return houseHalfWidth - (ax-houseSlotEnd)*18/20
}
