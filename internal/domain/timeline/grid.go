package timeline

import "github.com/okian/rinkstats/internal/domain/model"

// Grid layout constants.
const (
	// overtimeGrid is the grid extension added for each overtime period.
	overtimeGrid = 5 * model.SecondsPerMinute
	// StepsPerMinute is the number of grid points in one minute.
	StepsPerMinute = model.SecondsPerMinute / int(model.GridStep)
)

// Grid returns the 5-second points from 00:00:00 through 01:00:00, extended
// by five minutes for every overtime period present and, when needed, far
// enough to sit at or after the last event. Point g is always at g*5 seconds.
func Grid(events []model.Event) []model.Clock {
	end := model.RegulationEnd
	seen := make(map[int]struct{})
	var last model.Clock
	for _, e := range events {
		if e.Period > 3 {
			if _, ok := seen[e.Period]; !ok {
				seen[e.Period] = struct{}{}
				end += overtimeGrid
			}
		}
		if e.Time > last {
			last = e.Time
		}
	}
	if last > end {
		end = (last + model.GridStep - 1) / model.GridStep * model.GridStep
	}

	grid := make([]model.Clock, 0, int(end/model.GridStep)+1)
	for c := model.Clock(0); c <= end; c += model.GridStep {
		grid = append(grid, c)
	}
	return grid
}
