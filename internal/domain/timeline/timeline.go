package timeline

import (
	"cmp"
	"slices"

	"github.com/okian/rinkstats/internal/domain/model"
)

// Row is one entry of the timeline: either a play or a synthetic grid point.
type Row struct {
	Time  model.Clock
	Event *model.Event // nil for grid rows
}

// IsGrid reports whether the row is a synthetic grid point.
func (r Row) IsGrid() bool { return r.Event == nil }

// Period returns the play's period, or 0 for grid rows.
func (r Row) Period() int {
	if r.Event == nil {
		return 0
	}
	return r.Event.Period
}

// Is reports whether the row is a play of type t.
func (r Row) Is(t model.EventType) bool {
	return r.Event != nil && r.Event.Type == t
}

// Timeline is the ordered, immutable sequence of plays and grid points.
// At equal elapsed time, plays come before the grid point so the grid point
// observes every play at that instant.
type Timeline struct {
	rows    []Row
	grid    []int // grid point -> row index
	periods []int
}

// Build normalizes raw plays and merges them with the grid.
func Build(raw []model.RawEvent, opts ...Option) (*Timeline, error) {
	events, err := Normalize(raw, opts...)
	if err != nil {
		return nil, err
	}
	return Merge(events, Grid(events)), nil
}

// Merge interleaves plays with grid points. Plays are stably sorted by
// elapsed time so feed order breaks ties.
func Merge(events []model.Event, grid []model.Clock) *Timeline {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b model.Event) int { return cmp.Compare(a.Time, b.Time) })

	t := &Timeline{
		rows: make([]Row, 0, len(sorted)+len(grid)),
		grid: make([]int, 0, len(grid)),
	}
	seen := make(map[int]struct{})
	i := 0
	for _, g := range grid {
		for ; i < len(sorted) && sorted[i].Time <= g; i++ {
			t.appendEvent(&sorted[i], seen)
		}
		t.grid = append(t.grid, len(t.rows))
		t.rows = append(t.rows, Row{Time: g})
	}
	for ; i < len(sorted); i++ {
		t.appendEvent(&sorted[i], seen)
	}
	slices.Sort(t.periods)
	return t
}

func (t *Timeline) appendEvent(e *model.Event, seen map[int]struct{}) {
	t.rows = append(t.rows, Row{Time: e.Time, Event: e})
	if _, ok := seen[e.Period]; !ok {
		seen[e.Period] = struct{}{}
		t.periods = append(t.periods, e.Period)
	}
}

// Len returns the number of rows.
func (t *Timeline) Len() int { return len(t.rows) }

// Row returns row i.
func (t *Timeline) Row(i int) Row { return t.rows[i] }

// Rows returns the rows. Callers must not modify the slice.
func (t *Timeline) Rows() []Row { return t.rows }

// Last returns the final row.
func (t *Timeline) Last() Row { return t.rows[len(t.rows)-1] }

// GridLen returns the number of grid points.
func (t *Timeline) GridLen() int { return len(t.grid) }

// GridRow returns the row index of grid point g.
func (t *Timeline) GridRow(g int) int { return t.grid[g] }

// GridTime returns the clock of grid point g.
func (t *Timeline) GridTime(g int) model.Clock { return t.rows[t.grid[g]].Time }

// Periods returns the distinct periods that have plays, ascending.
func (t *Timeline) Periods() []int { return slices.Clone(t.periods) }

// HasPeriod reports whether any play happened in period p.
func (t *Timeline) HasPeriod(p int) bool {
	_, ok := slices.BinarySearch(t.periods, p)
	return ok
}

// Events returns the plays in timeline order.
func (t *Timeline) Events() []model.Event {
	out := make([]model.Event, 0, len(t.rows)-len(t.grid))
	for _, r := range t.rows {
		if r.Event != nil {
			out = append(out, *r.Event)
		}
	}
	return out
}

// Teams returns the distinct acting teams in order of first appearance.
func (t *Timeline) Teams() []string {
	var out []string
	for _, r := range t.rows {
		if r.Event == nil || r.Event.Team == "" || slices.Contains(out, r.Event.Team) {
			continue
		}
		out = append(out, r.Event.Team)
	}
	return out
}
