package counters

import (
	"slices"

	"github.com/okian/rinkstats/internal/domain/model"
)

// Table holds the running totals for every timeline row. It is never
// modified in place; With returns an updated copy.
type Table struct {
	rows []Totals
}

// NewTable wraps prepared snapshots.
func NewTable(rows []Totals) *Table {
	return &Table{rows: slices.Clone(rows)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// At returns the totals at row i.
func (t *Table) At(i int) Totals { return t.rows[i] }

// Value returns one counter at row i.
func (t *Table) Value(side model.Side, stat Stat, i int) int {
	return t.rows[i][side][stat]
}

// Column returns a copy of one counter across all rows.
func (t *Table) Column(side model.Side, stat Stat) []int {
	out := make([]int, len(t.rows))
	for i := range t.rows {
		out[i] = t.rows[i][side][stat]
	}
	return out
}

// ShotDifferential returns |home shots - away shots| at row i.
func (t *Table) ShotDifferential(i int) int {
	d := t.rows[i][model.Home][Shots] - t.rows[i][model.Away][Shots]
	if d < 0 {
		return -d
	}
	return d
}

// With returns a copy of t whose column (side, stat) is replaced by col.
// col must have one value per row.
func (t *Table) With(side model.Side, stat Stat, col []int) *Table {
	rows := slices.Clone(t.rows)
	for i := range rows {
		if i < len(col) {
			rows[i][side][stat] = col[i]
		}
	}
	return &Table{rows: rows}
}
