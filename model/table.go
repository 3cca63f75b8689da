package model

import (
	"math"
	"strings"
)

// Column represents a single resolved column: its label (header text or
// a generated name) and the x-range its cells occupy.
type Column struct {
	Label string
	XMin  float64
	XMax  float64
}

// Contains reports whether an x coordinate falls inside the column range
func (c Column) Contains(x float64) bool {
	return x >= c.XMin && x <= c.XMax
}

// Distance returns the horizontal distance from x to the column range,
// zero when x lies inside it
func (c Column) Distance(x float64) float64 {
	if x < c.XMin {
		return c.XMin - x
	}
	if x > c.XMax {
		return x - c.XMax
	}
	return 0
}

// ColumnSet is the ordered column schema of a table. Columns are
// ordered left to right with non-overlapping ranges. Synthetic is true
// when the labels were generated from fragment density rather than read
// from a header row.
type ColumnSet struct {
	Columns   []Column
	Synthetic bool
}

// Len returns the number of columns
func (cs ColumnSet) Len() int {
	return len(cs.Columns)
}

// IsEmpty returns true if no columns were resolved
func (cs ColumnSet) IsEmpty() bool {
	return len(cs.Columns) == 0
}

// Labels returns the column labels in boundary order
func (cs ColumnSet) Labels() []string {
	labels := make([]string, len(cs.Columns))
	for i, c := range cs.Columns {
		labels[i] = c.Label
	}
	return labels
}

// Matches reports whether two schemas carry the same labels in the same
// order. Label comparison ignores surrounding whitespace.
func (cs ColumnSet) Matches(other ColumnSet) bool {
	if len(cs.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range cs.Columns {
		if strings.TrimSpace(c.Label) != strings.TrimSpace(other.Columns[i].Label) {
			return false
		}
	}
	return true
}

// IndexFor returns the index of the column whose range contains x.
// The second return value is false when x falls outside every range.
func (cs ColumnSet) IndexFor(x float64) (int, bool) {
	for i, c := range cs.Columns {
		if c.Contains(x) {
			return i, true
		}
	}
	return -1, false
}

// NearestIndex returns the index of the column whose range is closest
// to x. Returns -1 for an empty schema.
func (cs ColumnSet) NearestIndex(x float64) int {
	if len(cs.Columns) == 0 {
		return -1
	}
	best := 0
	bestDist := math.Inf(1)
	for i, c := range cs.Columns {
		d := c.Distance(x)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// LogicalRow represents one reconstructed table record. Cells are
// aligned to the owning table's ColumnSet: every row has exactly one
// cell per column, empty cells hold the empty string.
type LogicalRow struct {
	Cells []string
	Page  int // 0-based index of the page the row started on
}

// IsEmpty returns true if every cell is blank
func (r LogicalRow) IsEmpty() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the row
func (r LogicalRow) Clone() LogicalRow {
	cells := make([]string, len(r.Cells))
	copy(cells, r.Cells)
	return LogicalRow{Cells: cells, Page: r.Page}
}

// Table represents the reconstructed table of a single page: the
// resolved schema, the logical rows assembled under it, and any caption
// lines captured above the header.
type Table struct {
	Columns ColumnSet
	Rows    []LogicalRow
	Page    int // 0-based page index
	Caption []string
}

// IsEmpty returns true if the table has neither columns nor rows
func (t Table) IsEmpty() bool {
	return t.Columns.IsEmpty() && len(t.Rows) == 0
}

// RowCount returns the number of logical rows
func (t Table) RowCount() int {
	return len(t.Rows)
}

// DocumentTable is a table stitched across page boundaries: one shared
// schema, the logical rows of every contributing page in document
// order, and the accumulated captions.
type DocumentTable struct {
	Columns ColumnSet
	Rows    []LogicalRow
	Pages   []int // contributing 0-based page indices, ascending
	Caption []string
}

// RowCount returns the number of logical rows
func (t DocumentTable) RowCount() int {
	return len(t.Rows)
}

// Records returns the table as a header row followed by one record per
// logical row, ready for CSV or spreadsheet serialization.
func (t DocumentTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Columns.Labels())
	for _, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		copy(cells, row.Cells)
		records = append(records, cells)
	}
	return records
}
