package tables

import (
	"strings"

	"github.com/tsawler/farebox/model"
)

// Assembler reconstructs the logical table of a single page: it resolves
// the schema, assigns fragments to cells, merges continuation rows, and
// drops repeated header rows from the data area.
type Assembler struct {
	config   Config
	resolver *ColumnResolver
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return NewAssemblerWithConfig(DefaultConfig())
}

// NewAssemblerWithConfig creates an assembler with custom configuration
func NewAssemblerWithConfig(config Config) *Assembler {
	return &Assembler{
		config:   config,
		resolver: NewColumnResolverWithConfig(config),
	}
}

// BuildStats carries per-page reconstruction diagnostics. All conditions
// it reports are recovered locally; none stops the pipeline.
type BuildStats struct {
	// Unassigned counts fragments whose x-center fell outside every
	// column range and were assigned to the nearest column instead
	Unassigned int

	// DroppedHeaders counts data rows dropped because they repeated the
	// table's header text
	DroppedHeaders int

	// Degenerate is true when the page yielded no columns
	Degenerate bool
}

// Build reconstructs one page's table from its clustered rows. A page
// with no rows, or no resolvable columns, yields an empty table with
// Degenerate set rather than an error.
func (a *Assembler) Build(rows []model.Row, pageIndex int) (model.Table, BuildStats) {
	table := model.Table{Page: pageIndex}
	stats := BuildStats{}

	res := a.resolver.Resolve(rows)
	table.Caption = res.Caption
	table.Columns = res.Columns
	if res.Columns.IsEmpty() {
		stats.Degenerate = true
		return table, stats
	}

	labels := res.Columns.Labels()
	for _, row := range rows[res.ConsumedRows():] {
		cells, unassigned := assignCells(row, res.Columns)
		stats.Unassigned += unassigned

		if !res.Columns.Synthetic && isRepeatedHeader(cells, labels) {
			stats.DroppedHeaders++
			continue
		}

		// A continuation folds into the previous row. The first row of a
		// page has no previous row here; merging across the page break
		// is the stitcher's job.
		if len(table.Rows) > 0 && isContinuation(cells, a.config.KeyColumn) {
			mergeContinuation(&table.Rows[len(table.Rows)-1], cells)
			continue
		}

		table.Rows = append(table.Rows, model.LogicalRow{Cells: cells, Page: pageIndex})
	}

	return table, stats
}

// assignCells maps a row's fragments onto the schema. Each fragment goes
// to the column containing its x-center, or the nearest column when it
// falls outside every range; fragments are never dropped. Fragments
// sharing a cell concatenate in x order with single spaces. The second
// return value counts nearest-boundary assignments.
func assignCells(row model.Row, columns model.ColumnSet) ([]string, int) {
	cells := make([]string, columns.Len())
	unassigned := 0

	for _, frag := range row.Fragments {
		if frag.IsEmpty() {
			continue
		}
		idx, ok := columns.IndexFor(frag.BBox.CenterX())
		if !ok {
			idx = columns.NearestIndex(frag.BBox.CenterX())
			unassigned++
		}
		if cells[idx] != "" {
			cells[idx] += " "
		}
		cells[idx] += strings.TrimSpace(frag.Text)
	}

	return cells, unassigned
}

// isContinuation reports whether a cell row continues the previous
// logical row: the key column is blank and at least one other column
// has content
func isContinuation(cells []string, keyColumn int) bool {
	if keyColumn < 0 || keyColumn >= len(cells) {
		return false
	}
	if strings.TrimSpace(cells[keyColumn]) != "" {
		return false
	}
	for i, cell := range cells {
		if i == keyColumn {
			continue
		}
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// mergeContinuation folds continuation cells into the previous logical
// row, newline-joining where the previous cell already has text
func mergeContinuation(prev *model.LogicalRow, cells []string) {
	for i, text := range cells {
		if i >= len(prev.Cells) {
			break
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if prev.Cells[i] == "" {
			prev.Cells[i] = text
		} else {
			prev.Cells[i] += "\n" + text
		}
	}
}

// isRepeatedHeader reports whether a cell row reproduces the header
// labels exactly (ignoring surrounding whitespace)
func isRepeatedHeader(cells []string, labels []string) bool {
	if len(cells) != len(labels) {
		return false
	}
	content := false
	for i, cell := range cells {
		if strings.TrimSpace(cell) != strings.TrimSpace(labels[i]) {
			return false
		}
		if strings.TrimSpace(cell) != "" {
			content = true
		}
	}
	return content
}
