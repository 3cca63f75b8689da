package tables

import (
	"github.com/tsawler/farebox/model"
)

// Stitcher merges per-page tables into document tables. It is an
// explicit accumulator folded over pages in document order: a running
// schema, the open table, and the finished tables. Pages whose schema
// matches the running one concatenate; a label mismatch closes the open
// table and starts a new one rather than forcibly merging, so documents
// holding several distinct tables come out as several tables.
type Stitcher struct {
	config Config
}

// NewStitcher creates a stitcher with default configuration
func NewStitcher() *Stitcher {
	return &Stitcher{
		config: DefaultConfig(),
	}
}

// NewStitcherWithConfig creates a stitcher with custom configuration
func NewStitcherWithConfig(config Config) *Stitcher {
	return &Stitcher{
		config: config,
	}
}

// StitchResult holds the stitched tables and boundary diagnostics
type StitchResult struct {
	// Tables are the document tables in page order
	Tables []model.DocumentTable

	// SchemaBreaks lists the 0-based pages whose schema mismatched the
	// running one and forced a new table
	SchemaBreaks []int

	// DroppedHeaders counts repeated header rows dropped at page tops
	DroppedHeaders int
}

// Stitch folds per-page tables, in page order, into document tables.
// Degenerate pages contribute nothing and leave the running schema
// undisturbed; their captions still accumulate. At each page break the
// first incoming data row is checked against the continuation predicate
// and merged into the prior page's last row when it matches.
func (s *Stitcher) Stitch(pages []model.Table) *StitchResult {
	result := &StitchResult{}

	var open *model.DocumentTable
	var pendingCaption []string

	for _, page := range pages {
		if page.Columns.IsEmpty() {
			// Degenerate page: keep captions, skip everything else
			if len(page.Caption) == 0 {
				continue
			}
			if open != nil {
				open.Caption = append(open.Caption, page.Caption...)
			} else {
				pendingCaption = append(pendingCaption, page.Caption...)
			}
			continue
		}

		switch {
		case open == nil:
			open = newDocumentTable(page, page.Rows)
			if len(pendingCaption) > 0 {
				open.Caption = append(pendingCaption, open.Caption...)
				pendingCaption = nil
			}

		case s.continues(open.Columns, page.Columns):
			// Trim header echoes only on the continuation path: after a
			// schema break a row matching the old labels is data of the
			// new table, not a repeat.
			rows, dropped := trimRepeatedHeader(page.Rows, open.Columns.Labels())
			result.DroppedHeaders += dropped

			open.Caption = append(open.Caption, page.Caption...)
			open.Pages = append(open.Pages, page.Page)
			for i, row := range rows {
				if i == 0 && len(open.Rows) > 0 && isContinuation(row.Cells, s.config.KeyColumn) {
					mergeContinuation(&open.Rows[len(open.Rows)-1], row.Cells)
					continue
				}
				open.Rows = append(open.Rows, alignRow(row, open.Columns.Len()))
			}

		default:
			result.Tables = append(result.Tables, *open)
			result.SchemaBreaks = append(result.SchemaBreaks, page.Page)
			open = newDocumentTable(page, page.Rows)
		}
	}

	if open != nil {
		result.Tables = append(result.Tables, *open)
	}

	return result
}

// continues reports whether a page's schema continues the running one.
// Matching labels always continue. A synthetic schema (page without a
// header row) continues when its column count matches, adopting the
// running labels: a table crossing a page break rarely repeats its
// header on the continuation page.
func (s *Stitcher) continues(running, next model.ColumnSet) bool {
	if next.Matches(running) {
		return true
	}
	return next.Synthetic && next.Len() == running.Len()
}

// trimRepeatedHeader drops leading rows that reproduce the running
// header labels, so the continuation check below sees genuine data rows
func trimRepeatedHeader(rows []model.LogicalRow, labels []string) ([]model.LogicalRow, int) {
	dropped := 0
	for len(rows) > 0 && isRepeatedHeader(rows[0].Cells, labels) {
		rows = rows[1:]
		dropped++
	}
	return rows, dropped
}

// newDocumentTable opens a document table seeded from one page. Rows are
// cloned so later continuation merges never write through to the
// per-page tables.
func newDocumentTable(page model.Table, rows []model.LogicalRow) *model.DocumentTable {
	table := &model.DocumentTable{
		Columns: page.Columns,
		Pages:   []int{page.Page},
	}
	table.Caption = append(table.Caption, page.Caption...)
	for _, row := range rows {
		table.Rows = append(table.Rows, row.Clone())
	}
	return table
}

// alignRow pads or truncates a row to the running schema width, keeping
// the invariant that every logical row has exactly one cell per column
func alignRow(row model.LogicalRow, width int) model.LogicalRow {
	cells := make([]string, width)
	copy(cells, row.Cells)
	return model.LogicalRow{Cells: cells, Page: row.Page}
}
