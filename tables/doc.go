// Package tables reconstructs logical tables from clustered text rows.
//
// This package turns the rows produced by layout clustering into
// structured records, even though the source pages carry no explicit
// row/column markup: column boundaries are inferred, multi-line cells
// merged, and tables followed across page breaks.
//
// # Column Resolution
//
// The [ColumnResolver] derives a schema per page. A header row, when
// one is found within the configured scan depth, supplies the labels
// and seeds the x-ranges; data fragments widen each column's extent and
// the gaps between neighboring extents split at their midpoints, so
// slightly misaligned fragments resolve by nearest boundary. Pages
// without a header-like row fall back to clustering fragment x-starts
// and generated col_N labels.
//
// # Cell Assembly
//
// The [Assembler] builds one page's table:
//
//	assembler := tables.NewAssembler()
//	table, stats := assembler.Build(rows, pageIndex)
//
// Every fragment lands in exactly one cell; fragments outside all
// ranges go to the nearest column and are counted in [BuildStats]
// rather than dropped. A row whose key column is blank while another
// column has content is a continuation and folds into the previous row
// with newline joins. Rows repeating the header text are dropped.
//
// # Stitching
//
// The [Stitcher] folds the per-page tables into document tables:
//
//	result := tables.NewStitcher().Stitch(pageTables)
//	for _, table := range result.Tables {
//		...
//	}
//
// Pages continuing the running schema concatenate, with repeated
// headers dropped at page tops and a continuation check across each
// page break. A schema mismatch closes the open table and starts a new
// one; the break is recorded in [StitchResult].
//
// # Configuration
//
// Behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.HeaderScanDepth = 2
//	config.KeyColumn = 0
//	assembler := tables.NewAssemblerWithConfig(config)
package tables
