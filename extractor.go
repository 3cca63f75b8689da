package farebox

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/farebox/clean"
	"github.com/tsawler/farebox/emit"
	"github.com/tsawler/farebox/extract"
	"github.com/tsawler/farebox/layout"
	"github.com/tsawler/farebox/model"
	"github.com/tsawler/farebox/report"
	"github.com/tsawler/farebox/routes"
	"github.com/tsawler/farebox/tables"
)

// Extractor provides a fluent interface for reconstructing tables from
// fare booklet PDFs. Each configuration method returns a new Extractor
// instance, making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	source   extract.Source

	// Lifecycle
	ownsSource bool // true if we opened the source and should close it

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	newExt := &Extractor{
		filename:   e.filename,
		source:     e.source,
		ownsSource: e.ownsSource,
		options:    e.options.clone(),
		err:        e.err,
		warnings:   append([]Warning(nil), e.warnings...),
	}
	return newExt
}

// ensureSource opens the fragment source if not already open.
func (e *Extractor) ensureSource() error {
	if e.source != nil {
		return nil
	}
	if e.filename == "" {
		return ErrNoSource
	}

	src, err := extract.Open(e.filename)
	if err != nil {
		return err
	}
	e.source = src
	e.ownsSource = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsSource && e.source != nil {
		err := e.source.Close()
		e.source = nil
		e.ownsSource = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to process (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	tables, _, err := farebox.Open("fares.pdf").Pages(1, 3, 5).Tables()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to process (1-indexed, inclusive).
//
// Example:
//
//	tables, _, err := farebox.Open("fares.pdf").PageRange(5, 10).Tables()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// RowTolerance sets the row clustering band as a fraction of the median
// fragment height. Larger values merge nearby lines into one row; smaller
// values split them.
//
// Example:
//
//	tables, _, err := farebox.Open("fares.pdf").RowTolerance(0.8).Tables()
func (e *Extractor) RowTolerance(fraction float64) *Extractor {
	newExt := e.clone()
	newExt.options.rowTolerance = fraction
	return newExt
}

// HeaderScanDepth sets how many leading rows of each page are scanned for
// header labels. Zero disables header detection, so columns are inferred
// from fragment density alone.
//
// Example:
//
//	tables, _, err := farebox.Open("fares.pdf").HeaderScanDepth(2).Tables()
func (e *Extractor) HeaderScanDepth(n int) *Extractor {
	newExt := e.clone()
	newExt.options.headerScanDepth = n
	return newExt
}

// KeyColumn sets the column whose blank cell marks a continuation row.
//
// Example:
//
//	tables, _, err := farebox.Open("fares.pdf").KeyColumn(1).Tables()
func (e *Extractor) KeyColumn(index int) *Extractor {
	newExt := e.clone()
	newExt.options.keyColumn = index
	return newExt
}

// CaptionPattern sets the pattern that captures title rows above the
// header, such as route metadata lines. Passing nil disables caption
// capture.
//
// Example:
//
//	pattern := regexp.MustCompile(`(?i)^service\s+no`)
//	tables, _, err := farebox.Open("fares.pdf").CaptionPattern(pattern).Tables()
func (e *Extractor) CaptionPattern(pattern *regexp.Regexp) *Extractor {
	newExt := e.clone()
	newExt.options.captionPattern = pattern
	return newExt
}

// Workers caps the number of pages processed in parallel.
// The default is one worker per CPU.
//
// Example:
//
//	tables, _, err := farebox.Open("fares.pdf").Workers(2).Tables()
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = n
	return newExt
}

// KeepPageNoise disables the repeating header, footer and page number
// filter, keeping every extracted fragment.
//
// Example:
//
//	frags, _, err := farebox.Open("fares.pdf").KeepPageNoise().Fragments()
func (e *Extractor) KeepPageNoise() *Extractor {
	newExt := e.clone()
	newExt.options.keepPageNoise = true
	return newExt
}

// RawText disables text cleaning, keeping fragment text exactly as
// extracted, ligatures and soft hyphens included.
//
// Example:
//
//	frags, _, err := farebox.Open("fares.pdf").RawText().Fragments()
func (e *Extractor) RawText() *Extractor {
	newExt := e.clone()
	newExt.options.rawText = true
	return newExt
}

// Corrections supplies substring replacements applied after the built-in
// cleaning, for garbles specific to one document's font encoding.
// Multiple calls are cumulative.
//
// Example:
//
//	fixes := map[string]string{"Co!ombo": "Colombo"}
//	tables, _, err := farebox.Open("fares.pdf").Corrections(fixes).Tables()
func (e *Extractor) Corrections(table map[string]string) *Extractor {
	newExt := e.clone()
	if newExt.options.corrections == nil {
		newExt.options.corrections = make(map[string]string, len(table))
	}
	for from, to := range table {
		newExt.options.corrections[from] = to
	}
	return newExt
}

// ============================================================================
// Terminal Operations (execute reconstruction and return results)
// ============================================================================

// Tables runs the full reconstruction pipeline and returns the stitched
// document tables. This is a terminal operation that closes the
// underlying source.
//
// Example:
//
//	tables, warnings, err := farebox.Open("fares.pdf").Tables()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", farebox.FormatWarnings(warnings))
//	}
func (e *Extractor) Tables() ([]model.DocumentTable, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureSource(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	pages, err := e.preparedPages()
	if err != nil {
		return nil, nil, err
	}

	pageTables, err := e.buildTables(pages)
	if err != nil {
		return nil, e.warnings, err
	}

	return e.stitch(pageTables), e.warnings, nil
}

// Routes reconstructs the document tables and interprets each one as a
// transit route with ordered, fare-staged stops. This is a terminal
// operation that closes the underlying source.
//
// Example:
//
//	rts, warnings, err := farebox.Open("fares.pdf").Routes()
//	for _, route := range rts {
//	    fmt.Println(route.Number, route.Name, len(route.Stops))
//	}
func (e *Extractor) Routes() ([]routes.Route, []Warning, error) {
	docTables, _, err := e.Tables()
	if err != nil {
		return nil, e.warnings, err
	}

	rts, stats := routes.New().Routes(docTables)
	if stats.SkippedRows > 0 {
		e.warn(WarnSkippedRow, 0,
			fmt.Sprintf("%d rows dropped: sequence column did not parse", stats.SkippedRows))
	}
	if stats.BadFares > 0 {
		e.warn(WarnBadFare, 0,
			fmt.Sprintf("%d stops kept a zero fare: fare column did not parse", stats.BadFares))
	}
	return rts, e.warnings, nil
}

// Fragments returns the positioned text fragments of the selected pages
// after noise filtering and cleaning, without any table reconstruction.
// Useful for diagnosing layout problems. This is a terminal operation
// that closes the underlying source.
//
// Example:
//
//	frags, _, err := farebox.Open("fares.pdf").Pages(1).Fragments()
//	for _, frag := range frags {
//	    fmt.Printf("%q at (%.1f, %.1f)\n", frag.Text, frag.BBox.Left(), frag.BBox.Bottom())
//	}
func (e *Extractor) Fragments() ([]model.Fragment, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureSource(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	pages, err := e.preparedPages()
	if err != nil {
		return nil, nil, err
	}

	var fragments []model.Fragment
	for _, page := range pages {
		fragments = append(fragments, page.Fragments...)
	}
	return fragments, e.warnings, nil
}

// CSV reconstructs the document tables and writes them to out as CSV,
// each table with its own header row, tables separated by a blank line.
// It returns the tables it wrote. This is a terminal operation that
// closes the underlying source.
//
// Example:
//
//	f, _ := os.Create("fares.csv")
//	defer f.Close()
//	_, warnings, err := farebox.Open("fares.pdf").CSV(f)
func (e *Extractor) CSV(out io.Writer) ([]model.DocumentTable, []Warning, error) {
	docTables, _, err := e.Tables()
	if err != nil {
		return nil, e.warnings, err
	}

	if err := emit.NewCSVWriter().WriteTables(out, docTables); err != nil {
		return docTables, e.warnings, err
	}
	return docTables, e.warnings, nil
}

// Summary reconstructs the routes and returns document-level statistics:
// route and stop counts, the longest route, and the fare range.
// This is a terminal operation that closes the underlying source.
//
// Example:
//
//	sum, _, err := farebox.Open("fares.pdf").Summary()
//	fmt.Print(sum.Format())
func (e *Extractor) Summary() (report.Summary, []Warning, error) {
	rts, _, err := e.Routes()
	if err != nil {
		return report.Summary{}, e.warnings, err
	}
	return report.Summarize(rts), e.warnings, nil
}

// PageCount returns the number of pages in the document.
// Note: This does NOT close the source, allowing further operations.
//
// Example:
//
//	ext := farebox.Open("fares.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	if err := e.ensureSource(); err != nil {
		return 0, err
	}

	if counter, ok := e.source.(interface{ PageCount() int }); ok {
		return counter.PageCount(), nil
	}
	pages, err := e.source.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// preparedPages loads the document, resolves the page selection, and
// normalizes the selected pages: repeating page noise is filtered and
// fragment text is cleaned, unless disabled.
func (e *Extractor) preparedPages() ([]model.PageFragments, error) {
	all, err := e.source.Pages()
	if err != nil {
		return nil, err
	}

	selected, err := e.selectPages(all)
	if err != nil {
		return nil, err
	}

	// Noise detection needs every page, not just the selection:
	// repetition across the document is the signal.
	var noise *layout.NoiseInfo
	if !e.options.keepPageNoise {
		noise = layout.NewNoiseFilter().Detect(all)
	}
	cleaner := e.cleaner()

	prepared := make([]model.PageFragments, len(selected))
	for i, page := range selected {
		page = noise.Filter(page)
		if cleaner != nil {
			page = cleanPage(cleaner, page)
		}
		prepared[i] = page
	}
	return prepared, nil
}

// selectPages resolves the 1-indexed page selection against the document.
// If no pages specified, returns all pages.
func (e *Extractor) selectPages(all []model.PageFragments) ([]model.PageFragments, error) {
	if len(e.options.pages) == 0 {
		return all, nil
	}

	// Convert 1-indexed to 0-indexed, dedupe, and validate
	seen := make(map[int]bool)
	var indices []int
	for _, p := range e.options.pages {
		if p < 1 || p > len(all) {
			return nil, fmt.Errorf("%w: page %d out of range (1-%d)", ErrInvalidPage, p, len(all))
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			indices = append(indices, zeroIndexed)
		}
	}

	// Sort pages in order
	sort.Ints(indices)

	selected := make([]model.PageFragments, len(indices))
	for i, idx := range indices {
		selected[i] = all[idx]
	}
	return selected, nil
}

// buildTables reconstructs each page's table. Pages are processed in
// parallel; results land in an index-addressed slice so the stitcher
// sees pages in document order regardless of completion order.
func (e *Extractor) buildTables(pages []model.PageFragments) ([]model.Table, error) {
	clusterer := layout.NewRowClustererWithConfig(e.rowConfig())
	assembler := tables.NewAssemblerWithConfig(e.tableConfig())

	built := make([]model.Table, len(pages))
	stats := make([]tables.BuildStats, len(pages))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(e.workerCount())
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows := clusterer.Cluster(page.Fragments)
			built[i], stats[i] = assembler.Build(rows, page.Index)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, page := range pages {
		e.addBuildWarnings(page.Index+1, stats[i])
	}
	return built, nil
}

// stitch folds the per-page tables into document tables, recording a
// warning at each schema break.
func (e *Extractor) stitch(pageTables []model.Table) []model.DocumentTable {
	result := tables.NewStitcherWithConfig(e.tableConfig()).Stitch(pageTables)
	for _, pageIndex := range result.SchemaBreaks {
		e.warn(WarnSchemaMismatch, pageIndex+1, "column labels changed, new table started")
	}
	return result.Tables
}

// addBuildWarnings converts one page's assembly counters to warnings.
// The page argument is 1-based.
func (e *Extractor) addBuildWarnings(page int, stats tables.BuildStats) {
	if stats.Degenerate {
		e.warn(WarnDegeneratePage, page, "no column structure resolved")
	}
	if stats.Unassigned > 0 {
		e.warn(WarnUnassignableFragment, page,
			fmt.Sprintf("%d fragments outside every column, assigned to nearest", stats.Unassigned))
	}
}

func (e *Extractor) warn(code string, page int, message string) {
	e.warnings = append(e.warnings, Warning{Code: code, Page: page, Message: message})
}

// rowConfig maps the fluent options onto the row clustering configuration.
func (e *Extractor) rowConfig() layout.RowConfig {
	config := layout.DefaultRowConfig()
	config.ToleranceFraction = e.options.rowTolerance
	return config
}

// tableConfig maps the fluent options onto the table reconstruction
// configuration shared by the assembler and the stitcher.
func (e *Extractor) tableConfig() tables.Config {
	config := tables.DefaultConfig()
	config.HeaderScanDepth = e.options.headerScanDepth
	config.KeyColumn = e.options.keyColumn
	config.CaptionPattern = e.options.captionPattern
	return config
}

// cleaner returns the configured text cleaner, or nil when cleaning is
// disabled. Each call returns a fresh instance; a Cleaner is not safe
// for concurrent use.
func (e *Extractor) cleaner() *clean.Cleaner {
	if e.options.rawText {
		return nil
	}
	config := clean.DefaultConfig()
	config.Corrections = e.options.corrections
	return clean.NewWithConfig(config)
}

// workerCount resolves the parallel worker limit.
func (e *Extractor) workerCount() int {
	if e.options.workers > 0 {
		return e.options.workers
	}
	return runtime.NumCPU()
}

// cleanPage returns the page with every fragment's text cleaned.
func cleanPage(cleaner *clean.Cleaner, page model.PageFragments) model.PageFragments {
	fragments := make([]model.Fragment, len(page.Fragments))
	for i, frag := range page.Fragments {
		frag.Text = cleaner.Clean(frag.Text)
		fragments[i] = frag
	}
	page.Fragments = fragments
	return page
}
