package farebox

import (
	"fmt"
	"strings"
)

// Warning codes reported by terminal operations.
const (
	// WarnDegeneratePage marks a page where no column structure could be
	// resolved. The page contributes no table rows.
	WarnDegeneratePage = "degenerate_page"

	// WarnSchemaMismatch marks a page whose column labels differ from the
	// table in progress. Stitching starts a new table at that page.
	WarnSchemaMismatch = "schema_mismatch"

	// WarnUnassignableFragment marks a page with fragments outside every
	// column extent. Those fragments were assigned to the nearest column.
	WarnUnassignableFragment = "unassignable_fragment"

	// WarnSkippedRow marks data rows dropped during route interpretation
	// because the sequence column would not parse.
	WarnSkippedRow = "skipped_row"

	// WarnBadFare marks stops whose fare column would not parse. Those
	// stops keep a zero fare.
	WarnBadFare = "bad_fare"
)

// Warning is a non-fatal condition observed while reconstructing tables.
// Terminal operations return the warnings accumulated during processing
// so callers can decide whether the output needs review.
type Warning struct {
	// Code identifies the condition (one of the Warn constants).
	Code string

	// Page is the 1-based page number the condition was observed on,
	// or 0 when the condition spans the whole document.
	Page int

	// Message describes the specific occurrence.
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s: %s", w.Page, w.Code, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// FormatWarnings formats a slice of warnings as a single line suitable
// for logging.
//
// Example:
//
//	tables, warnings, err := farebox.Open("fares.pdf").Tables()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", farebox.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
