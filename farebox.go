// Package farebox reconstructs route and fare tables from the positioned
// text of transit timetable PDFs.
//
// Basic usage:
//
//	tables, warnings, err := farebox.Open("fares.pdf").Tables()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", farebox.FormatWarnings(warnings))
//	}
//
// With options:
//
//	rts, _, err := farebox.Open("fares.pdf").
//	    PageRange(2, 40).
//	    RowTolerance(0.8).
//	    Corrections(map[string]string{"Co!ombo": "Colombo"}).
//	    Routes()
//
// For advanced use cases, the lower-level extract, layout, tables and
// routes packages are also available.
package farebox

import (
	"github.com/tsawler/farebox/extract"
)

// Open opens a PDF file and returns an Extractor for fluent configuration.
// The returned Extractor must be closed when done, either explicitly via
// Close() or implicitly when calling a terminal operation like Tables().
//
// Example:
//
//	tables, warnings, err := farebox.Open("fares.pdf").Tables()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSource creates an Extractor from an already-open fragment source.
// This is useful for feeding fragments captured elsewhere, or an
// extract.SliceSource in tests.
// Note: The caller is responsible for closing the source.
//
// Example:
//
//	src, err := extract.Open("fares.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer src.Close()
//	tables, warnings, err := farebox.FromSource(src).Tables()
func FromSource(src extract.Source) *Extractor {
	return &Extractor{
		source:     src,
		ownsSource: false,
		options:    defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := farebox.Must(farebox.Open("fares.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables is a helper that wraps a call to a terminal operation and
// panics if the error is non-nil. It discards warnings and returns just
// the value. It is intended for use in scripts or tests where error
// handling would be cumbersome.
//
// Example:
//
//	tables := farebox.MustTables(farebox.Open("fares.pdf").Tables())
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
