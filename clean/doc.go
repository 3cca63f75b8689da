// Package clean normalizes text extracted from PDF content streams.
//
// Extraction surfaces text the way the producing application encoded
// it: ligature glyphs for letter pairs, typographic quotes and dashes,
// zero-width joiners, fullwidth digits, and the occasional garbled name
// from an OCR-era source document. [Cleaner] folds all of that to plain
// text so the downstream table logic can compare and emit cell values
// without caring which tool produced the PDF.
//
// # Usage
//
//	cleaner := clean.New()
//	text := cleaner.Clean("Colombo–Kandy ﬁrst trip")
//	// "Colombo-Kandy first trip"
//
// Known garbles specific to a document family go in the configuration:
//
//	cleaner := clean.NewWithConfig(clean.Config{
//		Corrections: map[string]string{"Cojombo": "Colombo"},
//	})
//
// Cleaning is applied fragment-wise, before row clustering, so every
// later stage sees normalized text.
package clean
