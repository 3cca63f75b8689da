// Package extract turns PDF documents into positioned text fragments.
//
// [Source] is the input boundary: anything that can produce pages of
// fragments can feed the pipeline. [PDFSource] is the standard
// implementation, built on a content-stream text extractor that reports
// glyph runs with baseline coordinates. Runs sharing a baseline are
// merged into word fragments when the gap between them is smaller than
// a fraction of the font size, so "Colombo" arrives as one fragment
// even when the producing application emitted it letter by letter.
//
//	source, err := extract.Open("fares.pdf")
//	if err != nil {
//		return err
//	}
//	defer source.Close()
//
//	pages, err := source.Pages()
//
// Opening a file runs a relaxed structural validation first, so
// malformed documents fail loudly at the boundary instead of surfacing
// later as empty tables. [NewSource] skips validation and reads from
// any io.ReaderAt.
//
// [SliceSource] serves in-memory pages for tests and replays.
package extract
