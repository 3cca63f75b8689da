package farebox

import "errors"

// Sentinel errors returned by terminal operations. Call sites wrap them
// with the offending value; match with errors.Is.
var (
	// ErrNoSource indicates a terminal operation ran on an Extractor
	// created without a file path or source.
	ErrNoSource = errors.New("farebox: no source specified")

	// ErrInvalidPage indicates a page selection outside the document.
	ErrInvalidPage = errors.New("farebox: invalid page")
)
