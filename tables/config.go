package tables

import "regexp"

// Config holds table reconstruction configuration
type Config struct {
	// HeaderScanDepth is the number of leading rows scanned for header
	// labels (default: 1)
	HeaderScanDepth int

	// KeyColumn is the index of the column whose blankness marks a
	// continuation row (default: 0)
	KeyColumn int

	// AlignmentTolerance is the clustering band for fragment x-starts in
	// points. Zero derives the band from the page's dominant fragment
	// height, the same way row clustering derives its vertical band.
	AlignmentTolerance float64

	// CaptionPattern matches title rows above the header, e.g. a route
	// metadata line. Nil disables caption capture.
	CaptionPattern *regexp.Regexp
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		HeaderScanDepth:    1,
		KeyColumn:          0,
		AlignmentTolerance: 0,
	}
}
