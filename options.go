package farebox

import "regexp"

// defaultCaptionPattern matches the route metadata lines that precede a
// fare table header, e.g. "Route No. 138 Colombo - Kandy" or "Via Kegalle".
var defaultCaptionPattern = regexp.MustCompile(`(?i)^(route\s*no|via)\b`)

// ExtractOptions holds configuration for table reconstruction.
type ExtractOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Row clustering
	rowTolerance float64 // fraction of median fragment height

	// Table structure
	headerScanDepth int
	keyColumn       int
	captionPattern  *regexp.Regexp

	// Text normalization
	rawText     bool // skip text cleaning
	corrections map[string]string

	// Noise filtering
	keepPageNoise bool // keep repeating headers, footers and page numbers

	// Parallelism
	workers int // 0 means one worker per CPU
}

// defaultOptions returns the default reconstruction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:           nil, // nil means all pages
		rowTolerance:    0.6,
		headerScanDepth: 1,
		keyColumn:       0,
		captionPattern:  defaultCaptionPattern,
		rawText:         false,
		corrections:     nil,
		keepPageNoise:   false,
		workers:         0,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		rowTolerance:    o.rowTolerance,
		headerScanDepth: o.headerScanDepth,
		keyColumn:       o.keyColumn,
		captionPattern:  o.captionPattern,
		rawText:         o.rawText,
		keepPageNoise:   o.keepPageNoise,
		workers:         o.workers,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	// Deep copy corrections map
	if o.corrections != nil {
		newOpts.corrections = make(map[string]string, len(o.corrections))
		for from, to := range o.corrections {
			newOpts.corrections[from] = to
		}
	}

	return newOpts
}
