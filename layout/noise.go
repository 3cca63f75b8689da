package layout

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/farebox/model"
)

// NoiseConfig holds configuration for page-noise detection
type NoiseConfig struct {
	// HeaderBandHeight is the distance from the top of the page scanned
	// for running headers (default: 72 points, 1 inch)
	HeaderBandHeight float64

	// FooterBandHeight is the distance from the bottom of the page scanned
	// for running footers (default: 72 points)
	FooterBandHeight float64

	// MinOccurrenceRatio is the minimum fraction of pages a text must
	// repeat on to count as noise (default: 0.5)
	MinOccurrenceRatio float64

	// PositionTolerance is the maximum Y drift for repeats to be treated
	// as the same element (default: 5 points)
	PositionTolerance float64

	// XPositionTolerance is the maximum X drift for repeats (default: 10 points)
	XPositionTolerance float64

	// MinPages is the minimum document length for repetition analysis (default: 2)
	MinPages int
}

// DefaultNoiseConfig returns sensible default configuration
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		HeaderBandHeight:   72.0,
		FooterBandHeight:   72.0,
		MinOccurrenceRatio: 0.5,
		PositionTolerance:  5.0,
		XPositionTolerance: 10.0,
		MinPages:           2,
	}
}

// NoiseFilter detects text that repeats at consistent positions across
// pages (running headers, footers, page numbers, watermarks) so it can
// be removed before row clustering.
type NoiseFilter struct {
	config NoiseConfig
}

// NewNoiseFilter creates a noise filter with default configuration
func NewNoiseFilter() *NoiseFilter {
	return &NoiseFilter{
		config: DefaultNoiseConfig(),
	}
}

// NewNoiseFilterWithConfig creates a noise filter with custom configuration
func NewNoiseFilterWithConfig(config NoiseConfig) *NoiseFilter {
	return &NoiseFilter{
		config: config,
	}
}

// NoiseInfo holds the repeating elements detected across a document
type NoiseInfo struct {
	// Repeated lists the detected repeating elements
	Repeated []RepeatedText

	// Config used for detection
	Config NoiseConfig
}

// RepeatedText describes one repeating header/footer element
type RepeatedText struct {
	// Normalized is the comparison form of the text (digits folded to #)
	Normalized string

	// Y is the typical distance from the page edge (top for headers,
	// bottom for footers)
	Y float64

	// X is the typical left position
	X float64

	// IsPageNumber marks standalone page-number elements
	IsPageNumber bool

	// Pages lists the 0-based pages the element was seen on
	Pages []int
}

// noiseCandidate is one band fragment considered for repetition analysis
type noiseCandidate struct {
	normalized string
	x          float64
	edgeDist   float64 // distance from the nearest page edge
	top        bool
	page       int
}

// Detect scans the document for repeating band text. Documents shorter
// than MinPages yield an empty result; Filter then removes nothing.
func (f *NoiseFilter) Detect(pages []model.PageFragments) *NoiseInfo {
	info := &NoiseInfo{Config: f.config}
	if len(pages) < f.config.MinPages {
		return info
	}

	groups := make(map[string][]noiseCandidate)
	for _, page := range pages {
		for _, frag := range page.Fragments {
			cand, ok := f.bandCandidate(frag, page)
			if !ok {
				continue
			}
			key := cand.normalized
			if cand.top {
				key = "^" + key
			}
			groups[key] = append(groups[key], cand)
		}
	}

	minOccurrences := int(float64(len(pages)) * f.config.MinOccurrenceRatio)
	if minOccurrences < f.config.MinPages {
		minOccurrences = f.config.MinPages
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]
		pageNumber := isPageNumberText(group[0].normalized)

		// Short non-numeric text is usually a stray glyph, not a header
		if len(group[0].normalized) <= 2 && !pageNumber {
			continue
		}

		seen := make(map[int]bool)
		for _, c := range group {
			seen[c.page] = true
		}
		// Page numbers are noise by pattern alone; other band text must
		// repeat at a consistent position
		if !pageNumber {
			if len(seen) < minOccurrences {
				continue
			}
			if !f.consistentPosition(group) {
				continue
			}
		}

		indices := make([]int, 0, len(seen))
		for idx := range seen {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		info.Repeated = append(info.Repeated, RepeatedText{
			Normalized:   group[0].normalized,
			Y:            group[0].edgeDist,
			X:            group[0].x,
			IsPageNumber: pageNumber,
			Pages:        indices,
		})
	}

	return info
}

// bandCandidate classifies a fragment into the header or footer band.
// Fragments in the page body are never noise candidates.
func (f *NoiseFilter) bandCandidate(frag model.Fragment, page model.PageFragments) (noiseCandidate, bool) {
	text := strings.TrimSpace(frag.Text)
	if text == "" {
		return noiseCandidate{}, false
	}

	height := page.Height
	if height <= 0 {
		return noiseCandidate{}, false
	}

	fromTop := height - frag.BBox.Top()
	fromBottom := frag.BBox.Bottom()

	switch {
	case fromTop < f.config.HeaderBandHeight:
		return noiseCandidate{
			normalized: normalizeNoiseText(text),
			x:          frag.BBox.Left(),
			edgeDist:   fromTop,
			top:        true,
			page:       page.Index,
		}, true
	case fromBottom < f.config.FooterBandHeight:
		return noiseCandidate{
			normalized: normalizeNoiseText(text),
			x:          frag.BBox.Left(),
			edgeDist:   fromBottom,
			page:       page.Index,
		}, true
	}
	return noiseCandidate{}, false
}

// consistentPosition checks that all occurrences sit at nearly the same
// spot on their pages
func (f *NoiseFilter) consistentPosition(group []noiseCandidate) bool {
	ref := group[0]
	for _, c := range group[1:] {
		if math.Abs(c.edgeDist-ref.edgeDist) > f.config.PositionTolerance {
			return false
		}
		if math.Abs(c.x-ref.x) > f.config.XPositionTolerance {
			return false
		}
	}
	return true
}

// IsNoise reports whether a fragment matches a detected repeating element
func (info *NoiseInfo) IsNoise(frag model.Fragment, page model.PageFragments) bool {
	if info == nil || len(info.Repeated) == 0 {
		return false
	}

	text := strings.TrimSpace(frag.Text)
	if text == "" {
		return false
	}
	normalized := normalizeNoiseText(text)

	fromTop := page.Height - frag.BBox.Top()
	fromBottom := frag.BBox.Bottom()

	for _, rep := range info.Repeated {
		if rep.IsPageNumber {
			inBand := fromTop < info.Config.HeaderBandHeight || fromBottom < info.Config.FooterBandHeight
			if inBand && isPageNumberText(normalized) {
				return true
			}
			continue
		}
		if normalized != rep.Normalized {
			continue
		}
		dist := fromBottom
		if fromTop < fromBottom {
			dist = fromTop
		}
		if math.Abs(dist-rep.Y) <= info.Config.PositionTolerance &&
			math.Abs(frag.BBox.Left()-rep.X) <= info.Config.XPositionTolerance {
			return true
		}
	}
	return false
}

// Filter returns a copy of the page with all noise fragments removed
func (info *NoiseInfo) Filter(page model.PageFragments) model.PageFragments {
	if info == nil || len(info.Repeated) == 0 {
		return page
	}

	kept := make([]model.Fragment, 0, len(page.Fragments))
	for _, frag := range page.Fragments {
		if info.IsNoise(frag, page) {
			continue
		}
		kept = append(kept, frag)
	}

	return model.PageFragments{
		Index:     page.Index,
		Width:     page.Width,
		Height:    page.Height,
		Fragments: kept,
	}
}

// Count returns the number of detected repeating elements
func (info *NoiseInfo) Count() int {
	if info == nil {
		return 0
	}
	return len(info.Repeated)
}

var digitRun = regexp.MustCompile(`\d+`)

// normalizeNoiseText folds digit runs to # so "Page 1" and "Page 2"
// compare equal
func normalizeNoiseText(text string) string {
	return digitRun.ReplaceAllString(strings.TrimSpace(text), "#")
}

// isPageNumberText checks if normalized text looks like a standalone
// page number
func isPageNumberText(normalized string) bool {
	patterns := []string{
		"#",           // "3"
		"page #",      // "Page 3"
		"- # -",       // "- 3 -"
		"# of #",      // "3 of 12"
		"page # of #", // "Page 3 of 12"
		"#/#",         // "3/12"
		"p. #",        // "p. 3"
		"p.#",         // "p.3"
		"pg #",        // "pg 3"
		"pg. #",       // "pg. 3"
	}

	trimmed := strings.TrimSpace(normalized)
	for _, pattern := range patterns {
		if strings.EqualFold(trimmed, pattern) {
			return true
		}
	}
	return false
}
