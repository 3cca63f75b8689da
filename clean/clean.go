package clean

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Config holds configuration for the text cleaner
type Config struct {
	// Corrections maps known extraction garbles to their replacements.
	// Entries are applied as plain substring substitutions, longest
	// pattern first so overlapping patterns resolve the same way on
	// every run.
	Corrections map[string]string
}

// DefaultConfig returns the default cleaner configuration
func DefaultConfig() Config {
	return Config{}
}

// substitutions folds typographic variants that extraction surfaces
// for plain characters: ligature glyphs, smart quotes, the dash family,
// and spacing characters. Every replacement is plain ASCII, so applying
// the table twice is the same as applying it once.
var substitutions = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "st",
	"ﬆ", "st",
	"‘", "'",
	"’", "'",
	"‚", "'",
	"‛", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‐", "-",
	"‑", "-",
	"‒", "-",
	"–", "-",
	"—", "-",
	"―", "-",
	"−", "-",
	"…", "...",
	" ", " ",
)

// correction is one ordered substring substitution
type correction struct {
	from string
	to   string
}

// Cleaner normalizes extracted fragment text. The pipeline is NFC
// composition and width folding, typographic substitution, invisible
// rune removal, the configured correction table, and whitespace
// collapse. Clean is a pure function of its input and, with an empty
// correction table, idempotent.
type Cleaner struct {
	config      Config
	folder      transform.Transformer
	remover     transform.Transformer
	corrections []correction
}

// New creates a cleaner with default configuration
func New() *Cleaner {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a cleaner with custom configuration
func NewWithConfig(config Config) *Cleaner {
	return &Cleaner{
		config:      config,
		folder:      transform.Chain(norm.NFC, width.Fold),
		remover:     runes.Remove(runes.Predicate(droppedRune)),
		corrections: orderCorrections(config.Corrections),
	}
}

// Clean normalizes one piece of extracted text
func (c *Cleaner) Clean(text string) string {
	if text == "" {
		return ""
	}
	if folded, _, err := transform.String(c.folder, text); err == nil {
		text = folded
	}
	text = substitutions.Replace(text)
	if stripped, _, err := transform.String(c.remover, text); err == nil {
		text = stripped
	}
	for _, corr := range c.corrections {
		text = strings.ReplaceAll(text, corr.from, corr.to)
	}
	return collapseWhitespace(text)
}

// droppedRune reports runes that carry no text: soft hyphens, zero-width
// and invisible formatting characters, and non-whitespace controls.
// Whitespace controls survive so a stray line break collapses to a
// space instead of fusing its neighbors.
func droppedRune(r rune) bool {
	switch r {
	case '­', '​', '‌', '‍', '‎', '‏',
		'⁠', '⁡', '⁢', '⁣', '⁤',
		'͏', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Cc, r) && !unicode.IsSpace(r)
}

// orderCorrections fixes the application order of a correction map:
// longest pattern first, ties broken lexicographically
func orderCorrections(table map[string]string) []correction {
	if len(table) == 0 {
		return nil
	}
	ordered := make([]correction, 0, len(table))
	for from, to := range table {
		ordered = append(ordered, correction{from: from, to: to})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i].from) != len(ordered[j].from) {
			return len(ordered[i].from) > len(ordered[j].from)
		}
		return ordered[i].from < ordered[j].from
	})
	return ordered
}

// collapseWhitespace reduces every whitespace run to a single space and
// trims the ends
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
