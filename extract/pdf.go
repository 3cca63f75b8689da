package extract

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/farebox/model"
)

// US Letter, used when a page carries no readable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// baselineTolerance is the y drift two glyph runs may show and still
// count as sharing a baseline during word assembly
const baselineTolerance = 2.0

// fallbackGap is the word gap threshold for runs reporting no font size
const fallbackGap = 3.0

// Config holds configuration for the PDF fragment source
type Config struct {
	// WordSpaceFraction scales a run's font size into the widest gap
	// still merged into the same word fragment. Gaps above it start a
	// new fragment.
	WordSpaceFraction float64

	// Preflight validates the document structure before opening it
	Preflight bool
}

// DefaultConfig returns the default source configuration
func DefaultConfig() Config {
	return Config{
		WordSpaceFraction: 0.3,
		Preflight:         true,
	}
}

// PDFSource reads positioned text from a PDF document. Glyph runs
// sharing a baseline are merged into word fragments; fragment height is
// approximated by font size since the format reports baselines only.
type PDFSource struct {
	config Config
	file   *os.File
	reader *pdf.Reader
}

// Open opens a PDF file with default configuration
func Open(path string) (*PDFSource, error) {
	return OpenWithConfig(path, DefaultConfig())
}

// OpenWithConfig opens a PDF file with custom configuration
func OpenWithConfig(path string, config Config) (*PDFSource, error) {
	if config.Preflight {
		if err := Validate(path); err != nil {
			return nil, err
		}
	}
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &PDFSource{config: config, file: file, reader: reader}, nil
}

// NewSource creates a source over an already open reader. The caller
// keeps ownership of the underlying reader's lifetime.
func NewSource(r io.ReaderAt, size int64) (*PDFSource, error) {
	return NewSourceWithConfig(r, size, DefaultConfig())
}

// NewSourceWithConfig creates a source over an already open reader with
// custom configuration. Preflight does not apply, there is no file path
// to validate.
func NewSourceWithConfig(r io.ReaderAt, size int64, config Config) (*PDFSource, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return &PDFSource{config: config, reader: reader}, nil
}

// PageCount reports the number of pages in the document
func (s *PDFSource) PageCount() int {
	return s.reader.NumPage()
}

// Pages extracts word fragments from every page in document order.
// Pages that cannot be decoded come back empty rather than failing the
// whole document.
func (s *PDFSource) Pages() ([]model.PageFragments, error) {
	total := s.reader.NumPage()
	pages := make([]model.PageFragments, 0, total)

	for num := 1; num <= total; num++ {
		index := num - 1
		page := s.reader.Page(num)
		if page.V.IsNull() {
			pages = append(pages, model.PageFragments{
				Index:  index,
				Width:  defaultPageWidth,
				Height: defaultPageHeight,
			})
			continue
		}

		width, height := pageDimensions(page)
		pages = append(pages, model.PageFragments{
			Index:     index,
			Width:     width,
			Height:    height,
			Fragments: s.pageFragments(page, index),
		})
	}
	return pages, nil
}

// Close releases the underlying file. Safe to call more than once.
func (s *PDFSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// pageFragments decodes one page's content stream into word fragments.
// Content decoding panics on some malformed streams; those pages yield
// no fragments instead of crashing the extraction.
func (s *PDFSource) pageFragments(page pdf.Page, index int) (fragments []model.Fragment) {
	defer func() {
		if recover() != nil {
			fragments = nil
		}
	}()
	return s.assembleWords(page.Content().Text, index)
}

// assembleWords merges positioned glyph runs into word fragments. Runs
// are ordered top-to-bottom then left-to-right; on a shared baseline a
// run joins the current word while the gap to it stays within the word
// space threshold.
func (s *PDFSource) assembleWords(texts []pdf.Text, pageIndex int) []model.Fragment {
	runs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		runs = append(runs, t)
	}
	if len(runs) == 0 {
		return nil
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if !sameBaseline(runs[i].Y, runs[j].Y) {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var fragments []model.Fragment
	var word strings.Builder
	var start pdf.Text
	var right float64

	flush := func() {
		if word.Len() == 0 {
			return
		}
		fragments = append(fragments, model.Fragment{
			Text:     word.String(),
			BBox:     model.NewBBox(start.X, start.Y, right-start.X, start.FontSize),
			Page:     pageIndex,
			FontSize: start.FontSize,
			FontName: start.Font,
		})
		word.Reset()
	}

	for _, t := range runs {
		if word.Len() > 0 && sameBaseline(start.Y, t.Y) {
			gap := t.X - right
			threshold := s.config.WordSpaceFraction * start.FontSize
			if start.FontSize == 0 {
				threshold = fallbackGap
			}
			if gap <= threshold {
				word.WriteString(t.S)
				if end := t.X + t.W; end > right {
					right = end
				}
				continue
			}
		}
		flush()
		start = t
		right = t.X + t.W
		word.WriteString(t.S)
	}
	flush()

	return fragments
}

func sameBaseline(y1, y2 float64) bool {
	diff := y1 - y2
	if diff < 0 {
		diff = -diff
	}
	return diff <= baselineTolerance
}

// pageDimensions reads the page MediaBox, falling back to US Letter
// when it is missing or malformed
func pageDimensions(page pdf.Page) (width, height float64) {
	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Kind() != pdf.Array || box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}

	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		val := box.Index(i)
		switch val.Kind() {
		case pdf.Integer:
			coords[i] = float64(val.Int64())
		case pdf.Real:
			coords[i] = val.Float64()
		default:
			return defaultPageWidth, defaultPageHeight
		}
	}

	width = coords[2] - coords[0]
	height = coords[3] - coords[1]
	if width <= 0 || height <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return width, height
}
