package extract

import (
	"github.com/tsawler/farebox/model"
)

// Source yields positioned text fragments one batch per document page.
// It is the input boundary of the pipeline: everything downstream works
// on fragments and never sees the document format.
type Source interface {
	// Pages returns every page's fragments in document order
	Pages() ([]model.PageFragments, error)

	// Close releases any resources held by the source
	Close() error
}

// SliceSource serves pages already held in memory. It backs tests and
// callers that captured fragments from an earlier extraction.
type SliceSource struct {
	pages []model.PageFragments
}

// NewSliceSource creates a source over in-memory pages
func NewSliceSource(pages []model.PageFragments) *SliceSource {
	return &SliceSource{pages: pages}
}

// Pages returns the held pages
func (s *SliceSource) Pages() ([]model.PageFragments, error) {
	return s.pages, nil
}

// Close is a no-op for in-memory pages
func (s *SliceSource) Close() error {
	return nil
}
