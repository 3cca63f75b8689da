package model

import (
	"sort"
	"strings"
)

// Fragment represents a single positioned run of text extracted from a
// page. Fragments are immutable once produced; stages that transform
// them work on copies.
type Fragment struct {
	Text     string
	BBox     BBox
	Page     int // 0-based page index
	FontSize float64
	FontName string
}

// IsEmpty returns true if the fragment carries no visible text
func (f Fragment) IsEmpty() bool {
	return strings.TrimSpace(f.Text) == ""
}

// Row represents a cluster of fragments inferred to share one visual
// text line. Fragments are ordered left to right.
type Row struct {
	YCenter   float64
	Fragments []Fragment
	Page      int
}

// Text returns the row's fragments joined with single spaces in
// left-to-right order
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Fragments))
	for _, f := range r.Fragments {
		if f.IsEmpty() {
			continue
		}
		parts = append(parts, strings.TrimSpace(f.Text))
	}
	return strings.Join(parts, " ")
}

// IsEmpty returns true if the row has no non-blank fragments
func (r Row) IsEmpty() bool {
	for _, f := range r.Fragments {
		if !f.IsEmpty() {
			return false
		}
	}
	return true
}

// BBox returns the union of the row's fragment boxes
func (r Row) BBox() BBox {
	if len(r.Fragments) == 0 {
		return BBox{}
	}
	box := r.Fragments[0].BBox
	for _, f := range r.Fragments[1:] {
		box = box.Union(f.BBox)
	}
	return box
}

// SortFragments orders the row's fragments left to right in place.
// The sort is stable so fragments sharing an x position keep their
// extraction order.
func (r *Row) SortFragments() {
	sort.SliceStable(r.Fragments, func(i, j int) bool {
		return r.Fragments[i].BBox.Left() < r.Fragments[j].BBox.Left()
	})
}

// PageFragments holds the fragments of one page together with the page
// geometry. A document is an ordered slice of these.
type PageFragments struct {
	Index     int // 0-based page index
	Width     float64
	Height    float64
	Fragments []Fragment
}

// IsEmpty returns true if the page has no fragments
func (p PageFragments) IsEmpty() bool {
	return len(p.Fragments) == 0
}
