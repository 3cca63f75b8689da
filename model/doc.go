// Package model provides the intermediate representation (IR) for
// reconstructed table content.
//
// This package defines the data structures every pipeline stage produces
// and consumes: positioned text fragments on the input side, logical
// rows and stitched tables on the output side. Each stage owns the
// structures it produces and transforms them by copy, so the types here
// carry no behavior beyond accessors and small derivations.
//
// # Fragments and Rows
//
// A [Fragment] is one positioned run of text extracted from a PDF page,
// with its bounding box and font metadata. Fragment order is not
// meaningful; extraction order rarely matches reading order. A [Row] is
// a cluster of fragments inferred to share one visual text line, and a
// [PageFragments] value bundles one page's fragments with the page
// geometry:
//
//	page := model.PageFragments{Index: 0, Width: 612, Height: 792, Fragments: frags}
//
// # Tables
//
// A [ColumnSet] is the resolved schema of a table: ordered [Column]
// values with labels and non-overlapping x-ranges. It supports schema
// comparison (Matches) and nearest-column lookup (NearestIndex) for
// fragments that fall outside every range. A [LogicalRow] is one
// reconstructed record aligned to the schema; a [Table] scopes rows to
// a single page, and a [DocumentTable] is the final stitched result
// spanning page boundaries:
//
//	for _, record := range docTable.Records() {
//		fmt.Println(record)
//	}
//
// # Geometry
//
// [BBox] and [Point] use PDF page coordinates: origin at the lower-left
// corner, y growing upward. Row clustering and column resolution work
// on box centers via CenterX and CenterY.
package model
