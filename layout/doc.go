// Package layout groups the positioned fragments of a page into visual
// text rows and strips repeating page furniture.
//
// PDF pages carry no row structure, only glyph runs with absolute
// coordinates, so rows must be inferred from vertical proximity. The
// detectors here work fragment-in, row-out and hold no cross-call
// state; each page is independent.
//
// # Row Clustering
//
// The [RowClusterer] sorts fragments top to bottom and groups them with
// a tolerance band around each row's running y-center mean:
//
//	clusterer := layout.NewRowClusterer()
//	rows := clusterer.Cluster(page.Fragments)
//
// The band width adapts to the page: the median fragment height scaled
// by [RowConfig] ToleranceFraction, with font size and a fixed floor as
// fallbacks. Rows come out ordered top to bottom, their fragments left
// to right.
//
// # Noise Filtering
//
// The [NoiseFilter] finds text that repeats at a consistent position
// inside the top/bottom page bands across a document (running headers,
// footers, page numbers, watermarks) so it can be removed before rows
// are clustered:
//
//	info := layout.NewNoiseFilter().Detect(pages)
//	for i, page := range pages {
//		pages[i] = info.Filter(page)
//	}
//
// Detection needs at least [NoiseConfig] MinPages pages; single-page
// documents pass through unchanged.
package layout
