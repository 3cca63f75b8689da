package tables

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/farebox/layout"
	"github.com/tsawler/farebox/model"
)

// ColumnResolver determines the column schema of a page from its
// clustered rows. The header row seeds labels and x-ranges when one is
// present; otherwise boundaries are inferred from the column density of
// all rows.
type ColumnResolver struct {
	config Config
}

// NewColumnResolver creates a resolver with default configuration
func NewColumnResolver() *ColumnResolver {
	return &ColumnResolver{
		config: DefaultConfig(),
	}
}

// NewColumnResolverWithConfig creates a resolver with custom configuration
func NewColumnResolverWithConfig(config Config) *ColumnResolver {
	return &ColumnResolver{
		config: config,
	}
}

// Resolution is the outcome of resolving one page's schema
type Resolution struct {
	// Columns is the resolved schema; empty for a degenerate page
	Columns model.ColumnSet

	// Caption holds the assembled text of leading rows matched by the
	// caption pattern, in page order
	Caption []string

	// HeaderRows is the number of rows consumed as header, after any
	// caption rows
	HeaderRows int
}

// ConsumedRows returns the number of leading rows that are not data
func (r Resolution) ConsumedRows() int {
	return len(r.Caption) + r.HeaderRows
}

// Resolve determines the schema for a page of rows. Leading rows that
// match the caption pattern are captured first; the remaining leading
// rows are scanned for a header up to the configured depth. When no
// header-like row is found the schema falls back to x-start density
// with generated col_N labels.
func (r *ColumnResolver) Resolve(rows []model.Row) Resolution {
	res := Resolution{}

	rest := rows
	if r.config.CaptionPattern != nil {
		for len(rest) > 0 {
			text := rest[0].Text()
			if !r.config.CaptionPattern.MatchString(text) {
				break
			}
			res.Caption = append(res.Caption, text)
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return res
	}

	depth := r.config.HeaderScanDepth
	if depth > len(rest) {
		depth = len(rest)
	}
	consumed := 0
	for consumed < depth && headerLike(rest[consumed]) {
		consumed++
	}

	if consumed > 0 {
		res.Columns = r.fromHeader(rest[:consumed], rest[consumed:])
		res.HeaderRows = consumed
		return res
	}

	res.Columns = r.fromDensity(rest)
	return res
}

// extent tracks the occupied x-range of one column during resolution
type extent struct {
	min float64
	max float64
}

// fromHeader seeds columns from the header rows, widens each column's
// extent with the data fragments nearest to it, then splits the gaps
// between neighboring extents at their midpoints.
func (r *ColumnResolver) fromHeader(header, data []model.Row) model.ColumnSet {
	var labels []string
	var extents []extent

	for _, frag := range header[0].Fragments {
		if frag.IsEmpty() {
			continue
		}
		labels = append(labels, strings.TrimSpace(frag.Text))
		extents = append(extents, extent{min: frag.BBox.Left(), max: frag.BBox.Right()})
	}
	if len(labels) == 0 {
		return model.ColumnSet{}
	}

	// Additional header rows merge into the nearest seeded column,
	// extending its label and range (multi-line headers)
	for _, row := range header[1:] {
		for _, frag := range row.Fragments {
			if frag.IsEmpty() {
				continue
			}
			idx := nearestExtent(extents, frag.BBox.CenterX())
			labels[idx] += " " + strings.TrimSpace(frag.Text)
			extents[idx] = widen(extents[idx], frag)
		}
	}

	for _, row := range data {
		for _, frag := range row.Fragments {
			if frag.IsEmpty() {
				continue
			}
			idx := nearestExtent(extents, frag.BBox.CenterX())
			extents[idx] = widen(extents[idx], frag)
		}
	}

	return partition(labels, extents, false)
}

// fromDensity clusters fragment x-starts across all rows and labels the
// resulting columns col_0..col_N
func (r *ColumnResolver) fromDensity(rows []model.Row) model.ColumnSet {
	var fragments []model.Fragment
	for _, row := range rows {
		for _, frag := range row.Fragments {
			if !frag.IsEmpty() {
				fragments = append(fragments, frag)
			}
		}
	}
	if len(fragments) == 0 {
		return model.ColumnSet{}
	}

	tolerance := r.xTolerance(fragments)

	starts := make([]float64, len(fragments))
	for i, frag := range fragments {
		starts[i] = frag.BBox.Left()
	}
	sort.Float64s(starts)
	centers := clusterValues(starts, tolerance)

	extents := make([]extent, len(centers))
	counts := make([]int, len(centers))
	for i := range extents {
		extents[i] = extent{min: math.Inf(1), max: math.Inf(-1)}
	}
	for _, frag := range fragments {
		idx := nearestCenter(centers, frag.BBox.Left())
		extents[idx] = widen(extents[idx], frag)
		counts[idx]++
	}

	// Averaged centers can leave a cluster with nothing nearest to it
	var labels []string
	occupied := extents[:0]
	for i := range extents {
		if counts[i] == 0 {
			continue
		}
		occupied = append(occupied, extents[i])
	}
	for i := range occupied {
		labels = append(labels, fmt.Sprintf("col_%d", i))
	}

	return partition(labels, occupied, true)
}

// xTolerance returns the configured x-start clustering band, deriving
// it from the fragments when unset
func (r *ColumnResolver) xTolerance(fragments []model.Fragment) float64 {
	if r.config.AlignmentTolerance > 0 {
		return r.config.AlignmentTolerance
	}
	return layout.NewRowClusterer().Tolerance(fragments)
}

// partition converts per-column content extents into the final schema:
// each boundary between neighbors falls at the midpoint of the gap
// between their extents, so fragments in ambiguous territory resolve by
// nearest boundary rather than exact containment. Boundaries come out
// non-overlapping and cover every assigned extent.
func partition(labels []string, extents []extent, synthetic bool) model.ColumnSet {
	if len(extents) == 0 {
		return model.ColumnSet{}
	}

	cols := make([]model.Column, len(extents))
	for i := range extents {
		cols[i] = model.Column{Label: labels[i], XMin: extents[i].min, XMax: extents[i].max}
	}
	for i := 0; i < len(cols)-1; i++ {
		cut := (extents[i].max + extents[i+1].min) / 2
		// Overlapping extents could push the cut outside a neighbor;
		// clamping keeps every range ordered and non-inverted
		if cut < cols[i].XMin {
			cut = cols[i].XMin
		}
		if cut > extents[i+1].max {
			cut = extents[i+1].max
		}
		cols[i].XMax = cut
		cols[i+1].XMin = cut
	}

	return model.ColumnSet{Columns: cols, Synthetic: synthetic}
}

// dataToken matches cell text that reads as data rather than a label:
// a leading digit followed by digits and numeric punctuation (fares,
// times, sequence numbers, ranges)
var dataToken = regexp.MustCompile(`^[0-9][0-9.,:/%\-]*$`)

// headerLike reports whether a row looks like column labels rather than
// a data record. A row whose cells are mostly numeric is data.
func headerLike(row model.Row) bool {
	nonEmpty := 0
	numeric := 0
	for _, frag := range row.Fragments {
		text := strings.TrimSpace(frag.Text)
		if text == "" {
			continue
		}
		nonEmpty++
		if dataToken.MatchString(text) {
			numeric++
		}
	}
	if nonEmpty == 0 {
		return false
	}
	return numeric*2 < nonEmpty
}

// widen grows an extent to include a fragment's x-range
func widen(e extent, frag model.Fragment) extent {
	if frag.BBox.Left() < e.min {
		e.min = frag.BBox.Left()
	}
	if frag.BBox.Right() > e.max {
		e.max = frag.BBox.Right()
	}
	return e
}

// nearestExtent returns the index of the extent closest to x
func nearestExtent(extents []extent, x float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, e := range extents {
		var d float64
		switch {
		case x < e.min:
			d = e.min - x
		case x > e.max:
			d = x - e.max
		}
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// nearestCenter returns the index of the cluster center closest to x
func nearestCenter(centers []float64, x float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centers {
		d := math.Abs(c - x)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// clusterValues clusters nearby sorted values within the tolerance,
// averaging values that fall within the tolerance of the running
// cluster center
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}
	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}

	return clustered
}
