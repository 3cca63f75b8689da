package layout

import (
	"math"
	"sort"

	"github.com/tsawler/farebox/model"
)

// RowConfig holds configuration for row clustering
type RowConfig struct {
	// ToleranceFraction is the y-distance tolerance for grouping fragments
	// into rows, as a fraction of the dominant fragment height (default: 0.6)
	ToleranceFraction float64

	// MinimumTolerance is the tolerance floor in points, used when fragment
	// heights and font sizes are both unavailable (default: 2 points)
	MinimumTolerance float64
}

// DefaultRowConfig returns sensible default configuration
func DefaultRowConfig() RowConfig {
	return RowConfig{
		ToleranceFraction: 0.6,
		MinimumTolerance:  2.0,
	}
}

// RowClusterer groups the fragments of one page into visual text rows
type RowClusterer struct {
	config RowConfig
}

// NewRowClusterer creates a row clusterer with default configuration
func NewRowClusterer() *RowClusterer {
	return &RowClusterer{
		config: DefaultRowConfig(),
	}
}

// NewRowClustererWithConfig creates a row clusterer with custom configuration
func NewRowClustererWithConfig(config RowConfig) *RowClusterer {
	return &RowClusterer{
		config: config,
	}
}

// Cluster groups fragments into rows ordered top to bottom, each row's
// fragments ordered left to right. A fragment joins the current row when
// its y-center lies within the tolerance band of the row's running mean;
// otherwise it opens a new row. An empty input yields an empty sequence.
func (c *RowClusterer) Cluster(fragments []model.Fragment) []model.Row {
	if len(fragments) == 0 {
		return nil
	}

	tolerance := c.Tolerance(fragments)

	// Sort by y-center descending (top of page first). The comparison is
	// strict; the tolerance band applies only in the clustering loop
	// below, so row order is deterministic for any input. Fragments with
	// equal y keep their extraction order until the per-row x sort.
	sorted := make([]model.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.CenterY() > sorted[j].BBox.CenterY()
	})

	var rows []model.Row
	var current []model.Fragment
	var ySum float64

	for _, frag := range sorted {
		y := frag.BBox.CenterY()

		if len(current) == 0 {
			current = append(current, frag)
			ySum = y
			continue
		}

		mean := ySum / float64(len(current))
		if math.Abs(y-mean) <= tolerance {
			current = append(current, frag)
			ySum += y
		} else {
			rows = append(rows, finalizeRow(current, ySum))
			current = []model.Fragment{frag}
			ySum = y
		}
	}

	if len(current) > 0 {
		rows = append(rows, finalizeRow(current, ySum))
	}

	return rows
}

// Tolerance derives the clustering band for a set of fragments: the
// median fragment height scaled by the configured fraction, falling back
// to the median font size and then to the fixed floor.
func (c *RowClusterer) Tolerance(fragments []model.Fragment) float64 {
	heights := make([]float64, 0, len(fragments))
	for _, f := range fragments {
		if f.BBox.Height > 0 {
			heights = append(heights, f.BBox.Height)
		}
	}
	if len(heights) == 0 {
		for _, f := range fragments {
			if f.FontSize > 0 {
				heights = append(heights, f.FontSize)
			}
		}
	}
	if len(heights) == 0 {
		return c.config.MinimumTolerance
	}

	tolerance := median(heights) * c.config.ToleranceFraction
	if tolerance < c.config.MinimumTolerance {
		tolerance = c.config.MinimumTolerance
	}
	return tolerance
}

func finalizeRow(fragments []model.Fragment, ySum float64) model.Row {
	row := model.Row{
		YCenter:   ySum / float64(len(fragments)),
		Fragments: fragments,
		Page:      fragments[0].Page,
	}
	row.SortFragments()
	return row
}

// median returns the median of values. The slice is sorted in place.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
