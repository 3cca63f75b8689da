package layout

import (
	"reflect"
	"testing"

	"github.com/tsawler/farebox/model"
)

// makeFragment creates a test fragment with a given position and size
func makeFragment(text string, x, y, width, height float64) model.Fragment {
	return model.Fragment{
		Text:     text,
		BBox:     model.NewBBox(x, y, width, height),
		FontSize: height,
	}
}

func TestClusterEmptyInput(t *testing.T) {
	clusterer := NewRowClusterer()
	rows := clusterer.Cluster(nil)
	if len(rows) != 0 {
		t.Errorf("Cluster(nil) returned %d rows, want 0", len(rows))
	}
}

func TestClusterSingleRow(t *testing.T) {
	clusterer := NewRowClusterer()
	fragments := []model.Fragment{
		makeFragment("Route", 10, 700, 40, 10),
		makeFragment("Departure", 110, 700, 60, 10),
		makeFragment("Arrival", 210, 700, 50, 10),
	}

	rows := clusterer.Cluster(fragments)
	if len(rows) != 1 {
		t.Fatalf("Cluster() returned %d rows, want 1", len(rows))
	}
	if got := rows[0].Text(); got != "Route Departure Arrival" {
		t.Errorf("row text = %q, want %q", got, "Route Departure Arrival")
	}
}

func TestClusterTopToBottomOrder(t *testing.T) {
	clusterer := NewRowClusterer()
	// Deliberately out of extraction order
	fragments := []model.Fragment{
		makeFragment("middle", 10, 500, 50, 10),
		makeFragment("bottom", 10, 300, 50, 10),
		makeFragment("top", 10, 700, 50, 10),
	}

	rows := clusterer.Cluster(fragments)
	if len(rows) != 3 {
		t.Fatalf("Cluster() returned %d rows, want 3", len(rows))
	}

	want := []string{"top", "middle", "bottom"}
	for i, text := range want {
		if rows[i].Text() != text {
			t.Errorf("row %d = %q, want %q", i, rows[i].Text(), text)
		}
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].YCenter >= rows[i-1].YCenter {
			t.Errorf("row %d YCenter %v not below row %d YCenter %v",
				i, rows[i].YCenter, i-1, rows[i-1].YCenter)
		}
	}
}

func TestClusterToleranceBand(t *testing.T) {
	clusterer := NewRowClusterer()
	// Fragments 2 points apart vertically share a row at 10pt height
	// (tolerance 6); fragments 20 points apart do not.
	fragments := []model.Fragment{
		makeFragment("a", 10, 700, 20, 10),
		makeFragment("b", 40, 702, 20, 10),
		makeFragment("c", 10, 680, 20, 10),
	}

	rows := clusterer.Cluster(fragments)
	if len(rows) != 2 {
		t.Fatalf("Cluster() returned %d rows, want 2", len(rows))
	}
	if got := rows[0].Text(); got != "a b" {
		t.Errorf("first row = %q, want %q", got, "a b")
	}
	if got := rows[1].Text(); got != "c" {
		t.Errorf("second row = %q, want %q", got, "c")
	}
}

func TestClusterFragmentsSortedLeftToRight(t *testing.T) {
	clusterer := NewRowClusterer()
	fragments := []model.Fragment{
		makeFragment("third", 200, 700, 40, 10),
		makeFragment("first", 10, 700, 40, 10),
		makeFragment("second", 100, 700, 40, 10),
	}

	rows := clusterer.Cluster(fragments)
	if len(rows) != 1 {
		t.Fatalf("Cluster() returned %d rows, want 1", len(rows))
	}
	if got := rows[0].Text(); got != "first second third" {
		t.Errorf("row text = %q, want %q", got, "first second third")
	}
}

func TestClusterDoesNotMutateInput(t *testing.T) {
	clusterer := NewRowClusterer()
	fragments := []model.Fragment{
		makeFragment("b", 10, 300, 20, 10),
		makeFragment("a", 10, 700, 20, 10),
	}

	clusterer.Cluster(fragments)
	if fragments[0].Text != "b" || fragments[1].Text != "a" {
		t.Error("Cluster() reordered the caller's slice")
	}
}

func TestToleranceDerivation(t *testing.T) {
	clusterer := NewRowClusterer()

	tests := []struct {
		name      string
		fragments []model.Fragment
		want      float64
	}{
		{
			"from heights",
			[]model.Fragment{
				makeFragment("a", 0, 0, 10, 10),
				makeFragment("b", 0, 0, 10, 12),
				makeFragment("c", 0, 0, 10, 14),
			},
			7.2, // median height 12 * 0.6
		},
		{
			"from font size when heights missing",
			[]model.Fragment{
				{Text: "a", FontSize: 10},
				{Text: "b", FontSize: 10},
			},
			6.0,
		},
		{
			"floor when nothing available",
			[]model.Fragment{{Text: "a"}},
			2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clusterer.Tolerance(tt.fragments)
			if diff := got - tt.want; diff > 0.0001 || diff < -0.0001 {
				t.Errorf("Tolerance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClusterCustomTolerance(t *testing.T) {
	config := DefaultRowConfig()
	config.ToleranceFraction = 0.1
	clusterer := NewRowClustererWithConfig(config)

	// With the tight band these land in separate rows
	fragments := []model.Fragment{
		makeFragment("a", 10, 700, 20, 10),
		makeFragment("b", 40, 703, 20, 10),
	}

	rows := clusterer.Cluster(fragments)
	if len(rows) != 2 {
		t.Errorf("Cluster() with 0.1 fraction returned %d rows, want 2", len(rows))
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Fragments whose y-centers drift in steps smaller than the tolerance
// band must cluster identically no matter the extraction order: the
// sort is strict on y-center, so only the clustering loop sees the band.
func TestClusterDeterministicUnderChainedDrift(t *testing.T) {
	clusterer := NewRowClusterer()
	// Centers 705, 700, 695: each step is inside the 6pt band, the
	// endpoints are not.
	base := []model.Fragment{
		makeFragment("a", 10, 700, 20, 10),
		makeFragment("b", 40, 695, 20, 10),
		makeFragment("c", 70, 690, 20, 10),
		makeFragment("d", 10, 650, 20, 10),
	}

	want := rowTexts(clusterer.Cluster(base))
	orders := [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, order := range orders {
		shuffled := make([]model.Fragment, len(base))
		for i, j := range order {
			shuffled[i] = base[j]
		}
		got := rowTexts(clusterer.Cluster(shuffled))
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Cluster() with input order %v = %v, want %v", order, got, want)
		}
	}
}

func rowTexts(rows []model.Row) []string {
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.Text()
	}
	return texts
}
