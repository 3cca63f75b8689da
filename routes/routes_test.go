package routes

import (
	"testing"

	"github.com/tsawler/farebox/model"
)

// stopTable builds a document table with the given caption, header
// labels and cell rows
func stopTable(caption []string, labels []string, rows ...[]string) model.DocumentTable {
	table := model.DocumentTable{Caption: caption}
	x := 0.0
	for _, label := range labels {
		table.Columns.Columns = append(table.Columns.Columns, model.Column{
			Label: label, XMin: x, XMax: x + 90,
		})
		x += 100
	}
	for _, cells := range rows {
		table.Rows = append(table.Rows, model.LogicalRow{Cells: cells})
	}
	return table
}

func TestRoutesFromTable(t *testing.T) {
	interp := New()
	table := stopTable(
		[]string{"Route No : 138 Colombo - Kandy", "via Kegalle"},
		[]string{"No", "Fare (Rs)", "Stop Name"},
		[]string{"1", "0.00", "Colombo Fort"},
		[]string{"2", "12.50", "Peliyagoda"},
		[]string{"3", "27.00", "Kiribathgoda"},
	)

	rts, stats := interp.Routes([]model.DocumentTable{table})
	if len(rts) != 1 {
		t.Fatalf("Routes() produced %d routes, want 1", len(rts))
	}
	route := rts[0]
	if route.Number != "138" {
		t.Errorf("Number = %q, want %q", route.Number, "138")
	}
	if route.Name != "Colombo - Kandy" {
		t.Errorf("Name = %q, want %q", route.Name, "Colombo - Kandy")
	}
	if route.Through != "Kegalle" {
		t.Errorf("Through = %q, want %q", route.Through, "Kegalle")
	}
	if len(route.Stops) != 3 {
		t.Fatalf("route has %d stops, want 3", len(route.Stops))
	}
	if stats.SkippedRows != 0 || stats.BadFares != 0 {
		t.Errorf("stats = %+v, want zero counts", stats)
	}

	first := route.Stops[0]
	if first.ID != "138_001" {
		t.Errorf("first stop ID = %q, want %q", first.ID, "138_001")
	}
	if first.Sequence != 1 || first.Name != "Colombo Fort" {
		t.Errorf("first stop = %+v", first)
	}

	wantStages := []float64{0, 12.50, 14.50}
	for i, stop := range route.Stops {
		if stop.FareFromPrevious != wantStages[i] {
			t.Errorf("stop %d FareFromPrevious = %v, want %v", i, stop.FareFromPrevious, wantStages[i])
		}
	}
}

func TestRouteNameFromFollowingCaptionLine(t *testing.T) {
	interp := New()
	table := stopTable(
		[]string{"Route No : 245", "Galle - Matara"},
		[]string{"No", "Fare", "Stop Name"},
		[]string{"1", "0.00", "Galle"},
	)

	rts, _ := interp.Routes([]model.DocumentTable{table})
	if rts[0].Number != "245" {
		t.Errorf("Number = %q, want %q", rts[0].Number, "245")
	}
	if rts[0].Name != "Galle - Matara" {
		t.Errorf("Name = %q, want %q", rts[0].Name, "Galle - Matara")
	}
}

func TestRouteNumberFallsBackToOrdinal(t *testing.T) {
	interp := New()
	tables := []model.DocumentTable{
		stopTable(nil, []string{"No", "Fare", "Stop Name"}, []string{"1", "0.00", "Pettah"}),
		stopTable(nil, []string{"No", "Fare", "Stop Name"}, []string{"1", "0.00", "Fort"}),
	}

	rts, _ := interp.Routes(tables)
	if len(rts) != 2 {
		t.Fatalf("Routes() produced %d routes, want 2", len(rts))
	}
	if rts[0].Number != "table_1" || rts[1].Number != "table_2" {
		t.Errorf("numbers = %q, %q", rts[0].Number, rts[1].Number)
	}
	if rts[0].Stops[0].ID != "table_1_001" {
		t.Errorf("stop ID = %q", rts[0].Stops[0].ID)
	}
}

func TestRoutesSkipsUnparseableSequence(t *testing.T) {
	interp := New()
	table := stopTable(
		[]string{"Route No : 100"},
		[]string{"No", "Fare", "Stop Name"},
		[]string{"1", "0.00", "Pettah"},
		[]string{"Total", "58.00", ""},
		[]string{"2", "9.00", "Maradana"},
	)

	rts, stats := interp.Routes([]model.DocumentTable{table})
	if len(rts[0].Stops) != 2 {
		t.Errorf("route has %d stops, want 2", len(rts[0].Stops))
	}
	if stats.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", stats.SkippedRows)
	}
}

func TestRoutesCountsBadFares(t *testing.T) {
	interp := New()
	table := stopTable(
		[]string{"Route No : 100"},
		[]string{"No", "Fare", "Stop Name"},
		[]string{"1", "n/a", "Pettah"},
	)

	rts, stats := interp.Routes([]model.DocumentTable{table})
	if len(rts[0].Stops) != 1 {
		t.Fatalf("route has %d stops, want 1", len(rts[0].Stops))
	}
	if rts[0].Stops[0].FareFromStart != 0 {
		t.Errorf("FareFromStart = %v, want 0", rts[0].Stops[0].FareFromStart)
	}
	if stats.BadFares != 1 {
		t.Errorf("BadFares = %d, want 1", stats.BadFares)
	}
}

func TestFareStageClampsAtZero(t *testing.T) {
	interp := New()
	// The third fare dips below the second, a typical misread
	table := stopTable(
		[]string{"Route No : 100"},
		[]string{"No", "Fare", "Stop Name"},
		[]string{"1", "0.00", "a"},
		[]string{"2", "20.00", "b"},
		[]string{"3", "15.00", "c"},
		[]string{"4", "30.00", "d"},
	)

	rts, _ := interp.Routes([]model.DocumentTable{table})
	want := []float64{0, 20, 0, 15}
	for i, stop := range rts[0].Stops {
		if stop.FareFromPrevious != want[i] {
			t.Errorf("stop %d FareFromPrevious = %v, want %v", i, stop.FareFromPrevious, want[i])
		}
		if stop.FareFromPrevious < 0 {
			t.Errorf("stop %d has negative fare stage", i)
		}
	}
}

func TestFirstStopStageIsZero(t *testing.T) {
	interp := New()
	// Even when the origin itself carries a nonzero cumulative fare
	table := stopTable(
		[]string{"Route No : 100"},
		[]string{"No", "Fare", "Stop Name"},
		[]string{"1", "5.00", "a"},
		[]string{"2", "8.00", "b"},
	)

	rts, _ := interp.Routes([]model.DocumentTable{table})
	if got := rts[0].Stops[0].FareFromPrevious; got != 0 {
		t.Errorf("origin FareFromPrevious = %v, want 0", got)
	}
	if got := rts[0].Stops[1].FareFromPrevious; got != 3 {
		t.Errorf("second stop FareFromPrevious = %v, want 3", got)
	}
}

func TestMetadataIgnoresUnsetPatterns(t *testing.T) {
	interp := NewWithConfig(Config{})
	table := stopTable(
		[]string{"Route No : 138"},
		[]string{"No", "Fare", "Stop Name"},
		[]string{"1", "0.00", "Pettah"},
	)

	rts, _ := interp.Routes([]model.DocumentTable{table})
	// No patterns configured: the caption is opaque, ordinal fallback
	if rts[0].Number != "table_1" {
		t.Errorf("Number = %q, want %q", rts[0].Number, "table_1")
	}
}

func TestRoutesEmptyInput(t *testing.T) {
	interp := New()
	rts, stats := interp.Routes(nil)
	if len(rts) != 0 {
		t.Errorf("Routes(nil) produced %d routes", len(rts))
	}
	if stats.SkippedRows != 0 {
		t.Errorf("SkippedRows = %d, want 0", stats.SkippedRows)
	}
}
