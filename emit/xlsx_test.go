package emit

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/farebox/model"
)

func TestXLSXWriteTables(t *testing.T) {
	tables := []model.DocumentTable{
		{
			Columns: model.ColumnSet{Columns: []model.Column{
				{Label: "Route"}, {Label: "Departure"},
			}},
			Rows: []model.LogicalRow{
				{Cells: []string{"12", "08:00"}},
				{Cells: []string{"14", "09:30"}},
			},
		},
		{
			Columns: model.ColumnSet{Columns: []model.Column{
				{Label: "Stop"}, {Label: "Fare"},
			}},
			Rows: []model.LogicalRow{
				{Cells: []string{"Pettah", "12.50"}},
			},
		},
	}

	var buf bytes.Buffer
	if err := NewXLSXWriter().WriteTables(&buf, tables); err != nil {
		t.Fatalf("WriteTables() error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if !reflect.DeepEqual(sheets, []string{"Table1", "Table2"}) {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows("Table1")
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	if want := tables[0].Records(); !reflect.DeepEqual(rows, want) {
		t.Errorf("Table1 rows = %v, want %v", rows, want)
	}
}

func TestXLSXWriteRoutes(t *testing.T) {
	var buf bytes.Buffer
	if err := NewXLSXWriter().WriteRoutes(&buf, sampleRoutes()); err != nil {
		t.Fatalf("WriteRoutes() error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if !reflect.DeepEqual(sheets, []string{"Route 138"}) {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows("Route 138")
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 stops", len(rows))
	}
	if !reflect.DeepEqual(rows[0], routeHeader) {
		t.Errorf("header row = %v", rows[0])
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		number  string
		ordinal int
		want    string
	}{
		{"138", 0, "Route 138"},
		{"A/B", 1, "Route A_B"},
		{"", 2, "Route3"},
	}

	for _, tt := range tests {
		if got := sheetName(tt.number, tt.ordinal); got != tt.want {
			t.Errorf("sheetName(%q, %d) = %q, want %q", tt.number, tt.ordinal, got, tt.want)
		}
	}

	long := sheetName("0123456789012345678901234567890123456789", 0)
	if len(long) > 31 {
		t.Errorf("sheet name %q exceeds 31 characters", long)
	}
}
