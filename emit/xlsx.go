package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/farebox/model"
	"github.com/tsawler/farebox/routes"
)

// XLSXWriter serializes document tables and routes to spreadsheet
// workbooks, one sheet per table or per route
type XLSXWriter struct{}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteTables streams a workbook with one sheet per table, named
// Table1, Table2, ...
func (w *XLSXWriter) WriteTables(out io.Writer, tables []model.DocumentTable) error {
	f, err := w.tableWorkbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(out)
}

// SaveTables writes the table workbook to a file
func (w *XLSXWriter) SaveTables(path string, tables []model.DocumentTable) error {
	f, err := w.tableWorkbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteRoutes streams a workbook with one sheet per route under the
// fixed route schema
func (w *XLSXWriter) WriteRoutes(out io.Writer, rts []routes.Route) error {
	f, err := w.routeWorkbook(rts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(out)
}

// SaveRoutes writes the route workbook to a file
func (w *XLSXWriter) SaveRoutes(path string, rts []routes.Route) error {
	f, err := w.routeWorkbook(rts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func (w *XLSXWriter) tableWorkbook(tables []model.DocumentTable) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, table := range tables {
		name := fmt.Sprintf("Table%d", i+1)
		if err := addSheet(f, i == 0, name, table.Records()); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	return f, nil
}

func (w *XLSXWriter) routeWorkbook(rts []routes.Route) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, route := range rts {
		records := [][]string{routeHeader}
		for _, stop := range route.Stops {
			records = append(records, routeRecord(route, stop))
		}
		name := sheetName(route.Number, i)
		if err := addSheet(f, i == 0, name, records); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	return f, nil
}

// addSheet writes records row by row onto a new sheet. The first sheet
// renames the workbook's default sheet instead of adding one.
func addSheet(f *excelize.File, first bool, name string, records [][]string) error {
	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	for rowIndex, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+1)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(record))
		for i, value := range record {
			cells[i] = value
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// sheetName builds a sheet name from a route number, honoring the
// workbook limits: no []:*?/\ characters, at most 31 characters
func sheetName(number string, ordinal int) string {
	if number == "" {
		return fmt.Sprintf("Route%d", ordinal+1)
	}
	name := "Route " + unsafeSheetChars.Replace(number)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

var unsafeSheetChars = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", "\\", "_",
)
