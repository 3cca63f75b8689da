package emit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/tsawler/farebox/model"
	"github.com/tsawler/farebox/routes"
)

// routeHeader is the fixed schema for route records
var routeHeader = []string{
	"route_number",
	"route_name",
	"route_through",
	"stop_id",
	"stop_sequence",
	"stop_name",
	"fare_from_start",
	"fare_from_previous",
}

// CSVConfig holds configuration for CSV output
type CSVConfig struct {
	// Delimiter is the field separator, comma when unset
	Delimiter rune

	// BOM prefixes output with a UTF-8 byte order mark so spreadsheet
	// applications pick up the encoding on direct import
	BOM bool
}

// DefaultCSVConfig returns the default CSV configuration
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{Delimiter: ','}
}

// CSVWriter serializes document tables and routes to CSV. Quoting
// follows the standard rules, so embedded newlines from multi-line cell
// merges survive a round trip through any conforming reader.
type CSVWriter struct {
	config CSVConfig
}

// NewCSVWriter creates a CSV writer with default configuration
func NewCSVWriter() *CSVWriter {
	return NewCSVWriterWithConfig(DefaultCSVConfig())
}

// NewCSVWriterWithConfig creates a CSV writer with custom configuration
func NewCSVWriterWithConfig(config CSVConfig) *CSVWriter {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	return &CSVWriter{config: config}
}

// WriteTable writes one document table: a header row of column labels,
// then one line per logical row
func (w *CSVWriter) WriteTable(out io.Writer, table model.DocumentTable) error {
	if err := w.writeBOM(out); err != nil {
		return err
	}
	return w.writeRecords(out, table.Records())
}

// WriteTables writes several document tables to one stream, separated
// by a blank line, each with its own header row
func (w *CSVWriter) WriteTables(out io.Writer, tables []model.DocumentTable) error {
	if err := w.writeBOM(out); err != nil {
		return err
	}
	for i, table := range tables {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return err
			}
		}
		if err := w.writeRecords(out, table.Records()); err != nil {
			return fmt.Errorf("table %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteRoutes writes all routes' stops as one consolidated record
// stream under the fixed route schema
func (w *CSVWriter) WriteRoutes(out io.Writer, rts []routes.Route) error {
	if err := w.writeBOM(out); err != nil {
		return err
	}
	records := [][]string{routeHeader}
	for _, route := range rts {
		for _, stop := range route.Stops {
			records = append(records, routeRecord(route, stop))
		}
	}
	return w.writeRecords(out, records)
}

// WriteRouteFiles writes all_routes.csv plus one route_<number>.csv per
// route into dir, creating it if needed. Route numbers are sanitized
// for use in file names.
func (w *CSVWriter) WriteRouteFiles(dir string, rts []routes.Route) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := w.writeRouteFile(filepath.Join(dir, "all_routes.csv"), rts); err != nil {
		return err
	}
	for _, route := range rts {
		name := fmt.Sprintf("route_%s.csv", sanitizeFileName(route.Number))
		if err := w.writeRouteFile(filepath.Join(dir, name), []routes.Route{route}); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeRouteFile(path string, rts []routes.Route) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.WriteRoutes(f, rts); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (w *CSVWriter) writeRecords(out io.Writer, records [][]string) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.config.Delimiter
	return cw.WriteAll(records)
}

func (w *CSVWriter) writeBOM(out io.Writer) error {
	if !w.config.BOM {
		return nil
	}
	_, err := io.WriteString(out, "\uFEFF")
	return err
}

// routeRecord flattens one stop into the fixed route schema
func routeRecord(route routes.Route, stop routes.Stop) []string {
	return []string{
		route.Number,
		route.Name,
		route.Through,
		stop.ID,
		strconv.Itoa(stop.Sequence),
		stop.Name,
		fmt.Sprintf("%.2f", stop.FareFromStart),
		fmt.Sprintf("%.2f", stop.FareFromPrevious),
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// sanitizeFileName makes a route number safe to embed in a file name
func sanitizeFileName(name string) string {
	if name == "" {
		return "unnumbered"
	}
	return unsafeFileChars.ReplaceAllString(name, "_")
}
