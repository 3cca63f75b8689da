package routes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/farebox/model"
)

// Stop is one halt on a route with its fare stage
type Stop struct {
	// ID is the stable stop identifier, route number plus zero-padded
	// sequence
	ID string

	// Sequence is the 1-based position along the route
	Sequence int

	// Name is the stop name, folded to a single line
	Name string

	// FareFromStart is the cumulative fare from the route origin
	FareFromStart float64

	// FareFromPrevious is the fare stage from the prior stop, never
	// negative
	FareFromPrevious float64
}

// Route is one transit route with its ordered stops
type Route struct {
	// Number is the route number from the caption, or a table ordinal
	// placeholder when no caption named one
	Number string

	// Name is the route description, typically origin - destination
	Name string

	// Through is the via location when the caption carried one
	Through string

	// Stops are the parsed stops in table order
	Stops []Stop
}

// Stats carries diagnostic counts from one interpretation pass
type Stats struct {
	// SkippedRows counts rows whose sequence column would not parse
	SkippedRows int

	// BadFares counts stops whose fare column would not parse; those
	// stops keep a zero fare
	BadFares int
}

// Config holds configuration for the route interpreter
type Config struct {
	// NumberPattern matches the caption line naming the route. Named
	// groups "number" and "name" capture the route number and an
	// optional inline description.
	NumberPattern *regexp.Regexp

	// ThroughPattern matches a caption line naming the via location,
	// captured by the named group "through"
	ThroughPattern *regexp.Regexp

	// SequenceAliases, FareAliases and NameAliases locate the stop
	// columns by case-insensitive substring match on header labels.
	// Unmatched roles fall back to the source document layout:
	// sequence first, fare second, name last.
	SequenceAliases []string
	FareAliases     []string
	NameAliases     []string
}

// DefaultConfig returns the default interpreter configuration
func DefaultConfig() Config {
	return Config{
		NumberPattern:  regexp.MustCompile(`(?i)^route\s*no\s*[.:]?\s*(?P<number>\S+)(?:\s+(?P<name>.+))?$`),
		ThroughPattern: regexp.MustCompile(`(?i)^via\s+(?P<through>.+)$`),
		SequenceAliases: []string{
			"sequence", "seq", "no", "order",
		},
		FareAliases: []string{
			"fare", "price", "amount", "cost",
		},
		NameAliases: []string{
			"name", "stop", "halt", "place",
		},
	}
}

// Interpreter reads document tables as transit stop tables: captions
// carry the route metadata, rows carry sequence, fare and stop name.
type Interpreter struct {
	config Config
}

// New creates an interpreter with default configuration
func New() *Interpreter {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an interpreter with custom configuration
func NewWithConfig(config Config) *Interpreter {
	return &Interpreter{config: config}
}

// Routes interprets each document table as one route. Tables without a
// caption route number get an ordinal placeholder so their stops still
// come out addressable.
func (in *Interpreter) Routes(tables []model.DocumentTable) ([]Route, Stats) {
	var out []Route
	var stats Stats

	for ordinal, table := range tables {
		route, s := in.route(table, ordinal)
		stats.SkippedRows += s.SkippedRows
		stats.BadFares += s.BadFares
		out = append(out, route)
	}
	return out, stats
}

// route interprets one table
func (in *Interpreter) route(table model.DocumentTable, ordinal int) (Route, Stats) {
	number, name, through := in.metadata(table.Caption, ordinal)
	route := Route{Number: number, Name: name, Through: through}

	binding := bindColumns(table.Columns.Labels(), in.config)

	var stats Stats
	for _, row := range table.Rows {
		stop, ok, badFare := parseStop(row.Cells, binding)
		if !ok {
			stats.SkippedRows++
			continue
		}
		if badFare {
			stats.BadFares++
		}
		route.Stops = append(route.Stops, stop)
	}

	route.Stops = derive(route.Stops, route.Number)
	return route, stats
}

// metadata pulls the route number, name and via location out of the
// accumulated caption lines. The name falls back to the first leftover
// caption line after the number line, matching documents that put the
// route description on its own line.
func (in *Interpreter) metadata(captions []string, ordinal int) (number, name, through string) {
	afterNumber := false
	for _, raw := range captions {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := matchGroups(in.config.ThroughPattern, line); m != nil {
			if through == "" {
				through = strings.TrimSpace(m["through"])
			}
			continue
		}
		if number == "" {
			if m := matchGroups(in.config.NumberPattern, line); m != nil {
				number = m["number"]
				name = strings.TrimSpace(m["name"])
				afterNumber = true
				continue
			}
		}
		if afterNumber && name == "" {
			name = line
		}
	}
	if number == "" {
		number = fmt.Sprintf("table_%d", ordinal+1)
	}
	return number, name, through
}

// matchGroups returns the named submatches of a pattern, or nil when
// the pattern is unset or does not match
func matchGroups(re *regexp.Regexp, s string) map[string]string {
	if re == nil {
		return nil
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	groups := make(map[string]string)
	for i, groupName := range re.SubexpNames() {
		if groupName != "" && i < len(m) {
			groups[groupName] = m[i]
		}
	}
	return groups
}
