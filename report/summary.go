// Package report aggregates interpreted routes into document-level
// statistics for logs and quick inspection.
package report

import (
	"fmt"
	"strings"

	"github.com/tsawler/farebox/routes"
)

// Summary describes one document's interpreted routes
type Summary struct {
	// Routes is the number of routes
	Routes int

	// Stops is the total stop count across all routes
	Stops int

	// AverageStops is the mean stop count per route
	AverageStops float64

	// LongestRouteNumber and LongestRouteStops name the route with the
	// most stops; ties keep the earliest route
	LongestRouteNumber string
	LongestRouteStops  int

	// MinFare and MaxFare bound the cumulative fares seen
	MinFare float64
	MaxFare float64
}

// Summarize computes statistics over interpreted routes
func Summarize(rts []routes.Route) Summary {
	s := Summary{Routes: len(rts)}

	first := true
	for _, route := range rts {
		s.Stops += len(route.Stops)
		if len(route.Stops) > s.LongestRouteStops {
			s.LongestRouteStops = len(route.Stops)
			s.LongestRouteNumber = route.Number
		}
		for _, stop := range route.Stops {
			if first {
				s.MinFare = stop.FareFromStart
				s.MaxFare = stop.FareFromStart
				first = false
				continue
			}
			if stop.FareFromStart < s.MinFare {
				s.MinFare = stop.FareFromStart
			}
			if stop.FareFromStart > s.MaxFare {
				s.MaxFare = stop.FareFromStart
			}
		}
	}
	if s.Routes > 0 {
		s.AverageStops = float64(s.Stops) / float64(s.Routes)
	}
	return s
}

// Format renders the summary as stable line-per-fact text
func (s Summary) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Routes: %d\n", s.Routes)
	fmt.Fprintf(&b, "Stops: %d\n", s.Stops)
	fmt.Fprintf(&b, "Average stops per route: %.1f\n", s.AverageStops)
	if s.LongestRouteNumber != "" {
		fmt.Fprintf(&b, "Longest route: %s (%d stops)\n", s.LongestRouteNumber, s.LongestRouteStops)
	}
	if s.Stops > 0 {
		fmt.Fprintf(&b, "Fare range: %.2f - %.2f\n", s.MinFare, s.MaxFare)
	}
	return b.String()
}
