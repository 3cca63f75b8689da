// Package routes interprets stitched document tables as transit fare
// tables.
//
// A fare booklet page carries a caption naming the route ("Route No :
// 138 Colombo - Kandy", sometimes a "via ..." line) above a table of
// stops: sequence number, cumulative fare from the origin, stop name.
// [Interpreter] binds those columns by header label, falling back to
// the positional layout the booklets use, parses each row into a
// [Stop], and derives the per-stage fare and a stable stop identifier.
//
//	interp := routes.New()
//	rts, stats := interp.Routes(tables)
//	for _, route := range rts {
//		fmt.Println(route.Number, route.Name, len(route.Stops))
//	}
//
// Rows whose sequence column is not a number, typically caption spill
// or footnotes, are skipped and counted in [Stats]. Fare stages are
// clamped at zero so one misread fare cannot produce a negative stage.
package routes
