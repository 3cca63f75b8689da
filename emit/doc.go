// Package emit serializes reconstructed tables and interpreted routes.
//
// Two shapes come out of the pipeline: document tables, whose columns
// are whatever the source document declared, and routes, which follow
// the fixed record schema
//
//	route_number, route_name, route_through, stop_id, stop_sequence,
//	stop_name, fare_from_start, fare_from_previous
//
// with fares formatted to two decimals.
//
// [CSVWriter] writes both shapes to any io.Writer, and
// [CSVWriter.WriteRouteFiles] lays a directory out the way downstream
// tooling expects it: all_routes.csv plus one file per route.
// [XLSXWriter] builds spreadsheet workbooks with one sheet per table or
// per route.
package emit
