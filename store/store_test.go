//go:build cgo

package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tsawler/farebox/routes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "farebox.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRoute() routes.Route {
	return routes.Route{
		Number:  "138",
		Name:    "Colombo - Kandy",
		Through: "Kegalle",
		Stops: []routes.Stop{
			{ID: "138_001", Sequence: 1, Name: "Colombo Fort", FareFromStart: 0, FareFromPrevious: 0},
			{ID: "138_002", Sequence: 2, Name: "Peliyagoda", FareFromStart: 12.5, FareFromPrevious: 12.5},
			{ID: "138_003", Sequence: 3, Name: "Kadawatha", FareFromStart: 27, FareFromPrevious: 14.5},
		},
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "farebox.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening store in nested dir: %v", err)
	}
	s.Close()
}

func TestSaveRoutesAndReadBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleRoute()
	other := routes.Route{
		Number: "245",
		Name:   "Galle - Matara",
		Stops: []routes.Stop{
			{ID: "245_001", Sequence: 1, Name: "Galle", FareFromStart: 0, FareFromPrevious: 0},
		},
	}

	if err := s.SaveRoutes(ctx, []routes.Route{want, other}); err != nil {
		t.Fatalf("saving routes: %v", err)
	}

	n, err := s.RouteCount(ctx)
	if err != nil {
		t.Fatalf("counting routes: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 routes, got %d", n)
	}

	stops, err := s.StopsForRoute(ctx, "138")
	if err != nil {
		t.Fatalf("loading stops: %v", err)
	}
	if !reflect.DeepEqual(stops, want.Stops) {
		t.Errorf("stops round trip:\ngot  %+v\nwant %+v", stops, want.Stops)
	}
}

func TestSaveRoutesUpsertReplacesStops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRoutes(ctx, []routes.Route{sampleRoute()}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Save the same route number again with fewer stops and a changed
	// name. The old stop set must not linger.
	updated := routes.Route{
		Number: "138",
		Name:   "Colombo - Kandy Express",
		Stops: []routes.Stop{
			{ID: "138_001", Sequence: 1, Name: "Colombo Fort", FareFromStart: 0, FareFromPrevious: 0},
			{ID: "138_002", Sequence: 2, Name: "Kadawatha", FareFromStart: 27, FareFromPrevious: 27},
		},
	}
	if err := s.SaveRoutes(ctx, []routes.Route{updated}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	n, err := s.RouteCount(ctx)
	if err != nil {
		t.Fatalf("counting routes: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 route after upsert, got %d", n)
	}

	stops, err := s.StopsForRoute(ctx, "138")
	if err != nil {
		t.Fatalf("loading stops: %v", err)
	}
	if len(stops) != 2 {
		t.Fatalf("expected 2 stops after replace, got %d", len(stops))
	}
	if stops[1].Name != "Kadawatha" {
		t.Errorf("second stop: got %q, want %q", stops[1].Name, "Kadawatha")
	}

	var name string
	err = s.DB().QueryRowContext(ctx,
		"SELECT route_name FROM routes WHERE route_number = ?", "138").Scan(&name)
	if err != nil {
		t.Fatalf("reading route name: %v", err)
	}
	if name != "Colombo - Kandy Express" {
		t.Errorf("route name not updated: got %q", name)
	}
}

func TestSaveRoutesRecordsStopCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRoutes(ctx, []routes.Route{sampleRoute()}); err != nil {
		t.Fatalf("saving: %v", err)
	}

	var count int
	err := s.DB().QueryRowContext(ctx,
		"SELECT stop_count FROM routes WHERE route_number = ?", "138").Scan(&count)
	if err != nil {
		t.Fatalf("reading stop_count: %v", err)
	}
	if count != 3 {
		t.Errorf("stop_count: got %d, want 3", count)
	}
}

func TestRoutesReadBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := []routes.Route{
		sampleRoute(),
		{
			Number: "245",
			Name:   "Galle - Matara",
			Stops: []routes.Stop{
				{ID: "245_001", Sequence: 1, Name: "Galle", FareFromStart: 0, FareFromPrevious: 0},
			},
		},
	}
	if err := s.SaveRoutes(ctx, want); err != nil {
		t.Fatalf("saving: %v", err)
	}

	got, err := s.Routes(ctx)
	if err != nil {
		t.Fatalf("loading routes: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("routes round trip:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestStopsForRouteUnknown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stops, err := s.StopsForRoute(ctx, "999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stops) != 0 {
		t.Fatalf("expected no stops for unknown route, got %d", len(stops))
	}
}

func TestRouteCountEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.RouteCount(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 routes in fresh store, got %d", n)
	}
}

func TestSaveRoutesEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// No-op, not an error.
	if err := s.SaveRoutes(ctx, nil); err != nil {
		t.Fatalf("saving empty slice: %v", err)
	}
}
