// Package store persists interpreted routes in a SQLite database so
// repeated extractions of the same timetable PDFs can be diffed and
// queried without re-parsing. Routes are keyed by route number and
// stops by their stable stop ID, so saving a route again replaces its
// previous snapshot.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tsawler/farebox/routes"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS routes (
    route_number TEXT PRIMARY KEY,
    route_name TEXT NOT NULL DEFAULT '',
    route_through TEXT NOT NULL DEFAULT '',
    stop_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stops (
    stop_id TEXT PRIMARY KEY,
    route_number TEXT NOT NULL REFERENCES routes(route_number) ON DELETE CASCADE,
    stop_sequence INTEGER NOT NULL,
    stop_name TEXT NOT NULL DEFAULT '',
    fare_from_start REAL NOT NULL DEFAULT 0,
    fare_from_previous REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_stops_route ON stops(route_number);
`

// Store wraps the SQLite database holding extracted routes and stops.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path and
// initialises the schema. The connection enables WAL journaling,
// foreign key enforcement, and a busy timeout through the DSN.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveRoutes writes the given routes and their stops in a single
// transaction. Routes are upserted by route number; a route's stops are
// replaced wholesale, so stops dropped between extractions do not
// linger.
func (s *Store) SaveRoutes(ctx context.Context, rs []routes.Route) error {
	if len(rs) == 0 {
		return nil
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO stops (stop_id, route_number, stop_sequence, stop_name, fare_from_start, fare_from_previous)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO routes (route_number, route_name, route_through, stop_count)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(route_number) DO UPDATE SET
					route_name = excluded.route_name,
					route_through = excluded.route_through,
					stop_count = excluded.stop_count,
					updated_at = CURRENT_TIMESTAMP
			`, r.Number, r.Name, r.Through, len(r.Stops)); err != nil {
				return fmt.Errorf("saving route %s: %w", r.Number, err)
			}

			if _, err := tx.ExecContext(ctx,
				"DELETE FROM stops WHERE route_number = ?", r.Number); err != nil {
				return fmt.Errorf("clearing stops for route %s: %w", r.Number, err)
			}

			for _, st := range r.Stops {
				if _, err := stmt.ExecContext(ctx,
					st.ID, r.Number, st.Sequence, st.Name,
					st.FareFromStart, st.FareFromPrevious); err != nil {
					return fmt.Errorf("saving stop %s: %w", st.ID, err)
				}
			}
		}
		return nil
	})
}

// RouteCount returns the number of stored routes.
func (s *Store) RouteCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM routes").Scan(&n)
	return n, err
}

// StopsForRoute returns the stops of one route ordered by sequence. A
// route with no stored stops yields an empty slice, not an error.
func (s *Store) StopsForRoute(ctx context.Context, number string) ([]routes.Stop, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stop_id, stop_sequence, stop_name, fare_from_start, fare_from_previous
		FROM stops WHERE route_number = ? ORDER BY stop_sequence
	`, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []routes.Stop
	for rows.Next() {
		var st routes.Stop
		if err := rows.Scan(&st.ID, &st.Sequence, &st.Name,
			&st.FareFromStart, &st.FareFromPrevious); err != nil {
			return nil, err
		}
		stops = append(stops, st)
	}
	return stops, rows.Err()
}

// Routes returns every stored route with its stops, ordered by route
// number.
func (s *Store) Routes(ctx context.Context) ([]routes.Route, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT route_number, route_name, route_through
		FROM routes ORDER BY route_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rs []routes.Route
	for rows.Next() {
		var r routes.Route
		if err := rows.Scan(&r.Number, &r.Name, &r.Through); err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rs {
		stops, err := s.StopsForRoute(ctx, rs[i].Number)
		if err != nil {
			return nil, fmt.Errorf("loading stops for route %s: %w", rs[i].Number, err)
		}
		rs[i].Stops = stops
	}
	return rs, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
