package db

import (
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/filbar/swapper/model"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db      *sql.DB
	verbose bool
	now     func() time.Time
}

var memoryDBCounter atomic.Int64

// dsn turns a path into a connection string. Each ":memory:" storage gets its own named
// database shared by all pooled connections, so the schema is visible everywhere.
func dsn(path string) string {
	if path == ":memory:" {
		return fmt.Sprintf("file:swapper-mem-%d?mode=memory&cache=shared", memoryDBCounter.Add(1))
	}

	if strings.Contains(path, "?") {
		return path
	}

	return path + "?_busy_timeout=5000"
}

func NewStorageFromPath(path string, verbose bool) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	return NewStorageFromConnection(conn, verbose)
}

func NewStorageFromConnection(conn *sql.DB, verbose bool) (*SQLiteStorage, error) {
	if err := InitDBStorage(conn); err != nil {
		return nil, err
	}

	return &SQLiteStorage{db: conn, verbose: verbose, now: time.Now}, nil
}

func InitDBStorage(db *sql.DB) error {
	statements := []string{
		`create table if not exists keyevents(
			keycode int, row int, col int, pressed bool,
			tap_count int, interrupted bool, device_time int, ts datetime);`,
		`create index if not exists keyevents_tsix on keyevents (ts ASC);`,
		`create table if not exists emissions(binding text, keycode int, down bool, ts datetime);`,
		`create index if not exists emissions_tsix on emissions (ts ASC);`,
	}

	for _, sqlStmt := range statements {
		if _, err := db.Exec(sqlStmt); err != nil {
			return fmt.Errorf("could not init storage: %q: %w", sqlStmt, err)
		}
	}

	return nil
}

func (s *SQLiteStorage) Store(event *model.KeyEventWithTimestamp) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	_, err := s.db.Exec(`insert into keyevents(keycode, row, col, pressed, tap_count, interrupted, device_time, ts)
	    values(?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Keycode, event.Row, event.Col, event.Pressed, event.TapCount, event.Interrupted, event.Time, ts)
	if err != nil {
		return fmt.Errorf("could not store event: %w", err)
	}

	if s.verbose {
		slog.DebugContext(logCtx, "stored event", "keycode", event.Keycode, "pressed", event.Pressed)
	}

	return nil
}

func (s *SQLiteStorage) StoreEmission(binding string, e model.Emission) error {
	return s.storeEmissionAt(binding, e, s.now())
}

func (s *SQLiteStorage) storeEmissionAt(binding string, e model.Emission, ts time.Time) error {
	_, err := s.db.Exec(`insert into emissions(binding, keycode, down, ts) values(?, ?, ?, ?)`,
		binding, e.Keycode, e.Down, ts)
	if err != nil {
		return fmt.Errorf("could not store emission: %w", err)
	}

	return nil
}

// GatherAll counts presses per keycode.
func (s *SQLiteStorage) GatherAll() ([]model.MinimalKeyEvent, error) {
	rows, err := s.db.Query(
		`select keycode, count(*) as cnt
        from keyevents
        where pressed = true
        group by keycode
        order by keycode`)
	if err != nil {
		return nil, fmt.Errorf("could not query key events: %w", err)
	}

	defer rows.Close()

	result := make([]model.MinimalKeyEvent, 0)

	for rows.Next() {
		var keycode, count int

		err = rows.Scan(&keycode, &count)
		if err != nil {
			return nil, fmt.Errorf("could not scan key event count: %w", err)
		}

		result = append(result, model.MinimalKeyEvent{Keycode: model.Keycode(keycode), Count: count})
	}

	return result, rows.Err()
}

// GatherEmissions counts downs and ups per binding and keycode.
func (s *SQLiteStorage) GatherEmissions() ([]model.EmissionCount, error) {
	rows, err := s.db.Query(
		`select binding, keycode,
            sum(case when down then 1 else 0 end),
            sum(case when down then 0 else 1 end)
        from emissions
        group by binding, keycode
        order by binding, keycode`)
	if err != nil {
		return nil, fmt.Errorf("could not query emissions: %w", err)
	}

	defer rows.Close()

	result := make([]model.EmissionCount, 0)

	for rows.Next() {
		var (
			c       model.EmissionCount
			keycode int
		)

		if err := rows.Scan(&c.Binding, &keycode, &c.Downs, &c.Ups); err != nil {
			return nil, fmt.Errorf("could not scan emission count: %w", err)
		}

		c.Keycode = model.Keycode(keycode)
		result = append(result, c)
	}

	return result, rows.Err()
}

// AllIterator yields every stored event in time order. The query runs immediately; the
// sequence must be consumed to release the connection.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error) {
	rows, err := s.db.Query(
		`select keycode, row, col, pressed, tap_count, interrupted, device_time, ts
        from keyevents
        order by ts, rowid`)
	if err != nil {
		return nil, fmt.Errorf("could not query key events: %w", err)
	}

	return func(yield func(model.KeyEventWithTimestamp) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				e          model.KeyEventWithTimestamp
				keycode    int
				deviceTime int
			)

			err := rows.Scan(&keycode, &e.Row, &e.Col, &e.Pressed, &e.TapCount, &e.Interrupted, &deviceTime, &e.Timestamp)
			if err != nil {
				slog.ErrorContext(logCtx, "could not scan key event", "error", err)

				return
			}

			e.Keycode = model.Keycode(keycode)
			e.Time = uint16(deviceTime)

			if !yield(e) {
				return
			}
		}
	}, nil
}

type storedEmission struct {
	binding   string
	emission  model.Emission
	timestamp time.Time
}

func (s *SQLiteStorage) allEmissions() ([]storedEmission, error) {
	rows, err := s.db.Query(`select binding, keycode, down, ts from emissions order by ts, rowid`)
	if err != nil {
		return nil, fmt.Errorf("could not query emissions: %w", err)
	}

	defer rows.Close()

	result := make([]storedEmission, 0)

	for rows.Next() {
		var (
			r       storedEmission
			keycode int
		)

		if err := rows.Scan(&r.binding, &keycode, &r.emission.Down, &r.timestamp); err != nil {
			return nil, fmt.Errorf("could not scan emission: %w", err)
		}

		r.emission.Keycode = model.Keycode(keycode)
		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.ErrorContext(logCtx, "could not close storage", "error", err)
	}
}
