// Package history records verification runs in a SQLite database so that
// a run can report which records changed category since the last one.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lukemcguire/zombiecheck/result"

	_ "modernc.org/sqlite"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	source       TEXT NOT NULL,
	window_start INTEGER NOT NULL,
	window_end   INTEGER NOT NULL,
	total        INTEGER NOT NULL,
	started_at   TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL
)`

const createResultsTable = `
CREATE TABLE IF NOT EXISTS results (
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	idx         INTEGER NOT NULL,
	name        TEXT NOT NULL,
	url         TEXT NOT NULL,
	category    TEXT NOT NULL,
	message     TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, idx)
)`

const createResultsURLIndex = `CREATE INDEX IF NOT EXISTS idx_results_url ON results(url)`

const insertRun = `
INSERT INTO runs (source, window_start, window_end, total, started_at, duration_ms)
VALUES (?, ?, ?, ?, ?, ?)`

const insertResult = `
INSERT INTO results (run_id, idx, name, url, category, message, status_code)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// latestCategories picks, per url, the category from the newest run of the
// source that checked it.
const latestCategories = `
SELECT r.url, r.category
FROM results r
JOIN runs ru ON ru.id = r.run_id
WHERE ru.source = ?
  AND r.run_id = (
	SELECT MAX(r2.run_id) FROM results r2
	JOIN runs ru2 ON ru2.id = r2.run_id
	WHERE r2.url = r.url AND ru2.source = ?
  )`

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	for _, stmt := range []string{createRunsTable, createResultsTable, createResultsURLIndex} {
		if _, err := conn.Exec(stmt); err != nil {
			return nil, errors.Join(fmt.Errorf("create history schema: %w", err), conn.Close())
		}
	}
	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveRun stores a run and one row per entry, returning the run id.
func (s *Store) SaveRun(ctx context.Context, source string, res *result.Result) (int64, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stats := res.Stats
	ins, err := tx.ExecContext(ctx, insertRun,
		source,
		stats.Start,
		stats.End,
		stats.Total,
		stats.Started.UTC().Format(time.RFC3339),
		stats.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := ins.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertResult)
	if err != nil {
		return 0, fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range res.Buckets.All() {
		if _, err := stmt.ExecContext(ctx, runID, e.Index, e.Name, e.URL, string(e.Category), e.Message, e.StatusCode); err != nil {
			return 0, fmt.Errorf("insert result #%d: %w", e.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// LatestCategories returns the most recent category stored for each url
// checked from source.
func (s *Store) LatestCategories(ctx context.Context, source string) (map[string]result.Category, error) {
	rows, err := s.conn.QueryContext(ctx, latestCategories, source, source)
	if err != nil {
		return nil, fmt.Errorf("query latest categories: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]result.Category)
	for rows.Next() {
		var url, category string
		if err := rows.Scan(&url, &category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		latest[url] = result.Category(category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return latest, nil
}

// RunCount returns the number of stored runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// Change is an entry whose category differs from the previous run.
type Change struct {
	Entry    result.Entry
	Previous result.Category
}

// Changes compares buckets against previously stored categories. Entries
// never seen before are not reported.
func Changes(previous map[string]result.Category, buckets result.Buckets) []Change {
	var changes []Change
	for _, e := range buckets.All() {
		prev, ok := previous[e.URL]
		if ok && prev != e.Category {
			changes = append(changes, Change{Entry: e, Previous: prev})
		}
	}
	return changes
}
