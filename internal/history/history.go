// Package history persists executed steps in a SQLite database so that
// `logical-task history` can show what ran, when, and how it ended.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hdl-tools/logical/internal/model"
)

// DefaultLimit is the number of rows List returns when no limit is given.
const DefaultLimit = 20

// Store manages the SQLite database for step history.
type Store struct {
	db    *sql.DB
	runID string
}

// Open creates the database at path if needed and initializes the schema.
// runID tags every step recorded through this Store.
func Open(path, runID string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// A plain query creates the file; Ping alone does not.
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize history database (check permissions on %s): %w", path, err)
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	s := &Store{db: db, runID: runID}
	if err = s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		target TEXT NOT NULL,
		command TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		executor TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// RunID returns the identifier this Store tags new rows with.
func (s *Store) RunID() string {
	return s.runID
}

// Record inserts one step. A step that could not be started is stored with
// its (non-zero) exit code like any other failure.
func (s *Store) Record(r model.StepResult) error {
	_, err := s.db.Exec(`
	INSERT INTO runs (run_id, target, command, exit_code, started_at, duration_ms, executor)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.runID,
		r.Target,
		r.Command,
		r.ExitCode,
		r.StartedAt.UTC(),
		r.Duration.Milliseconds(),
		r.Executor,
	)
	if err != nil {
		return fmt.Errorf("failed to record step %s: %w", r.Target, err)
	}
	return nil
}

// List returns the most recent steps, newest first. An empty target lists
// all targets; limit <= 0 uses DefaultLimit.
func (s *Store) List(target string, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `
	SELECT id, run_id, target, command, exit_code, started_at, duration_ms, executor
	FROM runs`
	args := []any{}
	if target != "" {
		query += " WHERE target = ?"
		args = append(args, target)
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var started time.Time
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Target,
			&rec.Command,
			&rec.ExitCode,
			&started,
			&rec.DurationMS,
			&rec.Executor,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.StartedAt = started.Local()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRunID returns an identifier for one CLI invocation, derived from the
// start time and the process id.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("%s-%d", now.UTC().Format("20060102T150405.000"), os.Getpid())
}
