// Package journal persists applied store resolutions to SQLite so they can
// be audited with `quotes history`.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// DefaultHistoryLimit bounds History when no limit is given.
const DefaultHistoryLimit = 50

// SQLiteJournal implements ports.ResolutionJournal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ ports.ResolutionJournal = (*SQLiteJournal)(nil)

// Open opens or creates the journal at path.
// Use ":memory:" for an in-memory journal.
func Open(path string) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Every connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return j, nil
}

func (j *SQLiteJournal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL,
		quote_id INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		duration_ns INTEGER NOT NULL,
		at_ns INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_resolutions_quote_id ON resolutions(quote_id);
	CREATE INDEX IF NOT EXISTS idx_resolutions_at ON resolutions(at_ns);
	`
	_, err := j.db.Exec(schema)

	return err
}

// Append records one resolution.
func (j *SQLiteJournal) Append(ctx context.Context, r ports.Resolution) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	at := r.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO resolutions (operation, quote_id, outcome, error, duration_ns, at_ns) VALUES (?, ?, ?, ?, ?, ?)",
		string(r.Operation), r.QuoteID, string(r.Outcome), r.Error, int64(r.Duration), at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert resolution: %w", err)
	}

	return nil
}

// History returns the most recent resolutions, newest first.
// A limit of zero or less uses DefaultHistoryLimit.
func (j *SQLiteJournal) History(ctx context.Context, limit int) ([]ports.Resolution, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT operation, quote_id, outcome, error, duration_ns, at_ns FROM resolutions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query resolutions: %w", err)
	}
	defer rows.Close()

	return scanResolutions(rows)
}

// ForQuote returns every resolution recorded for the quote with id, oldest first.
func (j *SQLiteJournal) ForQuote(ctx context.Context, id int64) ([]ports.Resolution, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT operation, quote_id, outcome, error, duration_ns, at_ns FROM resolutions WHERE quote_id = ? ORDER BY id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query resolutions: %w", err)
	}
	defer rows.Close()

	return scanResolutions(rows)
}

func scanResolutions(rows *sql.Rows) ([]ports.Resolution, error) {
	var out []ports.Resolution

	for rows.Next() {
		var (
			r                  ports.Resolution
			operation, outcome string
			durationNS, atNS   int64
		)

		if err := rows.Scan(&operation, &r.QuoteID, &outcome, &r.Error, &durationNS, &atNS); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}

		r.Operation = ports.Operation(operation)
		r.Outcome = ports.Outcome(outcome)
		r.Duration = time.Duration(durationNS)
		r.At = time.Unix(0, atNS).UTC()

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.db.Close()
}
