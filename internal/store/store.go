// Package store keeps a SQLite history of batch runs and their per-row
// results.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cristianadrielbraun/qrstudio/internal/batch"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/payload"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// Store manages the history database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    input TEXT NOT NULL DEFAULT '',
    output_dir TEXT NOT NULL,
    format TEXT NOT NULL,
    total INTEGER NOT NULL,
    succeeded INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    bytes INTEGER NOT NULL DEFAULT 0,
    canceled INTEGER NOT NULL DEFAULT 0,
    started INTEGER NOT NULL,
    finished INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    row_index INTEGER NOT NULL,
    type TEXT NOT NULL,
    success INTEGER NOT NULL,
    path TEXT NOT NULL DEFAULT '',
    bytes INTEGER NOT NULL DEFAULT 0,
    kind TEXT NOT NULL DEFAULT '',
    error TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, row_index)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
`

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun records a finished run with all of its results in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, sum batch.Summary, results []batch.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, input, output_dir, format, total, succeeded, failed, bytes, canceled, started, finished)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, sum.Input, sum.OutputDir, string(sum.Format),
		sum.Total, sum.Succeeded, sum.Failed, sum.Bytes, boolToInt(sum.Canceled),
		sum.Started.UnixMilli(), sum.Finished.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO results (run_id, row_index, type, success, path, bytes, kind, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare results: %w", err)
	}
	defer stmt.Close()
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, sum.RunID, r.Index, r.Type.String(), boolToInt(r.Success),
			r.Path, r.Bytes, string(r.Kind), r.Message); err != nil {
			return fmt.Errorf("save result %d: %w", r.Index, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]batch.Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input, output_dir, format, total, succeeded, failed, bytes, canceled, started, finished
		FROM runs ORDER BY started DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []batch.Summary
	for rows.Next() {
		sum, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// GetRun returns one run summary.
func (s *Store) GetRun(ctx context.Context, id string) (batch.Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, input, output_dir, format, total, succeeded, failed, bytes, canceled, started, finished
		FROM runs WHERE id = ?`, id)
	sum, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return batch.Summary{}, ErrNotFound
	}
	return sum, err
}

// RunResults returns the stored results of a run in row order.
func (s *Store) RunResults(ctx context.Context, id string) ([]batch.Result, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_index, type, success, path, bytes, kind, error
		FROM results WHERE run_id = ? ORDER BY row_index`, id)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []batch.Result
	for rows.Next() {
		var (
			r         batch.Result
			typ, kind string
			success   int
		)
		if err := rows.Scan(&r.Index, &typ, &success, &r.Path, &r.Bytes, &kind, &r.Message); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Type, _ = payload.ParseContentType(typ)
		r.Success = success != 0
		r.Kind = batch.Kind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (batch.Summary, error) {
	var (
		sum               batch.Summary
		format            string
		canceled          int
		started, finished int64
	)
	err := sc.Scan(&sum.RunID, &sum.Input, &sum.OutputDir, &format, &sum.Total, &sum.Succeeded,
		&sum.Failed, &sum.Bytes, &canceled, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sum, err
		}
		return sum, fmt.Errorf("scan run: %w", err)
	}
	sum.Format = export.Format(format)
	sum.Canceled = canceled != 0
	sum.Started = time.UnixMilli(started)
	sum.Finished = time.UnixMilli(finished)
	return sum, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
