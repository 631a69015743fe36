package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var historySchema string

// ErrRunNotFound indicates no run exists with the requested ID.
var ErrRunNotFound = errors.New("review run not found")

// HistoryStore logs settled review runs to SQLite.
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenHistory opens (or creates) the run log at dsn. Use ":memory:" in tests.
func OpenHistory(dsn string) (*HistoryStore, error) {
	if dsn != ":memory:" {
		dsn = "file:" + dsn + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &HistoryStore{db: db, now: time.Now}, nil
}

// RecordRun inserts run, assigning an ID and timestamp when missing.
func (h *HistoryStore) RecordRun(ctx context.Context, run *review.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = h.now()
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO runs (id, profile_name, model_id, file_path, file_hash, status, result_json, error, superseded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProfileName, run.ModelID, run.FilePath, run.FileHash, string(run.Status),
		run.ResultJSON, run.Error, run.Superseded, run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (h *HistoryStore) RecentRuns(ctx context.Context, limit int) ([]review.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, profile_name, model_id, file_path, file_hash, status, result_json, error, superseded, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []review.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID.
func (h *HistoryStore) GetRun(ctx context.Context, id string) (*review.Run, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, profile_name, model_id, file_path, file_hash, status, result_json, error, superseded, created_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Close releases the database.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*review.Run, error) {
	var (
		run     review.Run
		status  string
		created int64
	)
	if err := s.Scan(&run.ID, &run.ProfileName, &run.ModelID, &run.FilePath, &run.FileHash,
		&status, &run.ResultJSON, &run.Error, &run.Superseded, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = review.RunStatus(status)
	run.CreatedAt = time.Unix(0, created)
	return &run, nil
}
