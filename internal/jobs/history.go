package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// History persists finished job outcomes for later reporting. The in-memory
// queue stays authoritative; this is write-only bookkeeping.
type History struct {
	db       *sql.DB
	provider string
}

// one row of recorded job outcome
type HistoryEntry struct {
	JobID       string
	Source      string
	Provider    string
	Status      Status
	Error       string
	Duration    time.Duration
	CompletedAt time.Time
}

func NewHistory(dbPath, provider string) (*History, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	h := &History{db: db, provider: provider}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return h, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS job_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL,
		source TEXT NOT NULL,
		provider TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		completed_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_completed_at ON job_history(completed_at);
	`

	_, err := h.db.Exec(schema)
	return err
}

// Record stores a terminal job outcome.
func (h *History) Record(ctx context.Context, job *Job) error {
	if !job.Status.Terminal() {
		return fmt.Errorf("job %s is not terminal (%s)", job.ID, job.Status)
	}

	query := `
	INSERT INTO job_history (
		job_id, source, provider, status, error, duration_ms, completed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := h.db.ExecContext(ctx, query,
		job.ID,
		job.Source,
		h.provider,
		string(job.Status),
		job.Error,
		job.Elapsed().Milliseconds(),
		job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record job history: %w", err)
	}

	return nil
}

// Recent returns the newest entries, most recent first.
func (h *History) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT job_id, source, provider, status, error, duration_ms, completed_at
	FROM job_history
	ORDER BY completed_at DESC, id DESC
	LIMIT ?
	`

	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query job history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var status string
		var durationMS int64
		if err := rows.Scan(
			&entry.JobID,
			&entry.Source,
			&entry.Provider,
			&status,
			&entry.Error,
			&durationMS,
			&entry.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.Status = Status(status)
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
