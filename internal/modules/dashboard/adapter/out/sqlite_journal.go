package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"smarttrack/internal/modules/dashboard/domain"

	_ "modernc.org/sqlite"
)

// Fixed width so started_at sorts lexically.
const journalTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteJournal appends one row per refresh cycle to a local database.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	journal := &SQLiteJournal{db: db}
	if err := journal.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

func (s *SQLiteJournal) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS refresh_cycles (
  id TEXT PRIMARY KEY,
  trigger TEXT NOT NULL,
  started_at TEXT NOT NULL,
  duration_ms INTEGER NOT NULL,
  outcome TEXT NOT NULL,
  failed_panels TEXT NOT NULL DEFAULT '',
  error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_refresh_cycles_started_at ON refresh_cycles(started_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create refresh_cycles table: %w", err)
	}
	return nil
}

func (s *SQLiteJournal) RecordCycle(ctx context.Context, cycle domain.Cycle) error {
	const stmt = `
INSERT INTO refresh_cycles (id, trigger, started_at, duration_ms, outcome, failed_panels, error)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  outcome=excluded.outcome,
  duration_ms=excluded.duration_ms,
  failed_panels=excluded.failed_panels,
  error=excluded.error;
`
	_, err := s.db.ExecContext(ctx, stmt,
		cycle.ID,
		cycle.Trigger,
		cycle.StartedAt.UTC().Format(journalTimeLayout),
		cycle.Duration.Milliseconds(),
		string(cycle.Outcome),
		strings.Join(cycle.FailedPanels, ","),
		cycle.Error,
	)
	if err != nil {
		return fmt.Errorf("insert refresh cycle: %w", err)
	}
	return nil
}

// Recent returns the newest cycles first.
func (s *SQLiteJournal) Recent(ctx context.Context, limit int) ([]domain.Cycle, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, trigger, started_at, duration_ms, outcome, failed_panels, error
FROM refresh_cycles
ORDER BY started_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query refresh cycles: %w", err)
	}
	defer rows.Close()

	cycles := make([]domain.Cycle, 0, limit)
	for rows.Next() {
		var (
			c          domain.Cycle
			startedAt  string
			durationMS int64
			outcome    string
			failed     string
		)
		if err := rows.Scan(&c.ID, &c.Trigger, &startedAt, &durationMS, &outcome, &failed, &c.Error); err != nil {
			return nil, fmt.Errorf("scan refresh cycle: %w", err)
		}
		c.StartedAt, err = time.Parse(journalTimeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		c.Duration = time.Duration(durationMS) * time.Millisecond
		c.Outcome = domain.Outcome(outcome)
		if failed != "" {
			c.FailedPanels = strings.Split(failed, ",")
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refresh cycles: %w", err)
	}
	return cycles, nil
}

func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}
