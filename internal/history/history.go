// Package history implements the run history ledger (A8): a durable
// SQLite audit trail of one row per run, appended to at the end of every
// invocation.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Ledger appends run summaries to a SQLite database.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at path and
// ensures the runs table exists.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	urls_total INTEGER NOT NULL,
	urls_processed INTEGER NOT NULL,
	streams_working INTEGER NOT NULL,
	streams_failed INTEGER NOT NULL,
	streams_filtered INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Summary is one completed run's counters.
type Summary struct {
	StartedAt       time.Time
	FinishedAt      time.Time
	URLsTotal       int
	URLsProcessed   int
	StreamsWorking  int
	StreamsFailed   int
	StreamsFiltered int
}

// Record appends s as a new row, stamped with a freshly generated run ID
// so individual invocations stay distinguishable even when two runs
// start and finish within the same second.
func (l *Ledger) Record(s Summary) error {
	_, err := l.db.Exec(
		`INSERT INTO runs (run_id, started_at, finished_at, urls_total, urls_processed, streams_working, streams_failed, streams_filtered)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		s.StartedAt.UTC().Format(time.RFC3339),
		s.FinishedAt.UTC().Format(time.RFC3339),
		s.URLsTotal, s.URLsProcessed, s.StreamsWorking, s.StreamsFailed, s.StreamsFiltered,
	)
	return err
}
