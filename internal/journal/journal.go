// Package journal keeps a local record of sync cycles in a small SQLite
// database. It is diagnostic state, separate from the summary store: a
// truncated journal loses no health data.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cycle is one sync attempt, successful or not.
type Cycle struct {
	ID        int64
	StartedAt time.Time
	Days      int
	Duration  time.Duration
	OK        bool
	Error     string
}

// Journal records sync cycles.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at dir/journal.db.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sync_cycles (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  TIMESTAMP NOT NULL,
		days        INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		ok          INTEGER NOT NULL,
		error       TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal table: %w", err)
	}

	return &Journal{db: db}, nil
}

// RecordCycle appends one cycle to the journal.
func (j *Journal) RecordCycle(c Cycle) error {
	_, err := j.db.Exec(
		`INSERT INTO sync_cycles (started_at, days, duration_ms, ok, error) VALUES (?, ?, ?, ?, ?)`,
		c.StartedAt.UTC().Format(time.RFC3339Nano), c.Days, c.Duration.Milliseconds(), boolToInt(c.OK), c.Error,
	)
	return err
}

// RecentCycles returns the newest cycles first, up to limit.
func (j *Journal) RecentCycles(limit int) ([]Cycle, error) {
	rows, err := j.db.Query(
		`SELECT id, started_at, days, duration_ms, ok, error FROM sync_cycles ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var c Cycle
		var startedAt string
		var durationMS int64
		var ok int
		if err := rows.Scan(&c.ID, &startedAt, &c.Days, &durationMS, &ok, &c.Error); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339Nano, startedAt); perr == nil {
			c.StartedAt = t
		}
		c.Duration = time.Duration(durationMS) * time.Millisecond
		c.OK = ok != 0
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
