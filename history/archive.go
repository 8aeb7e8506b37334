// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/archive.go
// Summary: SQLite-backed scrollback archive.
//
// Retains lines evicted from the in-memory scrollback window:
//   - Async batch writes for steady output
//   - Retrieval by line range and by timestamp
//   - WAL journaling so readers never block the writer

package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Config holds configuration for the archive.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BatchSize is the number of lines to accumulate before flushing.
	// Default: 100
	BatchSize int

	// BatchTimeout is how long to wait before flushing a partial batch.
	// Default: 5s
	BatchTimeout time.Duration

	// ChannelBuffer is the size of the async write channel.
	// Default: 1000
	ChannelBuffer int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:        dbPath,
		BatchSize:     100,
		BatchTimeout:  5 * time.Second,
		ChannelBuffer: 1000,
	}
}

// Entry is one archived line.
type Entry struct {
	LineIdx   int64
	Timestamp time.Time
	Content   string
}

type pendingLine struct {
	lineIdx   int64
	timestamp time.Time
	text      string
}

// Archive stores evicted scrollback lines in SQLite.
type Archive struct {
	config Config
	db     *sql.DB

	// Async batching
	batchChan chan pendingLine
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}

	mu      sync.RWMutex
	nextIdx int64
}

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY,           -- Global line index
    timestamp INTEGER NOT NULL,       -- UnixNano
    content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lines_timestamp ON lines(timestamp);
`

// Open creates or reopens an archive at the given path.
func Open(dbPath string) (*Archive, error) {
	return OpenWithConfig(DefaultConfig(dbPath))
}

// OpenWithConfig creates an archive with custom configuration.
func OpenWithConfig(config Config) (*Archive, error) {
	dir := filepath.Dir(config.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := config.DBPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(-8000)" + // 8MB cache
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	// Resume numbering after the last archived line.
	var next int64
	if err := db.QueryRow("SELECT COALESCE(MAX(id)+1, 0) FROM lines").Scan(&next); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read line count: %w", err)
	}

	a := &Archive{
		config:    config,
		db:        db,
		batchChan: make(chan pendingLine, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
		nextIdx:   next,
	}

	go a.batchWriter()

	return a, nil
}

// Append queues one line for archival, assigning it the next global
// index. Blank lines are skipped. When the write channel is full the
// line is dropped rather than blocking the eviction path.
func (a *Archive) Append(text string) {
	if text == "" {
		return
	}
	a.mu.Lock()
	idx := a.nextIdx
	a.nextIdx++
	a.mu.Unlock()

	select {
	case a.batchChan <- pendingLine{lineIdx: idx, timestamp: time.Now(), text: text}:
	default:
	}
}

// batchWriter runs in a background goroutine, batching lines and
// flushing periodically.
func (a *Archive) batchWriter() {
	defer close(a.doneCh)

	batch := make([]pendingLine, 0, a.config.BatchSize)
	timer := time.NewTimer(a.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		a.flushBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case line := <-a.batchChan:
			batch = append(batch, line)
			if len(batch) >= a.config.BatchSize {
				flush()
				timer.Reset(a.config.BatchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(a.config.BatchTimeout)

		case done := <-a.flushCh:
			// Manual flush request - drain channel first
			draining := true
			for draining {
				select {
				case line := <-a.batchChan:
					batch = append(batch, line)
				default:
					draining = false
				}
			}
			flush()
			close(done)

		case <-a.stopCh:
			// Drain channel and flush before exit
			for {
				select {
				case line := <-a.batchChan:
					batch = append(batch, line)
				default:
					flush()
					return
				}
			}
		}
	}
}

// flushBatch writes a batch of lines in a single transaction.
func (a *Archive) flushBatch(batch []pendingLine) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		debugf("failed to begin transaction: %v", err)
		return
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO lines (id, timestamp, content) VALUES (?, ?, ?)")
	if err != nil {
		debugf("failed to prepare statement: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, l := range batch {
		if _, err := stmt.Exec(l.lineIdx, l.timestamp.UnixNano(), l.text); err != nil {
			debugf("failed to insert line %d: %v", l.lineIdx, err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		debugf("failed to commit batch: %v", err)
	}
}

// Len returns the number of archived lines.
func (a *Archive) Len() (int64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var n int64
	err := a.db.QueryRow("SELECT COUNT(*) FROM lines").Scan(&n)
	return n, err
}

// LineRange returns archived lines with indices in [from, to),
// ordered oldest first.
func (a *Archive) LineRange(from, to int64) ([]Entry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(
		"SELECT id, timestamp, content FROM lines WHERE id >= ? AND id < ? ORDER BY id ASC",
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("range query failed: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var tsNano int64
		if err := rows.Scan(&e.LineIdx, &tsNano, &e.Content); err != nil {
			continue // Skip malformed rows
		}
		e.Timestamp = time.Unix(0, tsNano)
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindLineAt returns the index of the line at or just before the given
// time, or -1 when the archive is empty.
func (a *Archive) FindLineAt(t time.Time) (int64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var lineIdx int64
	err := a.db.QueryRow(
		"SELECT id FROM lines WHERE timestamp <= ? ORDER BY timestamp DESC LIMIT 1",
		t.UnixNano(),
	).Scan(&lineIdx)

	if err == sql.ErrNoRows {
		// No line before this time, try the first line
		err = a.db.QueryRow(
			"SELECT id FROM lines ORDER BY timestamp ASC LIMIT 1",
		).Scan(&lineIdx)
	}

	if err == sql.ErrNoRows {
		return -1, nil // Empty archive
	}

	return lineIdx, err
}

// Flush blocks until all queued lines are written.
func (a *Archive) Flush() error {
	done := make(chan struct{})
	select {
	case a.flushCh <- done:
		<-done
	case <-a.stopCh:
		// Already stopped
	}
	return nil
}

// Close flushes pending writes and closes the database.
func (a *Archive) Close() error {
	close(a.stopCh)
	<-a.doneCh

	return a.db.Close()
}
