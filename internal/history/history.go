// Package history persists past verdicts in a local SQLite database so
// the CLI can show what was analyzed before. The forensic core never
// reads from it.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"verisure/internal/config"
	"verisure/internal/fusion"
)

// Record is one stored verdict.
type Record struct {
	ID             string
	CreatedAt      time.Time
	MediaType      string
	Filename       string
	SHA256         string
	Classification string
	Confidence     string
	Reason         string
	Indicators     []string
	CompositeScore float64
}

// NewRecord builds a record from a fused verdict, assigning the run ID.
func NewRecord(mediaType, filename, sha256 string, verdict fusion.Verdict, compositeScore float64) Record {
	return Record{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		MediaType:      mediaType,
		Filename:       filename,
		SHA256:         sha256,
		Classification: verdict.Classification,
		Confidence:     string(verdict.Confidence),
		Reason:         verdict.Reason,
		Indicators:     verdict.Indicators,
		CompositeScore: compositeScore,
	}
}

// Store manages verdict persistence backed by SQLite. A file lock next
// to the database keeps concurrent CLI invocations from interleaving
// schema setup.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS verdicts (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	media_type TEXT NOT NULL,
	filename TEXT NOT NULL,
	sha256 TEXT NOT NULL,
	classification TEXT NOT NULL,
	confidence TEXT NOT NULL,
	reason TEXT NOT NULL,
	indicators TEXT NOT NULL DEFAULT '[]',
	composite_score REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_verdicts_created_at ON verdicts(created_at DESC);
`

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire history lock: %w", err)
	}
	if !locked {
		return nil, errors.New("history database is in use by another verisure process")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db, lock: lock, path: dbPath}, nil
}

// Close closes the database connection and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}

// Save persists one record, assigning an ID and timestamp when absent.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	indicators, err := json.Marshal(rec.Indicators)
	if err != nil {
		return Record{}, fmt.Errorf("encode indicators: %w", err)
	}

	err = s.execWithRetry(ctx, `
		INSERT INTO verdicts (id, created_at, media_type, filename, sha256,
			classification, confidence, reason, indicators, composite_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Format(time.RFC3339Nano), rec.MediaType, rec.Filename,
		rec.SHA256, rec.Classification, rec.Confidence, rec.Reason,
		string(indicators), rec.CompositeScore)
	if err != nil {
		return Record{}, fmt.Errorf("save verdict: %w", err)
	}
	return rec, nil
}

// List returns the most recent records, newest first. A non-positive
// limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, created_at, media_type, filename, sha256,
			classification, confidence, reason, indicators, composite_score
		FROM verdicts ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list verdicts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt, indicators string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.MediaType, &rec.Filename,
			&rec.SHA256, &rec.Classification, &rec.Confidence, &rec.Reason,
			&indicators, &rec.CompositeScore); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		if err := json.Unmarshal([]byte(indicators), &rec.Indicators); err != nil {
			return nil, fmt.Errorf("decode indicators: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = s.db.ExecContext(ctx, query, args...)
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
