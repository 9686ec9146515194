package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"replaudio/internal/config"
)

// Kind labels what a journal entry recorded.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
)

// Entry is one issued command.
type Entry struct {
	ID int64
	// Kind is create or update.
	Kind Kind
	// Name is the provisional name of a create command; empty for updates.
	Name string
	// SourceID is the daemon-assigned identity, when known at record time.
	SourceID sql.NullInt64
	// Payload is the serialized wire record as it went down the channel.
	Payload   string
	CreatedAt time.Time
}

// Store journals issued commands in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the journal database under the
// configured log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS command_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        kind TEXT NOT NULL,
        name TEXT NOT NULL DEFAULT '',
        source_id INTEGER,
        payload TEXT NOT NULL,
        created_at TEXT NOT NULL
    )`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Record inserts one journal entry.
func (s *Store) Record(ctx context.Context, kind Kind, name string, sourceID sql.NullInt64, payload string) (*Entry, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(
			ctx,
			`INSERT INTO command_history (kind, name, source_id, payload, created_at)
             VALUES (?, ?, ?, ?, ?)`,
			string(kind), name, sourceID, payload, timestamp,
		)
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("insert history entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Entry{
		ID:        id,
		Kind:      kind,
		Name:      name,
		SourceID:  sourceID,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}

// List returns the most recent entries, newest first. A limit <= 0 returns
// everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, kind, name, source_id, payload, created_at
              FROM command_history ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var kind, createdAt string
		if err := rows.Scan(&entry.ID, &kind, &entry.Name, &entry.SourceID, &entry.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entry.Kind = Kind(kind)
		parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt)
		if parseErr != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, parseErr)
		}
		entry.CreatedAt = parsed
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes all entries and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, "DELETE FROM command_history")
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isBusy(lastErr) || attempt == busyRetryAttempts-1 {
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

// ErrDisabled is returned by helpers when journaling is off in config.
var ErrDisabled = errors.New("command history disabled")
