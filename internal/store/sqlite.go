package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// InboxSentinel is the reserved project id persisted in place of "no
// project". It exists because the original runtime could not index NULL
// keys; it never collides with generated ids (those are UUIDs) and it
// never escapes the store: every read path translates it back to nil
// before returning a todo.
const InboxSentinel = "__inbox__"

// ErrProtected is returned when a delete targets a protected todo or
// project.
var ErrProtected = errors.New("item is protected")

// SQLiteStore is the domain repository over a local SQLite database.
// It is the single boundary where the inbox sentinel is translated
// to and from the public nil representation.
type SQLiteStore struct {
	db  *sqlx.DB
	log *zap.Logger
}

// Option customizes a store at construction time.
type Option func(*SQLiteStore)

// WithLogger attaches a logger used for best-effort migration warnings.
func WithLogger(log *zap.Logger) Option {
	return func(s *SQLiteStore) {
		if log != nil {
			s.log = log
		}
	}
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL mode,
// and runs any pending schema migrations. Pass ":memory:" for tests.
func Open(dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// The data layer has exactly one writer at a time. A single
	// connection serializes transactions and keeps ":memory:" databases
	// on the connection that ran the migrations.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.backfillInboxSentinel()

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// backfillInboxSentinel re-runs the sentinel rewrite on every open as a
// best-effort repair pass. Full-row reads stay correct without it (the
// scan translates NULL too), so failure is logged and swallowed.
func (s *SQLiteStore) backfillInboxSentinel() {
	res, err := s.db.Exec(
		"UPDATE todos SET project_id = ? WHERE project_id IS NULL", InboxSentinel,
	)
	if err != nil {
		s.log.Warn("inbox sentinel backfill failed", zap.Error(err))
		return
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.log.Info("backfilled inbox sentinel", zap.Int64("todos", n))
	}
}

// WipeAll clears every collection in a single transaction. Used by import
// before a bulk reload and by explicit user reset.
func (s *SQLiteStore) WipeAll(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning wipe transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"attachments", "checklist_pages", "todos",
		"projects", "voice_memos", "bin", "settings",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("wiping %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
