// Package sqlite provides SQLite-backed implementations of the org registry
// storage interfaces: the event journal on the write side and the read-model
// tables on the query side, migrated from embedded SQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/orgledger/orgledger/internal/org/storage"
	"github.com/orgledger/orgledger/internal/org/storage/sqlite/migrations"
	"github.com/orgledger/orgledger/internal/platform/storage/sqlitemigrate"
	"github.com/orgledger/orgledger/internal/platform/timeouts"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so store
// methods run unchanged inside or outside an explicit transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides a SQLite-backed store implementing the journal and
// read-model storage interfaces, depending on which Open constructor built
// it.
type Store struct {
	sqlDB *sql.DB
	q     dbtx
}

func (s *Store) withTx(tx *sql.Tx) *Store {
	if s == nil || tx == nil {
		return s
	}
	cloned := *s
	cloned.q = tx
	return &cloned
}

// OpenJournal opens a SQLite event journal store at the provided path.
func OpenJournal(path string) (*Store, error) {
	return openStore(path, "journal")
}

// OpenReadModel opens a SQLite read-model store at the provided path.
func OpenReadModel(path string) (*Store, error) {
	return openStore(path, "readmodel")
}

func openStore(path string, purpose string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=%d&_synchronous=NORMAL", cleanPath, timeouts.SQLiteBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	migrationFS := migrations.JournalFS
	if purpose == "readmodel" {
		migrationFS = migrations.ReadModelFS
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrationFS, purpose); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB, q: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup
// paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// WithinTx runs fn against a transactional clone of the store. The
// transaction commits when fn returns nil and rolls back otherwise, so a
// failed batch leaves no partial writes behind.
func (s *Store) WithinTx(ctx context.Context, fn func(tx storage.ReadStore) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if fn == nil {
		return fmt.Errorf("transaction func is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(s.withTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.JournalStore = (*Store)(nil)
var _ storage.ReadStore = (*Store)(nil)
