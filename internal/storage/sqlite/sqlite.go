// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"budgeter/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// Writes run in BEGIN IMMEDIATE transactions (via the _txlock DSN option),
// so concurrent mutations against the same bank account serialize on the
// database write lock and every balance recomputation sees the committed
// transaction set.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path. It creates
// the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// foreign_keys is a per-connection pragma, so it has to go in the DSN;
	// a one-off PRAGMA statement would only prime whichever pooled
	// connection served it, and cascade deletes would silently stop working
	// on the rest.
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing on nil and rolling back
// otherwise. Mutating store methods build on it so a failure partway
// through leaves every row untouched.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// resumBalance rewrites the cached balance of an account as the sum of its
// non-void transaction amounts. It must run inside the same transaction as
// the write that changed the account's transaction set.
func resumBalance(ctx context.Context, tx *sql.Tx, accountID string, now int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bank_accounts
		SET balance = (
			SELECT COALESCE(SUM(amount), 0)
			FROM transactions
			WHERE bank_account_id = ? AND is_void = 0
		), updated_at = ?
		WHERE id = ?`,
		accountID, now, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to recompute balance: %w", err)
	}
	return nil
}
