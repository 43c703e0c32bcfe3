package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budgeter/internal/ledger"
	"budgeter/internal/models"
	"budgeter/internal/storage"
)

// CreateTransaction inserts a transaction and recomputes the owning
// account's balance in the same transaction. Transactions are always
// created active, never void.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	t.UpdatedAt = t.CreatedAt
	t.IsVoid = false

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions
				(id, bank_account_id, category_id, creator_id, title, description,
				 amount, transacted_at, is_void, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			t.ID, t.BankAccountID, t.CategoryID, t.CreatorID, t.Title, t.Description,
			t.Amount, t.TransactedAt, t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		return resumBalance(ctx, tx, t.BankAccountID, now)
	})
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	t := &models.Transaction{}
	var isVoid int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, bank_account_id, category_id, creator_id, title, description,
		       amount, transacted_at, is_void, created_at, updated_at
		FROM transactions WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.BankAccountID, &t.CategoryID, &t.CreatorID, &t.Title, &t.Description,
		&t.Amount, &t.TransactedAt, &isVoid, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	t.IsVoid = isVoid == 1
	return t, nil
}

// UpdateTransaction rewrites the mutable fields and recomputes the balance.
// The void check runs again inside the transaction: a concurrent void
// between the service's read and this write still freezes the row.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	now := time.Now().Unix()
	t.UpdatedAt = now

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var isVoid int
		err := tx.QueryRowContext(ctx,
			"SELECT is_void FROM transactions WHERE id = ?", t.ID,
		).Scan(&isVoid)
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check transaction: %w", err)
		}
		if isVoid == 1 {
			return ledger.ErrEditVoided
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE transactions
			SET category_id = ?, title = ?, description = ?, amount = ?,
			    transacted_at = ?, updated_at = ?
			WHERE id = ?`,
			t.CategoryID, t.Title, t.Description, t.Amount, t.TransactedAt, t.UpdatedAt, t.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		return resumBalance(ctx, tx, t.BankAccountID, now)
	})
}

// DeleteTransaction removes the row and recomputes the balance. Deleting a
// voided transaction leaves the balance unchanged, which the resum yields
// for free.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var accountID string
		err := tx.QueryRowContext(ctx,
			"SELECT bank_account_id FROM transactions WHERE id = ?", id,
		).Scan(&accountID)
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return resumBalance(ctx, tx, accountID, time.Now().Unix())
	})
}

// VoidTransaction performs the exactly-once active-to-void transition. The
// guarded UPDATE decides the race: whichever request flips the row first
// wins, the loser sees zero affected rows and gets ledger.ErrAlreadyVoid.
func (s *SQLiteStore) VoidTransaction(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		res, err := tx.ExecContext(ctx, `
			UPDATE transactions SET is_void = 1, updated_at = ?
			WHERE id = ? AND is_void = 0`,
			now, id,
		)
		if err != nil {
			return fmt.Errorf("failed to void transaction: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var isVoid int
			err := tx.QueryRowContext(ctx,
				"SELECT is_void FROM transactions WHERE id = ?", id,
			).Scan(&isVoid)
			if err == sql.ErrNoRows {
				return storage.ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to check transaction: %w", err)
			}
			return ledger.ErrAlreadyVoid
		}

		var accountID string
		if err := tx.QueryRowContext(ctx,
			"SELECT bank_account_id FROM transactions WHERE id = ?", id,
		).Scan(&accountID); err != nil {
			return fmt.Errorf("failed to resolve account: %w", err)
		}
		return resumBalance(ctx, tx, accountID, now)
	})
}

// ListTransactionsByAccount returns an account's transactions, newest
// transacted first.
func (s *SQLiteStore) ListTransactionsByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bank_account_id, category_id, creator_id, title, description,
		       amount, transacted_at, is_void, created_at, updated_at
		FROM transactions WHERE bank_account_id = ?
		ORDER BY transacted_at DESC, created_at DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		var isVoid int
		if err := rows.Scan(&t.ID, &t.BankAccountID, &t.CategoryID, &t.CreatorID, &t.Title,
			&t.Description, &t.Amount, &t.TransactedAt, &isVoid, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.IsVoid = isVoid == 1
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
