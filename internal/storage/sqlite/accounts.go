package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budgeter/internal/models"
	"budgeter/internal/storage"
)

// CreateAccount persists a new bank account with a zero balance.
func (s *SQLiteStore) CreateAccount(ctx context.Context, a *models.BankAccount) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if a.CreatedAt == 0 {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bank_accounts (id, household_id, name, description, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.HouseholdID, a.Name, a.Description, a.Balance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bank account: %w", err)
	}
	return nil
}

// GetAccount retrieves a bank account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*models.BankAccount, error) {
	a := &models.BankAccount{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, household_id, name, description, balance, created_at, updated_at
		FROM bank_accounts WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.HouseholdID, &a.Name, &a.Description, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return a, nil
}

// UpdateAccount updates name and description. Balance is derived data and
// is never written through this method.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, a *models.BankAccount) error {
	a.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE bank_accounts SET name = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Description, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteAccount removes the account; its transactions cascade.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM bank_accounts WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete bank account: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// ListAccountsByHousehold returns all accounts of a household, oldest first.
func (s *SQLiteStore) ListAccountsByHousehold(ctx context.Context, householdID string) ([]*models.BankAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, household_id, name, description, balance, created_at, updated_at
		FROM bank_accounts WHERE household_id = ?
		ORDER BY created_at`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.BankAccount
	for rows.Next() {
		a := &models.BankAccount{}
		if err := rows.Scan(&a.ID, &a.HouseholdID, &a.Name, &a.Description, &a.Balance, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank accounts: %w", err)
	}
	return accounts, nil
}

// RecalculateBalance forces a full resum and returns the updated account.
func (s *SQLiteStore) RecalculateBalance(ctx context.Context, accountID string) (*models.BankAccount, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM bank_accounts WHERE id = ?", accountID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check bank account: %w", err)
		}
		return resumBalance(ctx, tx, accountID, time.Now().Unix())
	})
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, accountID)
}
