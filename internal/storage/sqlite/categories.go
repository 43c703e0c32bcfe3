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

// CreateCategory persists a new category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if c.CreatedAt == 0 {
		c.CreatedAt = now
	}
	c.UpdatedAt = c.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, household_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.HouseholdID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, household_id, name, description, created_at, updated_at
		FROM categories WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// UpdateCategory updates name and description.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Description, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category and, through the cascade, its
// transactions. Every bank account that held one of those transactions gets
// its balance recomputed in the same transaction, so the ledger invariant
// holds at commit.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT DISTINCT bank_account_id FROM transactions WHERE category_id = ?", id,
		)
		if err != nil {
			return fmt.Errorf("failed to find affected accounts: %w", err)
		}
		var accountIDs []string
		for rows.Next() {
			var accID string
			if err := rows.Scan(&accID); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan account id: %w", err)
			}
			accountIDs = append(accountIDs, accID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate account ids: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
		}

		now := time.Now().Unix()
		for _, accID := range accountIDs {
			if err := resumBalance(ctx, tx, accID, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListCategoriesByHousehold returns all categories of a household, oldest
// first.
func (s *SQLiteStore) ListCategoriesByHousehold(ctx context.Context, householdID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, household_id, name, description, created_at, updated_at
		FROM categories WHERE household_id = ?
		ORDER BY created_at`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}
