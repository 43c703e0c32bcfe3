package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budgeter/internal/membership"
	"budgeter/internal/models"
	"budgeter/internal/storage"
)

// CreateHousehold persists a new household. The owner relation lives on the
// household row itself; no member row is written for the owner.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, h *models.Household) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if h.CreatedAt == 0 {
		h.CreatedAt = now
	}
	h.UpdatedAt = h.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO households (id, name, description, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Description, h.OwnerID, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert household: %w", err)
	}
	return nil
}

// GetHousehold retrieves a household by ID.
func (s *SQLiteStore) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	h := &models.Household{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM households WHERE id = ?`,
		id,
	).Scan(&h.ID, &h.Name, &h.Description, &h.OwnerID, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	return h, nil
}

// UpdateHousehold updates name and description.
func (s *SQLiteStore) UpdateHousehold(ctx context.Context, h *models.Household) error {
	h.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE households SET name = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		h.Name, h.Description, h.UpdatedAt, h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update household: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteHousehold removes the household row. Categories cascade, and their
// transactions cascade with them. Bank accounts are left alone: their
// lifecycle is independent of the household's, but their balances are
// recomputed in the same transaction so cached balances never outlive the
// transactions behind them.
func (s *SQLiteStore) DeleteHousehold(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT id FROM bank_accounts WHERE household_id = ?", id,
		)
		if err != nil {
			return fmt.Errorf("failed to list household accounts: %w", err)
		}
		var accountIDs []string
		for rows.Next() {
			var accountID string
			if err := rows.Scan(&accountID); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan account id: %w", err)
			}
			accountIDs = append(accountIDs, accountID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate account ids: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM households WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete household: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
		}

		now := time.Now().Unix()
		for _, accountID := range accountIDs {
			if err := resumBalance(ctx, tx, accountID, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListHouseholdsByUser returns households the user owns or has joined,
// oldest first.
func (s *SQLiteStore) ListHouseholdsByUser(ctx context.Context, userID string) ([]*models.Household, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.name, h.description, h.owner_id, h.created_at, h.updated_at
		FROM households h
		LEFT JOIN household_members m
			ON m.household_id = h.id AND m.user_id = ? AND m.state = 'joined'
		WHERE h.owner_id = ? OR m.user_id IS NOT NULL
		ORDER BY h.created_at`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()
	return scanHouseholds(rows)
}

// ListInvitedHouseholds returns households with a pending invitation for the
// user, oldest first.
func (s *SQLiteStore) ListInvitedHouseholds(ctx context.Context, userID string) ([]*models.Household, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.name, h.description, h.owner_id, h.created_at, h.updated_at
		FROM households h
		JOIN household_members m ON m.household_id = h.id
		WHERE m.user_id = ? AND m.state = 'invited'
		ORDER BY h.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invited households: %w", err)
	}
	defer rows.Close()
	return scanHouseholds(rows)
}

func scanHouseholds(rows *sql.Rows) ([]*models.Household, error) {
	var out []*models.Household
	for rows.Next() {
		h := &models.Household{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.OwnerID, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate households: %w", err)
	}
	return out, nil
}

// ListMembers returns the owner followed by all joined users.
func (s *SQLiteStore) ListMembers(ctx context.Context, householdID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.display_name, 1 AS is_owner
		FROM households h JOIN users u ON u.id = h.owner_id
		WHERE h.id = ?
		UNION ALL
		SELECT u.id, u.email, u.display_name, 0 AS is_owner
		FROM household_members m JOIN users u ON u.id = m.user_id
		WHERE m.household_id = ? AND m.state = 'joined'
		ORDER BY is_owner DESC, u.email`,
		householdID, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		var isOwner int
		if err := rows.Scan(&m.ID, &m.Email, &m.DisplayName, &isOwner); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.IsOwner = isOwner == 1
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMembership reports the user's state for a household. The owner is read
// off the household row; everyone else comes from household_members.
func (s *SQLiteStore) GetMembership(ctx context.Context, householdID, userID string) (membership.State, error) {
	var ownerID string
	err := s.db.QueryRowContext(ctx,
		"SELECT owner_id FROM households WHERE id = ?", householdID,
	).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return membership.None, storage.ErrNotFound
	}
	if err != nil {
		return membership.None, fmt.Errorf("failed to get household owner: %w", err)
	}
	if ownerID == userID {
		return membership.Owner, nil
	}

	var state string
	err = s.db.QueryRowContext(ctx,
		"SELECT state FROM household_members WHERE household_id = ? AND user_id = ?",
		householdID, userID,
	).Scan(&state)
	if err == sql.ErrNoRows {
		return membership.None, nil
	}
	if err != nil {
		return membership.None, fmt.Errorf("failed to get membership: %w", err)
	}

	switch state {
	case "invited":
		return membership.Invited, nil
	case "joined":
		return membership.Joined, nil
	default:
		return membership.None, fmt.Errorf("unknown membership state %q", state)
	}
}

// InviteUser records a pending invitation. OR IGNORE makes the insert
// atomic against a concurrent invite for the same pair: the loser hits the
// existing row, affects nothing, and gets membership.ErrAlreadyInvited.
func (s *SQLiteStore) InviteUser(ctx context.Context, householdID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO household_members (household_id, user_id, state, created_at)
		VALUES (?, ?, 'invited', ?)`,
		householdID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return membership.ErrAlreadyInvited
	}
	return nil
}

// JoinHousehold flips an invited row to joined. The WHERE clause makes the
// transition atomic: if a concurrent request consumed the invitation first,
// no row matches and the caller gets membership.ErrNotInvited.
func (s *SQLiteStore) JoinHousehold(ctx context.Context, householdID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE household_members SET state = 'joined'
		WHERE household_id = ? AND user_id = ? AND state = 'invited'`,
		householdID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to join household: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return membership.ErrNotInvited
	}
	return nil
}

// LeaveHousehold removes a joined membership row.
func (s *SQLiteStore) LeaveHousehold(ctx context.Context, householdID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM household_members
		WHERE household_id = ? AND user_id = ? AND state = 'joined'`,
		householdID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to leave household: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return membership.ErrNotJoined
	}
	return nil
}
