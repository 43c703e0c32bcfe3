// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"budgeter/internal/membership"
	"budgeter/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations for the budgeter. Every mutating
// method is a single atomic unit against the backing store: the row write
// and the dependent balance recomputation either both commit or neither
// does. This abstraction allows swapping storage backends without changing
// the service layer.
type Store interface {
	// Users. Lookup methods return (nil, nil) when no user matches,
	// because absence is a normal outcome for registration and invites.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Households.
	CreateHousehold(ctx context.Context, h *models.Household) error
	GetHousehold(ctx context.Context, id string) (*models.Household, error)
	UpdateHousehold(ctx context.Context, h *models.Household) error
	// DeleteHousehold removes the household and cascades its categories
	// and their transactions. Bank accounts are not cascaded; their
	// lifecycle stays independent.
	DeleteHousehold(ctx context.Context, id string) error
	// ListHouseholdsByUser returns households the user owns or joined.
	ListHouseholdsByUser(ctx context.Context, userID string) ([]*models.Household, error)
	// ListInvitedHouseholds returns households the user is invited to.
	ListInvitedHouseholds(ctx context.Context, userID string) ([]*models.Household, error)
	// ListMembers returns the owner and all joined users.
	ListMembers(ctx context.Context, householdID string) ([]*models.Member, error)

	// Membership. GetMembership never fails for absent rows; it reports
	// membership.None.
	GetMembership(ctx context.Context, householdID, userID string) (membership.State, error)
	InviteUser(ctx context.Context, householdID, userID string) error
	// JoinHousehold flips an invited row to joined atomically; it returns
	// membership.ErrNotInvited when no invited row existed at commit time.
	JoinHousehold(ctx context.Context, householdID, userID string) error
	// LeaveHousehold drops a joined row; membership.ErrNotJoined when the
	// user was not joined at commit time.
	LeaveHousehold(ctx context.Context, householdID, userID string) error

	// Bank accounts.
	CreateAccount(ctx context.Context, a *models.BankAccount) error
	GetAccount(ctx context.Context, id string) (*models.BankAccount, error)
	UpdateAccount(ctx context.Context, a *models.BankAccount) error
	DeleteAccount(ctx context.Context, id string) error
	ListAccountsByHousehold(ctx context.Context, householdID string) ([]*models.BankAccount, error)
	// RecalculateBalance forces a full resum of the cached balance from
	// the account's non-void transactions.
	RecalculateBalance(ctx context.Context, accountID string) (*models.BankAccount, error)

	// Categories.
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	// DeleteCategory removes the category and its transactions, then
	// recomputes the balance of every bank account that held them, all in
	// one transaction.
	DeleteCategory(ctx context.Context, id string) error
	ListCategoriesByHousehold(ctx context.Context, householdID string) ([]*models.Category, error)

	// Transactions. Each write recomputes the owning account's balance
	// inside the same transaction.
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	// UpdateTransaction re-verifies inside the transaction that the row
	// is not void, returning ledger.ErrEditVoided otherwise.
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	// VoidTransaction performs the exactly-once active-to-void
	// transition, returning ledger.ErrAlreadyVoid on repeats.
	VoidTransaction(ctx context.Context, id string) error
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
