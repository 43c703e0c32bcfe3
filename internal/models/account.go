package models

// BankAccount belongs to exactly one household and carries a cached balance.
//
// Balance is derived data: it always equals the sum of the amounts of the
// account's non-void transactions. The store recomputes it inside the same
// transaction as every mutating write, so the invariant is never observable
// as violated between requests.
type BankAccount struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// HouseholdID is the household this account belongs to.
	HouseholdID string

	// Name is the display name (e.g., "Joint Checking").
	Name string

	// Description is an optional free-form note.
	Description string

	// Balance is the cached sum of non-void transaction amounts.
	Balance float64

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change, including
	// balance recomputations.
	UpdatedAt int64
}
