package models

// Category is a household-scoped spending bucket. Transactions link to
// exactly one category; a category and the bank account of a transaction
// must belong to the same household.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// HouseholdID is the household this category belongs to.
	HouseholdID string

	// Name is the display name (e.g., "Groceries").
	Name string

	// Description is an optional free-form note.
	Description string

	// CreatedAt is the Unix timestamp when the category was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}
