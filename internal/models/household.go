package models

// Household is a shared budgeting unit. Exactly one user owns it; other
// users relate to it through membership rows (invited or joined), never
// through back-pointers on the entity itself.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is the display name (e.g., "Maple Street").
	Name string

	// Description is an optional free-form note.
	Description string

	// OwnerID is the user who created the household. Immutable.
	OwnerID string

	// CreatedAt is the Unix timestamp when the household was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}

// Member is a user's entry in a household member list.
type Member struct {
	ID          string
	Email       string
	DisplayName string

	// IsOwner marks the household owner in member listings.
	IsOwner bool
}
