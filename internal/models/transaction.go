package models

// Transaction is a single ledger entry on a bank account. Amount carries its
// sign: positive for credits, negative for debits, by caller convention.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// BankAccountID is the account this transaction posts to.
	BankAccountID string

	// CategoryID is the spending category; it must belong to the same
	// household as the bank account.
	CategoryID string

	// CreatorID is the user who created the transaction. Only the creator
	// or the household owner may edit, delete, or void it.
	CreatorID string

	// Title is a short human-readable label.
	Title string

	// Description is an optional free-form note.
	Description string

	// Amount is the signed transaction amount.
	Amount float64

	// TransactedAt is the Unix timestamp of when the money moved, as
	// reported by the caller.
	TransactedAt int64

	// IsVoid marks a soft-deleted transaction. Once set it never clears:
	// the amount stops counting toward the balance and the transaction is
	// frozen against edits. The row is kept for audit until deleted.
	IsVoid bool

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}
