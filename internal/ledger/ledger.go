// Package ledger holds the rules that keep a bank account's cached balance
// consistent with its set of non-void transactions, plus the referential
// guard between a transaction's category and bank account.
//
// The functions are pure. The store applies them around its own write
// transaction so that a rejected mutation never produces a partial balance
// update, and recomputes the balance with Balance-equivalent SQL inside the
// same transaction as every accepted write.
package ledger

import (
	"errors"

	"budgeter/internal/models"
)

var (
	// ErrAlreadyVoid reports a repeated void: voiding is exactly-once.
	ErrAlreadyVoid = errors.New("transaction is already void")

	// ErrEditVoided reports an edit attempt on a voided transaction.
	// Voided transactions are frozen; only deletion remains possible.
	ErrEditVoided = errors.New("cannot edit a voided transaction")

	// ErrCategoryMismatch reports a transaction link whose category and
	// bank account belong to different households.
	ErrCategoryMismatch = errors.New("category belongs to a different household than the bank account")
)

// Balance returns the sum of the amounts of all non-void transactions.
// This is the definition of a bank account's balance; the cached column is a
// materialized view of this sum.
func Balance(txns []*models.Transaction) float64 {
	var sum float64
	for _, t := range txns {
		if !t.IsVoid {
			sum += t.Amount
		}
	}
	return sum
}

// CheckLink verifies that a category may be linked to a bank account: both
// must belong to the same household. It runs before any balance change so a
// rejected link leaves the ledger untouched.
func CheckLink(account *models.BankAccount, category *models.Category) error {
	if account.HouseholdID != category.HouseholdID {
		return ErrCategoryMismatch
	}
	return nil
}

// CanEdit reports whether a transaction accepts edits. Voided transactions
// do not.
func CanEdit(t *models.Transaction) error {
	if t.IsVoid {
		return ErrEditVoided
	}
	return nil
}

// CanVoid reports whether a transaction can transition to void.
func CanVoid(t *models.Transaction) error {
	if t.IsVoid {
		return ErrAlreadyVoid
	}
	return nil
}
