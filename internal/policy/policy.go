// Package policy decides whether an acting user may read or mutate a
// household-scoped resource. All checks are pure functions over identifiers
// and membership state; callers resolve entities first and persist nothing
// here.
//
// Every check yields a three-way Decision. NotFound and Forbidden are
// deliberately distinct: a caller who cannot even observe a resource gets
// NotFound, a caller who can see it but lacks rights gets Forbidden.
package policy

import (
	"errors"

	"budgeter/internal/membership"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allowed means the acting user may perform the operation.
	Allowed Decision = iota

	// NotFound means the resource is absent or the caller may not learn
	// that it exists.
	NotFound

	// Forbidden means the resource exists but the caller lacks rights.
	Forbidden
)

// ErrForbidden is the sentinel surfaced for a Forbidden decision.
var ErrForbidden = errors.New("forbidden")

func (d Decision) String() string {
	switch d {
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	default:
		return "allowed"
	}
}

// ManageHousehold covers household edit, delete, invite, and viewing the
// member list. Owner only.
func ManageHousehold(ownerID, actingUserID string) Decision {
	if ownerID == actingUserID {
		return Allowed
	}
	return Forbidden
}

// ManageHouseholdResource covers create, edit, and delete of bank accounts
// and categories. Owner of the parent household only.
func ManageHouseholdResource(ownerID, actingUserID string) Decision {
	if ownerID == actingUserID {
		return Allowed
	}
	return Forbidden
}

// ReadHouseholdData covers reads of bank accounts, categories, and
// transactions. Requires the caller to be joined or the owner.
func ReadHouseholdData(state membership.State) Decision {
	switch state {
	case membership.Joined, membership.Owner:
		return Allowed
	default:
		return Forbidden
	}
}

// CreateTransaction requires the caller to be joined or the owner of the
// household that the bank account belongs to.
func CreateTransaction(state membership.State) Decision {
	switch state {
	case membership.Joined, membership.Owner:
		return Allowed
	default:
		return Forbidden
	}
}

// ModifyTransaction covers edit, delete, and void. Only the transaction's
// creator or the household owner may act; other joined members are denied.
func ModifyTransaction(creatorID, ownerID, actingUserID string) Decision {
	if actingUserID == creatorID || actingUserID == ownerID {
		return Allowed
	}
	return Forbidden
}
