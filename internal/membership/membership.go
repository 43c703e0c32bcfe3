// Package membership models a user's relationship to a household and the
// legal transitions between states. The functions are pure: callers load the
// current state from storage, check the transition here, and persist the
// result inside the same storage transaction.
package membership

import "errors"

// State is a user's standing with respect to one household.
type State int

const (
	// None means no relationship: not owner, not joined, not invited.
	None State = iota

	// Invited means the owner has invited the user and the user has not
	// accepted yet.
	Invited

	// Joined means the user accepted an invitation and is a member.
	Joined

	// Owner is the user who created the household. Set once at creation,
	// never reachable or leavable through membership operations.
	Owner
)

func (s State) String() string {
	switch s {
	case Invited:
		return "invited"
	case Joined:
		return "joined"
	case Owner:
		return "owner"
	default:
		return "none"
	}
}

var (
	ErrAlreadyInvited = errors.New("user is already invited")
	ErrAlreadyJoined  = errors.New("user is already a member")
	ErrNotInvited     = errors.New("user is not invited")
	ErrNotJoined      = errors.New("user is not a member")
)

// CanInvite reports whether a user in state s may be invited. Only users
// with no current relationship can be invited; the owner counts as a member.
func CanInvite(s State) error {
	switch s {
	case Invited:
		return ErrAlreadyInvited
	case Joined, Owner:
		return ErrAlreadyJoined
	default:
		return nil
	}
}

// CanJoin reports whether a user in state s may join. Only invited users
// can; the owner cannot "join" their own household.
func CanJoin(s State) error {
	switch s {
	case Invited:
		return nil
	case Joined:
		return ErrAlreadyJoined
	default:
		return ErrNotInvited
	}
}

// CanLeave reports whether a user in state s may leave. Only joined members
// can; the owner's standing is terminal.
func CanLeave(s State) error {
	if s == Joined {
		return nil
	}
	return ErrNotJoined
}
