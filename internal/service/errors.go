package service

import (
	"budgeter/internal/policy"
	"budgeter/internal/storage"
)

// ValidationError reports malformed or missing input, with the field it
// refers to. The HTTP edge surfaces it with field detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// decisionErr converts an authorization decision into its sentinel error,
// nil for Allowed.
func decisionErr(d policy.Decision) error {
	switch d {
	case policy.NotFound:
		return storage.ErrNotFound
	case policy.Forbidden:
		return policy.ErrForbidden
	default:
		return nil
	}
}

// Notifier delivers invitation messages. Failures never roll back the
// invitation state change; the service logs and moves on.
type Notifier interface {
	SendInvitation(to, householdName, joinLink string) error
}
