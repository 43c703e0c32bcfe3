package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budgeter/internal/auth"
	"budgeter/internal/ledger"
	"budgeter/internal/membership"
	"budgeter/internal/policy"
	"budgeter/internal/service"
	"budgeter/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps service errors onto HTTP status codes. Unknown errors
// are logged and reported as 500 without leaking detail.
func writeError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Field: vErr.Field})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, policy.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, membership.ErrAlreadyInvited),
		errors.Is(err, membership.ErrAlreadyJoined),
		errors.Is(err, membership.ErrNotInvited),
		errors.Is(err, ledger.ErrAlreadyVoid),
		errors.Is(err, ledger.ErrEditVoided):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrCategoryMismatch):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "password"})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decode reads the request body into dst, limiting it to 1 MiB.
func decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &service.ValidationError{Field: "body", Message: "invalid request body"}
	}
	return nil
}
