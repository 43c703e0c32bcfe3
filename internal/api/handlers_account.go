package api

import (
	"net/http"

	"budgeter/internal/middleware"
)

type accountRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.accounts.Create(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountView(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.List(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountViews(accounts))
}

func (s *Server) handleEditAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.accounts.Edit(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountView(account))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecalculateBalance(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.RecalculateBalance(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountView(account))
}
