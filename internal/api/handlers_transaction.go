package api

import (
	"net/http"

	"budgeter/internal/middleware"
	"budgeter/internal/service"
)

type transactionRequest struct {
	CategoryID   string  `json:"category_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	TransactedAt int64   `json:"transacted_at"`
}

func (req transactionRequest) params() service.TransactionParams {
	return service.TransactionParams{
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Description:  req.Description,
		Amount:       req.Amount,
		TransactedAt: req.TransactedAt,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	txn, err := s.transactions.Create(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionView(txn))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.transactions.ListByAccount(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionViews(txns))
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	txn, err := s.transactions.Edit(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.params())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(txn))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVoidTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := s.transactions.Void(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(txn))
}
