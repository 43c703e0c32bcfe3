package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"budgeter/internal/auth"
	"budgeter/internal/middleware"
	"budgeter/internal/service"
)

// Server holds the services behind the HTTP API.
type Server struct {
	auth         *service.AuthService
	households   *service.HouseholdService
	accounts     *service.AccountService
	categories   *service.CategoryService
	transactions *service.TransactionService
	jwtManager   *auth.JWTManager
}

func NewServer(
	authService *service.AuthService,
	households *service.HouseholdService,
	accounts *service.AccountService,
	categories *service.CategoryService,
	transactions *service.TransactionService,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		auth:         authService,
		households:   households,
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		jwtManager:   jwtManager,
	}
}

// Handler builds the full route table with logging, metrics, and
// authentication applied. Registration, login, health, and metrics are
// reachable without a token; everything else requires one.
func (s *Server) Handler() http.Handler {
	requireAuth := middleware.RequireAuth(s.jwtManager, func(w http.ResponseWriter, err error) {
		writeError(w, err)
	})

	protected := http.NewServeMux()
	protected.HandleFunc("POST /v1/households", s.handleCreateHousehold)
	protected.HandleFunc("GET /v1/households", s.handleListHouseholds)
	protected.HandleFunc("GET /v1/households/invitations", s.handleListInvitations)
	protected.HandleFunc("GET /v1/households/{id}", s.handleGetHousehold)
	protected.HandleFunc("PUT /v1/households/{id}", s.handleEditHousehold)
	protected.HandleFunc("DELETE /v1/households/{id}", s.handleDeleteHousehold)
	protected.HandleFunc("GET /v1/households/{id}/members", s.handleListMembers)
	protected.HandleFunc("POST /v1/households/{id}/invitations", s.handleInvite)
	protected.HandleFunc("POST /v1/households/{id}/join", s.handleJoin)
	protected.HandleFunc("POST /v1/households/{id}/leave", s.handleLeave)

	protected.HandleFunc("POST /v1/households/{id}/accounts", s.handleCreateAccount)
	protected.HandleFunc("GET /v1/households/{id}/accounts", s.handleListAccounts)
	protected.HandleFunc("PUT /v1/accounts/{id}", s.handleEditAccount)
	protected.HandleFunc("DELETE /v1/accounts/{id}", s.handleDeleteAccount)
	protected.HandleFunc("POST /v1/accounts/{id}/recalculate", s.handleRecalculateBalance)

	protected.HandleFunc("POST /v1/households/{id}/categories", s.handleCreateCategory)
	protected.HandleFunc("GET /v1/households/{id}/categories", s.handleListCategories)
	protected.HandleFunc("GET /v1/categories/{id}", s.handleGetCategory)
	protected.HandleFunc("PUT /v1/categories/{id}", s.handleEditCategory)
	protected.HandleFunc("DELETE /v1/categories/{id}", s.handleDeleteCategory)

	protected.HandleFunc("POST /v1/accounts/{id}/transactions", s.handleCreateTransaction)
	protected.HandleFunc("GET /v1/accounts/{id}/transactions", s.handleListTransactions)
	protected.HandleFunc("PUT /v1/transactions/{id}", s.handleEditTransaction)
	protected.HandleFunc("DELETE /v1/transactions/{id}", s.handleDeleteTransaction)
	protected.HandleFunc("POST /v1/transactions/{id}/void", s.handleVoidTransaction)

	root := http.NewServeMux()
	root.HandleFunc("POST /v1/auth/register", s.handleRegister)
	root.HandleFunc("POST /v1/auth/login", s.handleLogin)
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	root.Handle("GET /metrics", promhttp.Handler())
	root.Handle("/v1/", requireAuth(protected))

	return middleware.Logging(middleware.Metrics(root))
}
