package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brunocm/login-system/internal/service"
)

// AccountHandler serves the Admin-gated account administration endpoints.
// The role check itself lives in the middleware chain (auth.RequireRole),
// so by the time these handlers run the caller is already an Admin — a
// rejected request never reaches the store.
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// HandleList returns every account as its outbound projection.
//
// HTTP: GET /api/auth/users
// Auth: required, role Admin.
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleDelete removes an account by ID.
//
// HTTP: DELETE /api/auth/users/{id}
// Auth: required, role Admin. 404 if the account does not exist —
// including a repeat delete of the same ID.
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
