// Package handler contains the HTTP boundary of the login system. Handlers
// decode requests, call the services, and encode responses — no business
// rules live here.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/brunocm/login-system/internal/auth"
	"github.com/brunocm/login-system/internal/service"
)

// AuthHandler serves registration, login, password changes, and the
// authenticated home greeting.
type AuthHandler struct {
	authSvc    *service.AuthService
	accountSvc *service.AccountService
	logger     *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Dependencies are injected; the
// handler has no idea how they were constructed.
func NewAuthHandler(
	authSvc *service.AuthService,
	accountSvc *service.AccountService,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authSvc:    authSvc,
		accountSvc: accountSvc,
		logger:     logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Password string `json:"password"`
	Role     string `json:"role"` // optional, defaults to "User"
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// 200 on success, 409 on an email/CPF collision, 400 on missing fields.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accountSvc.Register(r.Context(), req.Name, req.Email, req.CPF, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("registration completed", slog.String("userID", user.ID))

	writeJSON(w, http.StatusOK, map[string]string{"message": "user registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates credentials and returns a bearer token.
//
// HTTP: POST /api/auth/login
// 200 {token} on success; 401 with the uniform invalid-credentials body
// for every failure, whatever its actual cause.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// HandleChangePassword replaces the authenticated account's password.
//
// HTTP: POST /api/auth/change-password
// Auth: required — the target account is the token's subject, so a caller
// can only ever change their own password.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.accountSvc.ChangePassword(r.Context(), claims.Subject,
		req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// HandleHome is the authenticated smoke endpoint.
//
// HTTP: GET /api/auth/home
// Auth: required. Any valid token passes; no role check.
func (h *AuthHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "hello, " + claims.Email,
	})
}
