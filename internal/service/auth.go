// Package service holds the business rules of the login system, between
// the HTTP handlers and the repository/auth primitives:
//
//	handlers (HTTP) → services (rules) → repository (store)
//	               ↘ auth (bcrypt, JWT)
//
// AuthService (this file) authenticates credentials and mints tokens.
// AccountService (account.go) owns registration and account lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brunocm/login-system/internal/apperror"
	"github.com/brunocm/login-system/internal/auth"
	"github.com/brunocm/login-system/internal/model"
	"github.com/brunocm/login-system/internal/repository"
)

// AuthService authenticates email/password credentials and issues session
// tokens. It is read-only against the account store.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Authenticate looks up the account for email and verifies the password.
//
// ENUMERATION SAFETY:
// An unknown email and a wrong password both return the exact same
// apperror.InvalidCredentials value — a caller probing the login endpoint
// cannot learn which addresses have accounts. Only genuine store faults
// (connection errors and the like) surface differently, as plain wrapped
// errors outside the domain taxonomy.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up account: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	return user, nil
}

// Login authenticates the credentials and, on success, issues a session
// token carrying the account's ID, email and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("role", user.Role),
	)

	return token, nil
}
