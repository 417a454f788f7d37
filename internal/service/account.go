package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brunocm/login-system/internal/apperror"
	"github.com/brunocm/login-system/internal/auth"
	"github.com/brunocm/login-system/internal/model"
	"github.com/brunocm/login-system/internal/repository"
)

// AccountService owns the account lifecycle: registration with uniqueness
// rules, password changes, deletion, and the outbound listing projection.
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all dependencies injected.
func NewAccountService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// The duplicate check is one combined email-OR-CPF lookup producing one
// combined error: splitting it into two checks with two messages would
// tell a caller which of the two values is already registered. The store's
// UNIQUE constraints repeat the check atomically at insert time, so two
// concurrent registrations with a colliding value cannot both succeed;
// the loser of that race gets the same duplicate outcome.
//
// An empty role defaults to "User". The plaintext password is hashed here
// and discarded — only the hash travels to the store.
func (s *AccountService) Register(ctx context.Context, name, email, cpf, password, role string) (*model.User, error) {
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if cpf == "" {
		return nil, apperror.ValidationFailed("cpf", "cpf is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	taken, err := s.users.ExistsByEmailOrCPF(ctx, email, cpf)
	if err != nil {
		return nil, fmt.Errorf("service/account: checking uniqueness: %w", err)
	}
	if taken {
		return nil, apperror.Duplicate()
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	if role == "" {
		role = model.DefaultRole
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		CPF:          cpf,
		PasswordHash: hash,
		Role:         role,
	}

	// Create fills in ID and timestamps. A constraint violation here is a
	// lost race against a concurrent registration and already comes back
	// as the duplicate error.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/account: creating account: %w", err)
	}

	s.logger.Info("account registered",
		slog.String("userID", user.ID),
		slog.String("role", user.Role),
	)

	return user, nil
}

// ChangePassword replaces an account's stored hash.
//
// Two independent preconditions, checked in order:
//  1. current must verify against the stored hash
//  2. new must equal confirm
//
// Either failure aborts the whole operation with the stored hash untouched.
func (s *AccountService) ChangePassword(ctx context.Context, id, current, newPassword, confirm string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service/account: fetching account %s: %w", id, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, current); err != nil {
		return apperror.ValidationFailed("currentPassword", "current password is incorrect")
	}

	if newPassword != confirm {
		return apperror.ValidationFailed("confirmNewPassword", "new password and confirmation do not match")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/account: hashing new password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("service/account: updating password for %s: %w", id, err)
	}

	s.logger.Info("password changed", slog.String("userID", id))

	return nil
}

// Delete removes an account. Not idempotent: deleting an already-deleted
// ID reports not found.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/account: deleting account %s: %w", id, err)
	}

	s.logger.Info("account deleted", slog.String("userID", id))

	return nil
}

// List returns the outbound projection of every account. The projection
// type has no hash field, so hash material cannot leak through here.
func (s *AccountService) List(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/account: listing accounts: %w", err)
	}

	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].Response())
	}

	return responses, nil
}
