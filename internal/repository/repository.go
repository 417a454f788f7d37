// Package repository defines the narrow store interfaces the services
// depend on. Services receive these interfaces, never the concrete
// SQLite types, so they stay testable against in-memory fakes.
package repository

import (
	"context"

	"github.com/brunocm/login-system/internal/model"
)

// UserRepository is the account store.
//
// Implementations must guarantee that two concurrent Create calls with a
// colliding email or CPF cannot both succeed — the SQLite implementation
// leans on UNIQUE constraints for this, and reports the collision as an
// apperror.ErrConflict-wrapping error.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ExistsByEmailOrCPF is the combined duplicate pre-check for
	// registration: true if any account matches either value.
	ExistsByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.User, error)
}
