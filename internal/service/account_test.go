package service

import (
	"context"
	"errors"
	"testing"

	"github.com/brunocm/login-system/internal/apperror"
)

// newTestAccountService wires an AccountService over the given fake repo.
func newTestAccountService(repo *fakeUserRepo) *AccountService {
	return NewAccountService(repo, testPasswordService(), testLogger())
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	user, err := svc.Register(context.Background(), "Ana", "a@x.com", "111", "p1", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if user.Role != "User" {
		t.Errorf("Role = %q, want default %q", user.Role, "User")
	}
	if user.PasswordHash == "p1" || user.PasswordHash == "" {
		t.Error("Register() must store a hash, never the plaintext")
	}

	// The new account is retrievable and the stored hash verifies.
	stored, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() after Register error = %v", err)
	}
	if err := testPasswordService().Verify(stored.PasswordHash, "p1"); err != nil {
		t.Errorf("stored hash does not verify against the registered password: %v", err)
	}
}

func TestRegister_ExplicitRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	user, err := svc.Register(context.Background(), "Root", "root@x.com", "999", "pw", "Admin")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != "Admin" {
		t.Errorf("Role = %q, want %q", user.Role, "Admin")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	if _, err := svc.Register(context.Background(), "Ana", "a@x.com", "111", "p1", ""); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "Bia", "a@x.com", "222", "p2", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() = %v, want ErrConflict for a duplicate email", err)
	}
}

func TestRegister_DuplicateCPF(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	if _, err := svc.Register(context.Background(), "Ana", "a@x.com", "111", "p1", ""); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "Bia", "b@x.com", "111", "p2", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() = %v, want ErrConflict for a duplicate CPF", err)
	}
}

// One combined check: the error for an email collision and the error for
// a CPF collision must carry the same message, so a caller cannot tell
// which field is already registered.
func TestRegister_DuplicateErrorsDoNotLeakTheField(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	if _, err := svc.Register(context.Background(), "Ana", "a@x.com", "111", "p1", ""); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, errEmail := svc.Register(context.Background(), "Bia", "a@x.com", "222", "p2", "")
	_, errCPF := svc.Register(context.Background(), "Caio", "c@x.com", "111", "p3", "")

	var appErrEmail, appErrCPF *apperror.AppError
	if !errors.As(errEmail, &appErrEmail) || !errors.As(errCPF, &appErrCPF) {
		t.Fatalf("both duplicate errors should be AppErrors: %v / %v", errEmail, errCPF)
	}
	if appErrEmail.Message != appErrCPF.Message {
		t.Errorf("duplicate messages differ: %q vs %q — this leaks which field collided",
			appErrEmail.Message, appErrCPF.Message)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	tests := []struct {
		name  string
		email string
		cpf   string
		pw    string
	}{
		{"missing email", "", "111", "p1"},
		{"missing cpf", "a@x.com", "", "p1"},
		{"missing password", "a@x.com", "111", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), "Ana", tt.email, tt.cpf, tt.pw, "")
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() = %v, want ErrValidation", err)
			}
		})
	}
}

// =========================================================================
// ChangePassword TESTS
// =========================================================================

func TestChangePassword_Success(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedAccount(t, repo, "pw@x.com", "111", "old-password", "User")
	svc := newTestAccountService(repo)

	err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password", "new-password")
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), user.ID)
	if err := testPasswordService().Verify(stored.PasswordHash, "new-password"); err != nil {
		t.Errorf("new password does not verify after change: %v", err)
	}
	if err := testPasswordService().Verify(stored.PasswordHash, "old-password"); err == nil {
		t.Error("old password still verifies after change")
	}
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedAccount(t, repo, "pw@x.com", "111", "old-password", "User")
	svc := newTestAccountService(repo)

	originalHash := repo.users[user.ID].PasswordHash

	err := svc.ChangePassword(context.Background(), user.ID, "not-the-password", "new", "new")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("ChangePassword() = %v, want ErrValidation", err)
	}

	if repo.users[user.ID].PasswordHash != originalHash {
		t.Error("stored hash changed despite failed current-password check")
	}
}

func TestChangePassword_ConfirmationMismatch(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedAccount(t, repo, "pw@x.com", "111", "old-password", "User")
	svc := newTestAccountService(repo)

	originalHash := repo.users[user.ID].PasswordHash

	// Current password is correct; only the confirmation disagrees.
	err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-one", "new-two")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("ChangePassword() = %v, want ErrValidation", err)
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "confirmNewPassword" {
		t.Errorf("Field = %q, want %q", appErr.Field, "confirmNewPassword")
	}

	if repo.users[user.ID].PasswordHash != originalHash {
		t.Error("stored hash changed despite confirmation mismatch")
	}
}

func TestChangePassword_UnknownAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	err := svc.ChangePassword(context.Background(), "no-such-id", "a", "b", "b")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("ChangePassword() = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// Delete TESTS
// =========================================================================

func TestDelete_Success(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedAccount(t, repo, "bye@x.com", "111", "pw", "User")
	svc := newTestAccountService(repo)

	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := repo.users[user.ID]; ok {
		t.Error("account still present after Delete()")
	}
}

func TestDelete_SecondDeleteReportsNotFound(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedAccount(t, repo, "bye@x.com", "111", "pw", "User")
	svc := newTestAccountService(repo)

	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}
	if err := svc.Delete(context.Background(), user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("second Delete() = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// List TESTS
// =========================================================================

func TestList_ProjectionExcludesHash(t *testing.T) {
	repo := newFakeUserRepo()
	seedAccount(t, repo, "a@x.com", "1", "pw-a", "User")
	seedAccount(t, repo, "b@x.com", "2", "pw-b", "Admin")
	svc := newTestAccountService(repo)

	out, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("List() returned %d accounts, want 2", len(out))
	}

	// UserResponse has no hash field at all; check the visible fields
	// round-trip and nothing hash-shaped leaked into them.
	for _, r := range out {
		if r.ID == "" || r.Email == "" || r.CPF == "" || r.Role == "" {
			t.Errorf("List() projection missing fields: %+v", r)
		}
	}
}

func TestList_Empty(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAccountService(repo)

	out, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("List() on empty store = %d accounts, want 0", len(out))
	}
}
