// Package auth implements the credential primitives of the login system:
// bcrypt password hashing (password.go), JWT issuing and verification
// (jwt.go), and the HTTP middleware that gates protected routes
// (middleware.go).
//
// WHY BCRYPT?
// bcrypt is deliberately slow — the work factor makes offline brute-force
// expensive. It also generates a random salt per call and embeds it in the
// output, so hashing the same password twice yields two different strings
// and no separate salt column is needed.
//
// Hash format (full output of bcrypt.GenerateFromPassword):
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (12 rounds → 2^12 iterations)
//	 version
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly 250ms on
// current server hardware — slow enough to hurt attackers, fast enough
// for interactive login.
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the plaintext does not
// match the stored hash, or when the stored hash is malformed. The two
// cases are intentionally indistinguishable to callers.
var ErrPasswordMismatch = errors.New("auth: password does not match")

// PasswordService provides bcrypt hashing and verification.
//
// It is a struct (not free functions) so the cost can be injected in
// tests — bcrypt at cost 4 runs in microseconds instead of ~250ms.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced cost.
// Use bcrypt.MinCost (4) in tests. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt and a fresh random
// salt. The returned string is self-contained (salt and cost embedded) and
// is what gets stored in the users table.
//
// Returns an error for plaintexts over 72 bytes: bcrypt silently truncates
// beyond that limit, and we would rather reject than surprise the caller.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
//
// Returns nil on match and ErrPasswordMismatch otherwise. A garbage hash
// (truncated, wrong prefix, not bcrypt at all) is reported as a mismatch,
// never a panic — callers treat every non-nil result the same way.
//
// bcrypt.CompareHashAndPassword compares in constant time, so response
// timing does not reveal how much of the password was correct.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
