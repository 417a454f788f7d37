package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime is how long an issued token stays valid. There is no
// refresh mechanism — after expiry the client logs in again.
const tokenLifetime = time.Hour

// Sentinel errors returned by Verify. Expired tokens are reported
// separately from every other failure (bad signature, wrong issuer or
// audience, malformed string) so the HTTP layer can tell the client to
// re-authenticate rather than just "go away".
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// TokenConfig is the process-wide signing configuration. It is built once
// at startup from the environment and never mutated; every token issued
// during the process lifetime uses the same secret.
type TokenConfig struct {
	Secret   string // HMAC-SHA256 signing key, at least 16 bytes
	Issuer   string // "iss" claim, verified on the way back in
	Audience string // "aud" claim, verified on the way back in
}

// Claims is the JWT payload carried by a session token.
//
// The registered Subject claim holds the account ID; Email and Role are
// custom claims mirroring what the original login endpoint returns. The
// token is self-contained: verifying it needs no store lookup, only the
// signing secret.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens.
//
// HS256 is symmetric: the same secret signs and verifies. That is fine
// for a single service that both mints and checks its own tokens.
type TokenService struct {
	cfg    TokenConfig
	secret []byte
}

// NewTokenService creates a TokenService from the given config.
// Secret, Issuer and Audience are all required; a short secret is rejected
// here so a weak key is a startup failure, not a quiet vulnerability.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("auth: JWT issuer must not be empty")
	}
	if cfg.Audience == "" {
		return nil, errors.New("auth: JWT audience must not be empty")
	}
	return &TokenService{cfg: cfg, secret: []byte(cfg.Secret)}, nil
}

// Issue creates and signs a session token for an authenticated account.
// Claims: sub=userID, email, role, iss, aud, iat=now, exp=now+1h.
func (s *TokenService) Issue(userID, email, role string) (string, error) {
	return s.issueWithDuration(userID, email, role, tokenLifetime)
}

// issueWithDuration is the test seam behind Issue — it lets jwt_test.go
// mint already-expired tokens without sleeping through a real lifetime.
func (s *TokenService) issueWithDuration(userID, email, role string, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses a token string and returns its claims.
//
// Checks performed:
//   - signature verifies under the configured secret
//   - algorithm is HS256 (jwt.WithValidMethods blocks the classic
//     algorithm-confusion attack where an attacker picks "none")
//   - issuer and audience match the configured labels
//   - expiry is present and in the future
//   - subject is non-empty
//
// An expired token comes back wrapping ErrTokenExpired; every other
// failure wraps ErrTokenInvalid.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return c, nil
}
