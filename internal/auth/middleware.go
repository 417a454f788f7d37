package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write
// claims in a request context — no other package can collide with or
// shadow the value.
type contextKey string

const claimsKey contextKey = "claims"

// The request moves through three states:
//
//	Unauthenticated → (valid bearer token) → Authenticated(claims)
//	Authenticated   → (role matches)       → Authorized
//
// RequireAuth performs the first transition, RequireRole the second.
// A request that fails either transition never reaches the handler, so a
// gated operation's side effects cannot run for an unauthorized caller.

// RequireAuth enforces authentication on protected routes.
//
// It reads the token from the "Authorization: Bearer <token>" header (the
// transport hands the bearer string over unmodified), verifies it, and
// stores the decoded claims in the request context. Missing, malformed,
// expired or otherwise invalid tokens get 401 and the chain stops.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces a role on an already-authenticated route. Mount it
// after RequireAuth.
//
// The match is an exact, case-sensitive string comparison and there is no
// role hierarchy: an Admin check passes only claims whose role is
// literally "Admin", and an Admin token does not satisfy a check for any
// other role. Mismatches get 403 and the handler never runs.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				// RequireAuth was not mounted in front of this route.
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			if claims.Role != role {
				http.Error(w, `{"error":"forbidden","message":"insufficient role"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext retrieves the authenticated caller's claims.
// Returns (nil, false) if the request carried no valid token.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// extractClaims pulls the bearer token out of the Authorization header and
// verifies it. Shared by RequireAuth and any future optional-auth variant.
func extractClaims(r *http.Request, tokens *TokenService) (*Claims, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, ErrTokenInvalid
	}

	return tokens.Verify(token)
}
