package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errNoToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth enforces authentication on protected routes.
//
// The client presents the token as "Authorization: Bearer <jwt>". The
// middleware validates it and stores the verified Identity in the request
// context; a missing, malformed, expired, or tampered token ends the
// request with 401 before any handler runs.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}` + "\n"))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by
// RequireAuth. Returns (nil, false) on an unauthenticated request — on a
// RequireAuth-protected route that can only mean a wiring bug, and handlers
// treat it as a hard precondition failure rather than defaulting to some
// sentinel user id.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// extractIdentity reads and validates the bearer token from the
// Authorization header.
func extractIdentity(r *http.Request, tokens *TokenService) (*Identity, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil, errNoToken
	}

	return tokens.Verify(strings.TrimSpace(header[len(prefix):]))
}
