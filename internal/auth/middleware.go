package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/academihub/academihub/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type prevents collisions: only this package can
// read or write identities in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header,
// validates it, checks the revocation list (if one is configured), and
// stores the Identity in the request context. Missing, invalid, expired or
// revoked tokens get 401 Unauthorized and the chain stops.
//
// The bearer header, not a cookie, is the wire contract here — every
// client of this API (the client package included) attaches the token as
// a header on each call.
func RequireAuth(tokens *TokenService, revoker *Revoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, tokens, revoker)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces that the authenticated caller holds one of the given
// roles. Must be mounted after RequireAuth (it 401s if no identity is in
// the context). Wrong role gets 403, not 401 — the caller is known, just
// not allowed.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := make(map[model.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}
			if !allowed[id.Role] {
				http.Error(w, `{"error":"forbidden","message":"insufficient role"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the request
// context. Returns (zero, false) for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// ContextWithIdentity returns a context carrying the identity, exactly as
// RequireAuth would have stored it. Lets handler tests skip the
// middleware and token machinery.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// BearerToken extracts the raw token from the Authorization header.
// Returns ("", error) when the header is absent or not a Bearer scheme.
// Exported because the logout handler needs the raw token to revoke it.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("auth: missing Authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("auth: Authorization header is not a Bearer token")
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", fmt.Errorf("auth: empty bearer token")
	}
	return token, nil
}

// extractIdentity reads and validates the bearer token, then consults the
// revocation list. Shared by RequireAuth; a nil revoker skips the check.
func extractIdentity(r *http.Request, tokens *TokenService, revoker *Revoker) (Identity, error) {
	tokenStr, err := BearerToken(r)
	if err != nil {
		return Identity{}, err
	}

	id, err := tokens.Validate(tokenStr)
	if err != nil {
		return Identity{}, err
	}

	if revoker.Revoked(r.Context(), tokenStr) {
		return Identity{}, fmt.Errorf("auth: token revoked")
	}

	return id, nil
}
