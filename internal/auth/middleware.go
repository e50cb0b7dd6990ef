package auth

import (
	"context"
	"net/http"

	"github.com/sakif/survivaldisc/internal/model"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means no other package can read or shadow
// the identity we store in the request context.
type contextKey string

const identityKey contextKey = "identity"

// CookieName is the HttpOnly cookie that carries the JWT.
const CookieName = "token"

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the HttpOnly cookie, validates it, and stores the
// caller's Identity in the request context. Missing or invalid tokens stop
// the chain with 401.
//
// The token lives in an HttpOnly cookie rather than a header so page
// JavaScript can never read it — XSS can't exfiltrate the credential.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to the privileged account. Must be nested
// inside RequireAuth (chi: r.Use(RequireAuth(...)); r.Use(RequireAdmin)).
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok || id.Role != model.RoleAdmin {
			http.Error(w, `{"error":"forbidden","message":"admin access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext retrieves the authenticated caller from the request
// context. Returns (nil, false) for anonymous requests.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// extractIdentity reads the JWT cookie and validates it.
func extractIdentity(r *http.Request, tokens *TokenService) (*Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — not an error, just anonymous
		return nil, err
	}

	return tokens.Validate(cookie.Value)
}
