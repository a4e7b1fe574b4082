// internal/api/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"corebank/internal/auth"
)

// authContextKey is a custom type for context keys to avoid collisions.
type authContextKey string

// identityKey is the key under which the verified caller identity is stored.
const identityKey authContextKey = "identity"

// AuthMiddleware validates the Bearer token and places the verified caller
// identity in the request context. Handlers downstream trust it
// unconditionally.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized: missing Authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, "Unauthorized: invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			identity, err := auth.VerifyToken(secret, parts[1])
			if err != nil {
				http.Error(w, "Unauthorized: invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the verified identity placed by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok && !identity.IsZero()
}
