package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/joestump/bookmarkd/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware authenticates API requests via Bearer access tokens.
type Middleware struct {
	tokens *TokenIssuer
	users  store.UserStoreIface
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(tokens *TokenIssuer, users store.UserStoreIface) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAccess extracts and verifies a Bearer access token. On success the
// token owner's *store.User is injected into the request context. A refresh
// token presented here is rejected like any other invalid token.
func (m *Middleware) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.tokens.Verify(BearerToken(r), TypeAccess)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// Token references a deleted user.
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from the Authorization header, or returns
// an empty string.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// writeUnauthorized writes a 401 in the same {error, code} shape every API
// error response uses.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "code": "UNAUTHORIZED"})
}
