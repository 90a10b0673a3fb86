package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/valgraphics/identity-be/internal/http/respond"
)

// Authenticator resolves a bearer token to an account ID.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

type contextKey string

const accountIDKey contextKey = "account_id"

// AccountID returns the authenticated account ID stored by RequireAuth.
func AccountID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok
}

// RequireAuth verifies the Authorization header and stores the resolved
// account ID in the request context. The header may carry the raw token or
// a "Bearer " prefixed one; both are accepted.
func RequireAuth(auth Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("Authorization"))
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
		if token == "" {
			respond.Error(w, http.StatusUnauthorized, "no token, authorization denied")
			return
		}

		accountID, err := auth.Authenticate(token)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "token invalid")
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
