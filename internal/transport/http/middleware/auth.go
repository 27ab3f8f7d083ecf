package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kredopay/otp-api/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier checks a presented session credential.
type TokenVerifier interface {
	Verify(token string) (domain.SessionClaims, error)
}

// Auth returns middleware that validates the Bearer token and injects the
// session claims into the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts session claims from the request context.
func ClaimsFromContext(ctx context.Context) (domain.SessionClaims, bool) {
	c, ok := ctx.Value(claimsKey).(domain.SessionClaims)
	return c, ok
}
