package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/natthaphonr/account-service/internal/auth"
	"github.com/natthaphonr/account-service/internal/payload"
)

type contextKey struct{}

var sessionClaimsKey = contextKey{}

// ClaimsFromContext returns the session claims stored by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(*auth.SessionClaims)
	return claims, ok
}

// RequireAuth validates the bearer session token and stores its claims in the
// request context. Authentication only; role checks compose on top.
func RequireAuth(jwtAuth auth.JWTAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMessage(w, http.StatusUnauthorized, "Access Denied. No token provided.")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			claims, err := jwtAuth.ValidateSessionToken(parts[1])
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole denies requests whose session claims do not carry the exact
// role. Must run after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Access Denied. No token provided.")
				return
			}

			if claims.Role != role {
				writeMessage(w, http.StatusForbidden, "Access Denied. Insufficient permissions.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload.MessageResponse{Message: message})
}
