package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mmynk/splitsmart/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionIDKey is the context key for storing the authenticated session ID.
const SessionIDKey contextKey = "session_id"

// GetSessionID extracts the session ID from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// RequireSession returns a middleware that validates the Bearer session token
// and adds the session ID to the request context.
func RequireSession(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				unauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
