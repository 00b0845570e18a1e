// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"notekeeper/internal/models"
	"notekeeper/internal/token"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier validates an access token and returns its subject.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// UserLoader resolves a token subject to the stored user record.
type UserLoader interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, verifies it, loads
// the user it belongs to, and stores the user in the request context so it
// can be used downstream as the authenticated identity. Missing, invalid or
// expired tokens are rejected with 401 and a JSON detail body, which the
// client gateway turns into a session clear.
func BearerAuth(verifier TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				WriteDetail(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			subject, err := verifier.Verify(tokenString)
			if err != nil {
				detail := "token is invalid"
				if errors.Is(err, token.ErrExpiredToken) {
					detail = "token has expired"
				}
				WriteDetail(w, http.StatusUnauthorized, detail)
				return
			}

			user, err := users.GetByUsername(r.Context(), subject)
			if err != nil {
				// A valid token for a user that no longer exists cannot
				// authenticate anything.
				WriteDetail(w, http.StatusUnauthorized, "user not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext extracts the authenticated user from the request
// context. Returns a zero User if not found.
func GetUserFromContext(ctx context.Context) models.User {
	val := ctx.Value(userKey)
	if u, ok := val.(models.User); ok {
		return u
	}
	return models.User{}
}

// WriteDetail writes a JSON error body in the {"detail": ...} shape the
// client expects.
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
