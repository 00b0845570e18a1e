// Package http provides the HTTP handlers for the notes API: account
// registration and login, note CRUD and profile management.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"notekeeper/internal/middleware"
	"notekeeper/internal/models"
	"notekeeper/internal/repository"
	"notekeeper/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new account and returns the user with an access token.
	Register(ctx context.Context, input service.RegisterInput) (models.User, string, error)
	// Login checks credentials and returns the user with an access token.
	Login(ctx context.Context, username, password string) (models.User, string, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// Register handles user registration requests.
// It expects a JSON body with username, email, password and other_info.
// Duplicate usernames and emails are rejected with a 400 and a detail
// message; on success the new account is returned together with an access
// token, so registration doubles as login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteDetail(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, accessToken, err := h.AuthService.Register(r.Context(), input)
	switch {
	case errors.Is(err, service.ErrValidation):
		middleware.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, repository.ErrUsernameTaken):
		middleware.WriteDetail(w, http.StatusBadRequest, "Username already registered")
		return
	case errors.Is(err, repository.ErrEmailTaken):
		middleware.WriteDetail(w, http.StatusBadRequest, "Email already registered")
		return
	case err != nil:
		middleware.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"username":     user.Username,
		"email":        user.Email,
		"other_info":   user.OtherInfo,
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

// Login handles login requests with form-encoded credentials.
// Unknown users and wrong passwords both produce a 401 with the same detail.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteDetail(w, http.StatusBadRequest, "invalid request")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		middleware.WriteDetail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, accessToken, err := h.AuthService.Login(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		middleware.WriteDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		middleware.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"access_token": accessToken,
		"token_type":   "bearer",
		"email":        user.Email,
	})
}

// Welcome handles the unauthenticated landing endpoint.
func Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Welcome to NoteKeeper"})
}
