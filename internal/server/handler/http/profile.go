package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"notekeeper/internal/middleware"
	"notekeeper/internal/models"
	"notekeeper/internal/repository"
)

// UserService defines the interface for profile operations required by the
// HTTP handlers.
type UserService interface {
	Profile(ctx context.Context, username string) (models.Profile, error)
	UpdateProfile(ctx context.Context, username string, input models.ProfileInput) (models.Profile, error)
}

// ProfileHandler handles HTTP requests for the authenticated user's profile.
type ProfileHandler struct {
	// UserService performs the underlying profile operations.
	UserService UserService
}

// Get returns the authenticated user's profile record.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	profile, err := h.UserService.Profile(r.Context(), user.Username)
	if err != nil {
		middleware.WriteDetail(w, http.StatusInternalServerError, "failed to fetch user profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// Update sets the mutable profile fields and returns the stored record
// wrapped in a message envelope. Username never changes.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var input models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteDetail(w, http.StatusBadRequest, "invalid request")
		return
	}

	profile, err := h.UserService.UpdateProfile(r.Context(), user.Username, input)
	if errors.Is(err, repository.ErrEmailTaken) {
		middleware.WriteDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		middleware.WriteDetail(w, http.StatusInternalServerError, "Failed to update user profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Profile updated successfully",
		"user":    profile,
	})
}
