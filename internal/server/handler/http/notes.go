package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"notekeeper/internal/middleware"
	"notekeeper/internal/models"
	"notekeeper/internal/repository"
)

// NoteService defines the interface for note operations required by the
// HTTP handlers.
type NoteService interface {
	List(ctx context.Context, userID int64) ([]models.Note, error)
	Create(ctx context.Context, userID int64, input models.NoteInput) (models.Note, error)
	Update(ctx context.Context, userID, noteID int64, input models.NoteInput) (models.Note, error)
	Delete(ctx context.Context, userID, noteID int64) error
}

// NotesHandler handles HTTP requests for the authenticated user's notes.
type NotesHandler struct {
	// NoteService performs the underlying note operations.
	NoteService NoteService
}

// List returns all notes owned by the authenticated user as a JSON array.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	notes, err := h.NoteService.List(r.Context(), user.ID)
	if err != nil {
		middleware.WriteDetail(w, http.StatusInternalServerError, "failed to fetch notes")
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(notes)
}

// Create stores a new note for the authenticated user and returns it with
// its server-assigned id.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteDetail(w, http.StatusBadRequest, "invalid request")
		return
	}

	note, err := h.NoteService.Create(r.Context(), user.ID, input)
	if err != nil {
		middleware.WriteDetail(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(note)
}

// Update replaces the title and content of one of the user's notes and
// returns the stored note.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	noteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteDetail(w, http.StatusBadRequest, "invalid note id")
		return
	}

	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteDetail(w, http.StatusBadRequest, "invalid request")
		return
	}

	note, err := h.NoteService.Update(r.Context(), user.ID, noteID, input)
	if errors.Is(err, repository.ErrNoteNotFound) {
		middleware.WriteDetail(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		middleware.WriteDetail(w, http.StatusInternalServerError, "failed to update note")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(note)
}

// Delete removes one of the user's notes. A successful deletion has an
// empty body.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	noteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteDetail(w, http.StatusBadRequest, "invalid note id")
		return
	}

	err = h.NoteService.Delete(r.Context(), user.ID, noteID)
	if errors.Is(err, repository.ErrNoteNotFound) {
		middleware.WriteDetail(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		middleware.WriteDetail(w, http.StatusInternalServerError, "failed to delete note")
		return
	}

	w.WriteHeader(http.StatusOK)
}
