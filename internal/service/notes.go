package service

import (
	"context"

	"notekeeper/internal/models"
)

// NoteRepository defines the persistence operations required by the note
// service. All operations are scoped to the owning user.
type NoteRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Note, error)
	Create(ctx context.Context, userID int64, input models.NoteInput) (models.Note, error)
	Update(ctx context.Context, userID, noteID int64, input models.NoteInput) (models.Note, error)
	Delete(ctx context.Context, userID, noteID int64) error
}

// NoteService implements note operations by delegating to a NoteRepository.
type NoteService struct {
	repo NoteRepository
}

// NewNoteService constructs a NoteService using the provided repository.
func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// List returns all notes owned by the user.
func (s *NoteService) List(ctx context.Context, userID int64) ([]models.Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new note for the user and returns it with its id.
func (s *NoteService) Create(ctx context.Context, userID int64, input models.NoteInput) (models.Note, error) {
	return s.repo.Create(ctx, userID, input)
}

// Update replaces a note's fields and returns the stored note.
func (s *NoteService) Update(ctx context.Context, userID, noteID int64, input models.NoteInput) (models.Note, error) {
	return s.repo.Update(ctx, userID, noteID, input)
}

// Delete removes a note owned by the user.
func (s *NoteService) Delete(ctx context.Context, userID, noteID int64) error {
	return s.repo.Delete(ctx, userID, noteID)
}
