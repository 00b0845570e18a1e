package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notekeeper/internal/models"
)

// ErrNoteNotFound is returned when no note matches the id for the user.
var ErrNoteNotFound = errors.New("note not found")

// PostgresNoteRepository implements note persistence against PostgreSQL.
// All operations are scoped to the owning user.
type PostgresNoteRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository using the provided *sql.DB.
// db must be a valid connection to a PostgreSQL instance.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// ListByUser fetches all notes owned by the given user, in insertion order.
func (r *PostgresNoteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, content FROM notes WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser rows: %w", err)
	}
	return notes, nil
}

// Create inserts a note for the user and returns it with the assigned id.
func (r *PostgresNoteRepository) Create(ctx context.Context, userID int64, input models.NoteInput) (models.Note, error) {
	note := models.Note{Title: input.Title, Content: input.Content}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO notes (user_id, title, content) VALUES ($1, $2, $3) RETURNING id
	`, userID, input.Title, input.Content).Scan(&note.ID)
	if err != nil {
		return models.Note{}, fmt.Errorf("Create: %w", err)
	}
	return note, nil
}

// Update replaces the title and content of a note owned by the user.
// Returns ErrNoteNotFound if the note does not exist or belongs to another user.
func (r *PostgresNoteRepository) Update(ctx context.Context, userID, noteID int64, input models.NoteInput) (models.Note, error) {
	var note models.Note
	err := r.DB.QueryRowContext(ctx, `
		UPDATE notes SET title = $3, content = $4
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, title, content
	`, noteID, userID, input.Title, input.Content).Scan(&note.ID, &note.Title, &note.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNoteNotFound
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("Update: %w", err)
	}
	return note, nil
}

// Delete removes a note owned by the user.
// Returns ErrNoteNotFound if the note does not exist or belongs to another user.
func (r *PostgresNoteRepository) Delete(ctx context.Context, userID, noteID int64) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM notes WHERE id = $1 AND user_id = $2
	`, noteID, userID)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
