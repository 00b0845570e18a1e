// Package notes maintains the client-side mirror of the user's note
// collection. Every mutation is confirm-then-apply: local state changes only
// after the server has acknowledged the operation, so the collection never
// holds an entry the server has rejected or not yet seen.
package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"notekeeper/internal/client/api"
	"notekeeper/internal/models"
)

// State is the controller lifecycle state.
type State int

const (
	// Uninitialized means Load has never been called.
	Uninitialized State = iota
	// Loading means a fetch is in flight.
	Loading
	// Ready means the collection mirrors a server-confirmed state.
	Ready
	// Failed means the last Load failed; the error is retained.
	Failed
)

// loadOutcome is delivered to callers coalesced into an in-flight Load.
type loadOutcome struct {
	notes []models.Note
	err   error
}

// Controller owns the local note collection and the operations on it.
type Controller struct {
	api *api.Client
	log *zap.Logger

	mu      sync.Mutex
	state   State
	notes   []models.Note
	lastErr error
	waiters []chan loadOutcome
}

// NewController creates a controller in the Uninitialized state.
func NewController(client *api.Client, log *zap.Logger) *Controller {
	return &Controller{api: client, log: log}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Notes returns a copy of the current collection.
func (c *Controller) Notes() []models.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Note, len(c.notes))
	copy(out, c.notes)
	return out
}

// Err returns the error retained from the last failed Load, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Load fetches the full collection from the server. A Load issued while
// another is in flight does not produce a second request: the late caller
// waits for and observes the same outcome as the first.
func (c *Controller) Load(ctx context.Context) ([]models.Note, error) {
	c.mu.Lock()
	if c.state == Loading {
		ch := make(chan loadOutcome, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		out := <-ch
		return out.notes, out.err
	}
	c.state = Loading
	c.mu.Unlock()

	fetched, err := c.fetch(ctx)

	c.mu.Lock()
	if err != nil {
		c.state = Failed
		c.lastErr = err
	} else {
		c.state = Ready
		c.notes = fetched
		c.lastErr = nil
	}
	waiters := c.waiters
	c.waiters = nil
	result := make([]models.Note, len(c.notes))
	copy(result, c.notes)
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- loadOutcome{notes: result, err: err}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// fetch retrieves and decodes the server's note collection.
func (c *Controller) fetch(ctx context.Context) ([]models.Note, error) {
	raw, err := c.api.Get(ctx, "/notes")
	if err != nil {
		return nil, err
	}
	var fetched []models.Note
	if raw != nil {
		if err := json.Unmarshal(raw, &fetched); err != nil {
			return nil, fmt.Errorf("decode notes: %w", err)
		}
	}
	return fetched, nil
}

// Create sends a new note to the server and, only on confirmation, appends
// the server-returned note (carrying its assigned id) to the collection.
// On failure the collection is untouched so the caller can retry.
func (c *Controller) Create(ctx context.Context, title, content string) (models.Note, error) {
	if err := c.requireReady(); err != nil {
		return models.Note{}, err
	}

	raw, err := c.api.PostJSON(ctx, "/notes", models.NoteInput{Title: title, Content: content})
	if err != nil {
		return models.Note{}, err
	}
	var created models.Note
	if err := json.Unmarshal(raw, &created); err != nil {
		return models.Note{}, fmt.Errorf("decode created note: %w", err)
	}

	c.mu.Lock()
	c.notes = append(c.notes, created)
	c.mu.Unlock()
	c.log.Debug("note created", zap.Int64("id", created.ID))
	return created, nil
}

// Update replaces the note with the given id. The id must be present
// locally; the server's returned object is authoritative for the stored
// fields and replaces the local entry on success.
func (c *Controller) Update(ctx context.Context, id int64, title, content string) (models.Note, error) {
	if err := c.requireReady(); err != nil {
		return models.Note{}, err
	}
	if !c.has(id) {
		return models.Note{}, api.NotFound(fmt.Sprintf("note %d not found", id))
	}

	raw, err := c.api.PutJSON(ctx, fmt.Sprintf("/notes/%d", id), models.NoteInput{Title: title, Content: content})
	if err != nil {
		return models.Note{}, err
	}
	var updated models.Note
	if err := json.Unmarshal(raw, &updated); err != nil {
		return models.Note{}, fmt.Errorf("decode updated note: %w", err)
	}

	c.mu.Lock()
	for i := range c.notes {
		if c.notes[i].ID == updated.ID {
			c.notes[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// Delete removes the note with the given id. The local entry is removed
// only after the server confirms the deletion; on failure it stays, and the
// caller must surface the error rather than assume the note is gone.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	if !c.has(id) {
		return api.NotFound(fmt.Sprintf("note %d not found", id))
	}

	if _, err := c.api.Delete(ctx, fmt.Sprintf("/notes/%d", id)); err != nil {
		return err
	}

	c.mu.Lock()
	kept := c.notes[:0]
	for _, n := range c.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.notes = kept
	c.mu.Unlock()
	c.log.Debug("note deleted", zap.Int64("id", id))
	return nil
}

// Reset returns the controller to Uninitialized and drops the local
// collection. Called when the session ends.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = Uninitialized
	c.notes = nil
	c.lastErr = nil
	c.mu.Unlock()
}

// requireReady rejects mutations before the collection has been loaded.
func (c *Controller) requireReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return api.ValidationFailed("notes are not loaded")
	}
	return nil
}

// has reports whether a note with the given id is present locally.
func (c *Controller) has(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.notes {
		if n.ID == id {
			return true
		}
	}
	return false
}
