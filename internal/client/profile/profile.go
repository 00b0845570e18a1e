// Package profile maintains the client-side copy of the user's account
// record. The server is authoritative: after an update the whole record is
// replaced with the server's response, never merged client-side.
package profile

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
	// Ready means the record mirrors a server-confirmed state.
	Ready
	// Failed means the last Load failed; the error is retained.
	Failed
)

// loadOutcome is delivered to callers coalesced into an in-flight Load.
type loadOutcome struct {
	record models.Profile
	err    error
}

// Controller owns the local profile record and the operations on it.
type Controller struct {
	api *api.Client
	log *zap.Logger

	mu      sync.Mutex
	state   State
	record  models.Profile
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

// Profile returns the current record.
func (c *Controller) Profile() models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// Err returns the error retained from the last failed Load, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Load fetches the profile record. Re-entrant calls while a fetch is in
// flight are coalesced into the single outstanding request.
func (c *Controller) Load(ctx context.Context) (models.Profile, error) {
	c.mu.Lock()
	if c.state == Loading {
		ch := make(chan loadOutcome, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		out := <-ch
		return out.record, out.err
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
		c.record = fetched
		c.lastErr = nil
	}
	waiters := c.waiters
	c.waiters = nil
	record := c.record
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- loadOutcome{record: record, err: err}
	}
	if err != nil {
		return models.Profile{}, err
	}
	return record, nil
}

// fetch retrieves and decodes the profile record.
func (c *Controller) fetch(ctx context.Context) (models.Profile, error) {
	raw, err := c.api.Get(ctx, "/user/profile/")
	if err != nil {
		return models.Profile{}, err
	}
	var fetched models.Profile
	if err := json.Unmarshal(raw, &fetched); err != nil {
		return models.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return fetched, nil
}

// Update submits the mutable profile fields. On success the whole local
// record is replaced with the server's returned record, including fields the
// caller did not submit; on failure the prior record is retained.
func (c *Controller) Update(ctx context.Context, email, otherInfo string) (models.Profile, error) {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return models.Profile{}, api.ValidationFailed("profile is not loaded")
	}
	c.mu.Unlock()

	raw, err := c.api.PutJSON(ctx, "/users/update", models.ProfileInput{Email: email, OtherInfo: otherInfo})
	if err != nil {
		return models.Profile{}, err
	}

	// The update endpoint wraps the record in a message envelope.
	var resp struct {
		User models.Profile `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return models.Profile{}, fmt.Errorf("decode updated profile: %w", err)
	}

	c.mu.Lock()
	c.record = resp.User
	c.mu.Unlock()
	c.log.Debug("profile updated", zap.String("username", resp.User.Username))
	return resp.User, nil
}

// Reset returns the controller to Uninitialized and drops the local record.
// Called when the session ends.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = Uninitialized
	c.record = models.Profile{}
	c.lastErr = nil
	c.mu.Unlock()
}
