// Package auth orchestrates the session lifecycle: login, registration and
// logout. It is the only component that writes the session store on the way
// in, and it invalidates the resource controllers on the way out.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"notekeeper/internal/client/api"
	"notekeeper/internal/client/session"
)

// minPasswordLen is the shortest password accepted at registration.
const minPasswordLen = 6

// Resettable is a resource controller that can drop its local state.
type Resettable interface {
	Reset()
}

// RegistrationForm carries the fields of the registration request, including
// the confirmation that never leaves the client.
type RegistrationForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	OtherInfo       string
}

// tokenResponse is the server payload for login and registration.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

// Coordinator drives session state transitions.
type Coordinator struct {
	api         *api.Client
	store       *session.Store
	controllers []Resettable
	log         *zap.Logger
}

// NewCoordinator creates a coordinator. The given controllers are reset
// whenever the session ends, so no stale server data survives a logout.
func NewCoordinator(client *api.Client, store *session.Store, log *zap.Logger, controllers ...Resettable) *Coordinator {
	return &Coordinator{api: client, store: store, log: log, controllers: controllers}
}

// Login authenticates with the server using form-encoded credentials, as the
// login endpoint requires. On success the session store is updated with the
// returned token and email; on failure session state is untouched.
func (c *Coordinator) Login(ctx context.Context, username, password string) (session.Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	raw, err := c.api.PostForm(ctx, "/login", form)
	if err != nil {
		return session.Session{}, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return session.Session{}, fmt.Errorf("decode login response: %w", err)
	}
	if resp.AccessToken == "" {
		return session.Session{}, api.Rejected(http.StatusOK, "no access token in response")
	}

	if err := c.store.SetAuthenticated(resp.AccessToken, resp.Email); err != nil {
		return session.Session{}, fmt.Errorf("persist session: %w", err)
	}
	c.log.Info("logged in", zap.String("subject", resp.Email))
	return c.store.Session(), nil
}

// Register validates the form locally, then creates the account. A response
// carrying an access token is treated as auto-login; a 2xx without one is an
// error, since the contract promises a token.
func (c *Coordinator) Register(ctx context.Context, form RegistrationForm) (session.Session, error) {
	if form.Password != form.ConfirmPassword {
		return session.Session{}, api.ValidationFailed("passwords do not match")
	}
	if len(form.Password) < minPasswordLen {
		return session.Session{}, api.ValidationFailed(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	payload := map[string]string{
		"username":   form.Username,
		"email":      form.Email,
		"password":   form.Password,
		"other_info": form.OtherInfo,
	}
	raw, err := c.api.PostJSON(ctx, "/register", payload)
	if err != nil {
		return session.Session{}, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return session.Session{}, fmt.Errorf("decode register response: %w", err)
	}
	if resp.AccessToken == "" {
		return session.Session{}, api.Rejected(http.StatusOK, "no token returned")
	}

	subject := resp.Email
	if subject == "" {
		subject = form.Email
	}
	if err := c.store.SetAuthenticated(resp.AccessToken, subject); err != nil {
		return session.Session{}, fmt.Errorf("persist session: %w", err)
	}
	c.log.Info("registered", zap.String("subject", subject))
	return c.store.Session(), nil
}

// Logout discards the credential and resets the resource controllers. The
// server is not called: with a stateless token backend there is nothing to
// revoke, logging out is purely a client-side discard.
func (c *Coordinator) Logout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	for _, ctrl := range c.controllers {
		ctrl.Reset()
	}
	c.log.Info("logged out")
	return nil
}
