// Package api implements the client's single gateway to the backend REST
// API. It is the only component that issues network calls: it attaches the
// bearer token from the session store, fixes each call site to its
// endpoint's content type, and classifies every outcome into the closed
// Error set.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"notekeeper/internal/client/session"
)

// Client issues HTTP requests against a single backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	log     *zap.Logger
}

// New creates a gateway client for the given base URL. httpClient may be nil,
// in which case a default client with a request timeout is used. The session
// store is read on every call and cleared when the server reports a 401.
func New(baseURL string, httpClient *http.Client, store *session.Store, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   store,
		log:     log,
	}
}

// Get issues a GET request to path.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// PostJSON issues a POST request with a JSON-encoded body.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, ValidationFailed(fmt.Sprintf("encode request body: %v", err))
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data))
}

// PutJSON issues a PUT request with a JSON-encoded body.
func (c *Client) PutJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, ValidationFailed(fmt.Sprintf("encode request body: %v", err))
	}
	return c.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(data))
}

// PostForm issues a POST request with a form-encoded body. Only the login
// endpoint declares this content type.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

// Delete issues a DELETE request to path.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil)
}

// do performs a single request and classifies the outcome. A nil error with
// a nil payload means a 2xx response with an empty body. The gateway never
// retries; callers decide whether to re-issue.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, Unreachable(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sess := c.store.Session(); sess.Status == session.Authenticated {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, Unreachable(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Unreachable(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		return json.RawMessage(data), nil
	}

	msg := detailMessage(data)
	if msg == "" {
		msg = fmt.Sprintf("server returned status %d", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// A rejected token cannot authenticate any further call in this
		// session, so discard it before surfacing the error.
		if clearErr := c.store.Clear(); clearErr != nil {
			c.log.Warn("failed to clear session", zap.Error(clearErr))
		}
	}
	c.log.Debug("request rejected",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return nil, Rejected(resp.StatusCode, msg)
}

// detailMessage extracts the server's human-readable error detail, if the
// body is a JSON object carrying one.
func detailMessage(data []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
