package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notekeeper/internal/client/session"
)

// roundTripperFunc adapts a function to http.RoundTripper for mocking.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestDo_AttachesBearerWhenAuthenticated(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetAuthenticated("tok-1", "alice@x.com"))

	var gotAuth string
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{}`), nil
	}), store, zap.NewNop())

	_, err := client.Get(context.Background(), "/notes")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestDo_OmitsBearerWhenAnonymous(t *testing.T) {
	store := newTestStore(t)

	var gotAuth string
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{"message":"hi"}`), nil
	}), store, zap.NewNop())

	_, err := client.Get(context.Background(), "/api")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_NetworkFailureIsUnreachable(t *testing.T) {
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	}), newTestStore(t), zap.NewNop())

	_, err := client.Get(context.Background(), "/notes")
	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindUnreachable, apiErr.Kind)
}

func TestDo_RejectedWithDetail(t *testing.T) {
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
	}), newTestStore(t), zap.NewNop())

	_, err := client.Get(context.Background(), "/notes")
	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindRejected, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestDo_RejectedWithoutParseableBody(t *testing.T) {
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `<html>`), nil
	}), newTestStore(t), zap.NewNop())

	_, err := client.Get(context.Background(), "/notes")
	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindRejected, apiErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Contains(t, apiErr.Message, "503")
}

func TestDo_EmptySuccessBody(t *testing.T) {
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, ""), nil
	}), newTestStore(t), zap.NewNop())

	payload, err := client.Delete(context.Background(), "/notes/7")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestDo_UnauthorizedClearsSession(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetAuthenticated("tok-stale", "alice@x.com"))

	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"detail":"token has expired"}`), nil
	}), store, zap.NewNop())

	_, err := client.Get(context.Background(), "/notes")
	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	sess := store.Session()
	assert.Equal(t, session.Anonymous, sess.Status)
	assert.Empty(t, sess.Token)
}

func TestPostForm_EncodesFormBody(t *testing.T) {
	var gotContentType, gotBody string
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		gotContentType = req.Header.Get("Content-Type")
		data, _ := io.ReadAll(req.Body)
		gotBody = string(data)
		return jsonResponse(http.StatusOK, `{"access_token":"tok-1"}`), nil
	}), newTestStore(t), zap.NewNop())

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "secret1")
	_, err := client.PostForm(context.Background(), "/login", form)
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Contains(t, gotBody, "username=alice")
	assert.Contains(t, gotBody, "password=secret1")
}

func TestPostJSON_SetsContentType(t *testing.T) {
	var gotContentType string
	client := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		gotContentType = req.Header.Get("Content-Type")
		return jsonResponse(http.StatusOK, `{}`), nil
	}), newTestStore(t), zap.NewNop())

	_, err := client.PostJSON(context.Background(), "/notes", map[string]string{"title": "T"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
}
