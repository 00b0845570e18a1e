package notes

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notekeeper/internal/client/api"
	"notekeeper/internal/client/session"
	"notekeeper/internal/models"
)

// roundTripperFunc adapts a function to http.RoundTripper for mocking.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

// newController wires a controller to a transport function and an
// authenticated session store backed by a temp file.
func newController(t *testing.T, fn roundTripperFunc) (*Controller, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.SetAuthenticated("tok-1", "alice@x.com"))
	client := api.New("http://example.com", &http.Client{Transport: fn, Timeout: 5 * time.Second}, store, zap.NewNop())
	return NewController(client, zap.NewNop()), store
}

func TestLoad_Success(t *testing.T) {
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"id":1,"title":"a","content":"A"},{"id":2,"title":"b","content":"B"}]`), nil
	})

	got, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Ready, ctrl.State())
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestLoad_FailureRetainsError(t *testing.T) {
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
	})

	_, err := ctrl.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed, ctrl.State())
	assert.Equal(t, err, ctrl.Err())
}

func TestLoad_CoalescesConcurrentCalls(t *testing.T) {
	var requests int32
	gate := make(chan struct{})
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&requests, 1)
		<-gate
		return jsonResponse(http.StatusOK, `[{"id":7,"title":"T","content":"C"}]`), nil
	})

	var wg sync.WaitGroup
	results := make([][]models.Note, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = ctrl.Load(context.Background())
		}()
		if i == 0 {
			// Let the first call reach the Loading state before the
			// second is issued.
			require.Eventually(t, func() bool { return ctrl.State() == Loading }, time.Second, time.Millisecond)
		}
	}
	// Give the second call time to register as a waiter, then let the
	// single request complete.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests), "expected coalescing into one request")
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	require.Len(t, results[0], 1)
	assert.Equal(t, int64(7), results[0][0].ID)
}

func TestCreate_AppendsOnlyConfirmedNote(t *testing.T) {
	var failNext bool
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.Method == http.MethodGet:
			return jsonResponse(http.StatusOK, `[]`), nil
		case failNext:
			return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
		default:
			return jsonResponse(http.StatusOK, `{"id":7,"title":"T","content":"C"}`), nil
		}
	})

	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	created, err := ctrl.Create(context.Background(), "T", "C")
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	require.Len(t, ctrl.Notes(), 1)
	assert.Equal(t, created, ctrl.Notes()[0])

	// A failing create leaves the collection untouched.
	failNext = true
	_, err = ctrl.Create(context.Background(), "X", "Y")
	apiErr := api.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, api.KindRejected, apiErr.Kind)
	require.Len(t, ctrl.Notes(), 1)
	assert.Equal(t, int64(7), ctrl.Notes()[0].ID)
}

func TestCreate_RequiresReady(t *testing.T) {
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		t.Error("no request expected before the collection is loaded")
		return jsonResponse(http.StatusOK, `{}`), nil
	})

	_, err := ctrl.Create(context.Background(), "T", "C")
	apiErr := api.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, api.KindValidationFailed, apiErr.Kind)
}

func TestUpdate_UnknownIDFailsLocally(t *testing.T) {
	var requests int32
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&requests, 1)
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	_, err = ctrl.Update(context.Background(), 99, "T", "C")
	apiErr := api.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, api.KindNotFound, apiErr.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests), "update of unknown id must not hit the network")
}

func TestUpdate_ReplacesEntryWithServerResponse(t *testing.T) {
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			return jsonResponse(http.StatusOK, `[{"id":7,"title":"old","content":"old"}]`), nil
		}
		// The server normalizes the submitted fields.
		return jsonResponse(http.StatusOK, `{"id":7,"title":"new","content":"trimmed"}`), nil
	})

	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	updated, err := ctrl.Update(context.Background(), 7, "new", "  trimmed  ")
	require.NoError(t, err)
	assert.Equal(t, "trimmed", updated.Content)
	require.Len(t, ctrl.Notes(), 1)
	assert.Equal(t, updated, ctrl.Notes()[0])
}

func TestDelete_FailureKeepsEntry(t *testing.T) {
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			return jsonResponse(http.StatusOK, `[{"id":7,"title":"T","content":"C"}]`), nil
		}
		return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
	})

	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	err = ctrl.Delete(context.Background(), 7)
	apiErr := api.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, api.KindRejected, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	require.Len(t, ctrl.Notes(), 1)
	assert.Equal(t, int64(7), ctrl.Notes()[0].ID)
}

func TestDelete_RemovesConfirmedEntry(t *testing.T) {
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			return jsonResponse(http.StatusOK, `[{"id":7,"title":"T","content":"C"}]`), nil
		}
		return jsonResponse(http.StatusOK, ""), nil
	})

	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, ctrl.Delete(context.Background(), 7))
	assert.Empty(t, ctrl.Notes())
}

func TestLoad_UnauthorizedClearsSession(t *testing.T) {
	ctrl, store := newController(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"detail":"token has expired"}`), nil
	})

	_, err := ctrl.Load(context.Background())
	apiErr := api.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	sess := store.Session()
	assert.Equal(t, session.Anonymous, sess.Status)
	assert.Empty(t, sess.Token)
}

func TestReset_DropsLocalState(t *testing.T) {
	ctrl, _ := newController(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"id":1,"title":"a","content":"A"}]`), nil
	})

	_, err := ctrl.Load(context.Background())
	require.NoError(t, err)

	ctrl.Reset()
	assert.Equal(t, Uninitialized, ctrl.State())
	assert.Empty(t, ctrl.Notes())
}
