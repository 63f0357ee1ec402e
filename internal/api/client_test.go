package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marquee-app/marquee/internal/notify"
	"github.com/marquee-app/marquee/internal/session"
	"github.com/marquee-app/marquee/internal/storage"
)

// recordingServer answers every request with an empty JSON list and records the
// headers it saw
func recordingServer(t *testing.T) (*httptest.Server, *[]http.Header) {
	t.Helper()

	var seen []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Clone())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestClient_AttachesBearerWhenCredentialPresent(t *testing.T) {
	srv, seen := recordingServer(t)

	c, err := New(srv.URL, session.Static{Credential: "abc123"})
	require.NoError(t, err)

	_, err = c.ListMovies(context.Background())
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.Equal(t, "Bearer abc123", (*seen)[0].Get("Authorization"))
}

func TestClient_NoHeaderWithoutCredential(t *testing.T) {
	srv, seen := recordingServer(t)

	c, err := New(srv.URL, session.Static{})
	require.NoError(t, err)

	_, err = c.ListMovies(context.Background())
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	_, present := (*seen)[0]["Authorization"]
	assert.False(t, present)
}

func TestClient_ReadsCredentialPerRequest(t *testing.T) {
	srv, seen := recordingServer(t)

	store := storage.NewMemoryStore()
	accessor := session.NewAccessor(store, zerolog.Nop())

	c, err := New(srv.URL, accessor)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.ListMovies(ctx)
	require.NoError(t, err)

	require.NoError(t, accessor.Save("first", false))
	_, err = c.ListMovies(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Set(session.TokenKey, "second"))
	_, err = c.ListMovies(ctx)
	require.NoError(t, err)

	require.NoError(t, accessor.Clear())
	_, err = c.ListMovies(ctx)
	require.NoError(t, err)

	require.Len(t, *seen, 4)
	assert.Equal(t, "", (*seen)[0].Get("Authorization"))
	assert.Equal(t, "Bearer first", (*seen)[1].Get("Authorization"))
	assert.Equal(t, "Bearer second", (*seen)[2].Get("Authorization"))
	assert.Equal(t, "", (*seen)[3].Get("Authorization"))
}

func TestClient_InterceptorErrorPropagatesUnchanged(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	setupErr := errors.New("request setup failed")
	c, err := New(srv.URL, session.Static{Credential: "abc123"},
		WithInterceptor(func(*http.Request) (*http.Request, error) { return nil, setupErr }),
	)
	require.NoError(t, err)

	_, err = c.ListMovies(context.Background())
	assert.True(t, err == setupErr, "expected the interceptor error itself, got %v", err)
	assert.False(t, called)
}

func TestClient_NewRequestErrorPropagatesUnchanged(t *testing.T) {
	c, err := New("https://api.example.com", session.Static{})
	require.NoError(t, err)

	_, err = c.NewRequest(context.Background(), "BAD METHOD", "/movies", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid method")

	_, err = c.NewRequest(context.Background(), http.MethodPost, "/movies", make(chan int))
	var unsupported *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}

func TestClient_URL(t *testing.T) {
	c, err := New("https://api.example.com/v1/", session.Static{})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", c.BaseURL())
	assert.Equal(t, "https://api.example.com/v1/movies", c.URL("/movies"))
	assert.Equal(t, "https://api.example.com/v1/movies", c.URL("movies"))
	assert.Equal(t, "https://other.example.com/x", c.URL("https://other.example.com/x"))
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative", "http://%zz"} {
		_, err := New(raw, session.Static{})
		assert.Error(t, err, raw)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Token expired"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, session.Static{Credential: "stale"})
	require.NoError(t, err)

	_, err = c.GetMovie(context.Background(), "1")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Token expired", statusErr.Message())
}

func TestStatusError_MessageFallbacks(t *testing.T) {
	assert.Equal(t, "bad input", (&StatusError{StatusCode: 400, Body: `{"error":"bad input"}`}).Message())
	assert.Equal(t, "Forbidden", (&StatusError{StatusCode: 403, Body: "nope"}).Message())
}

func TestClient_Notifier(t *testing.T) {
	c, err := New("https://api.example.com", session.Static{})
	require.NoError(t, err)

	opts := c.Notifier().Options()
	assert.Equal(t, 3000*time.Millisecond, opts.Duration)
	assert.Equal(t, notify.Position{X: "right", Y: "top"}, opts.Position)

	custom := notify.New(notify.Options{})
	c, err = New("https://api.example.com", session.Static{}, WithNotifier(custom))
	require.NoError(t, err)
	assert.Same(t, custom, c.Notifier())
}

func TestApply(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/movies", nil)

	var order []string
	first := func(r *http.Request) (*http.Request, error) {
		order = append(order, "first")
		r.Header.Set("X-Trace", "1")
		return r, nil
	}
	second := func(r *http.Request) (*http.Request, error) {
		order = append(order, "second")
		return nil, nil // keep the request as is
	}

	out, err := Apply(req, first, second, Bearer(session.Static{Credential: "abc123"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "1", out.Header.Get("X-Trace"))
	assert.Equal(t, "Bearer abc123", out.Header.Get("Authorization"))
}

func TestClient_ContextStateOverridesDefault(t *testing.T) {
	srv, seen := recordingServer(t)

	c, err := New(srv.URL, session.Static{Credential: "process-wide"})
	require.NoError(t, err)

	ctx := session.WithState(context.Background(), session.Static{Credential: "per-request"})
	_, err = c.ListMovies(ctx)
	require.NoError(t, err)

	ctx = session.WithState(context.Background(), session.Static{})
	_, err = c.ListMovies(ctx)
	require.NoError(t, err)

	require.Len(t, *seen, 2)
	assert.Equal(t, "Bearer per-request", (*seen)[0].Get("Authorization"))
	assert.Equal(t, "", (*seen)[1].Get("Authorization"))
}

func TestClient_NilStateUsesContextOnly(t *testing.T) {
	srv, seen := recordingServer(t)

	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.ListMovies(context.Background())
	require.NoError(t, err)

	ctx := session.WithState(context.Background(), session.Static{Credential: "abc123"})
	_, err = c.ListMovies(ctx)
	require.NoError(t, err)

	require.Len(t, *seen, 2)
	assert.Equal(t, "", (*seen)[0].Get("Authorization"))
	assert.Equal(t, "Bearer abc123", (*seen)[1].Get("Authorization"))
}

func TestClient_DoAttachesBearerToHandBuiltRequest(t *testing.T) {
	srv, seen := recordingServer(t)

	c, err := New(srv.URL, session.Static{Credential: "abc123"})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.URL("/movies"), nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, *seen, 1)
	assert.Equal(t, "Bearer abc123", (*seen)[0].Get("Authorization"))
	assert.Empty(t, req.Header.Get("Authorization"), "caller's request must not be modified")
}

func TestClient_DoRunsInterceptorsOnce(t *testing.T) {
	srv, _ := recordingServer(t)

	calls := 0
	c, err := New(srv.URL, session.Static{},
		WithInterceptor(func(r *http.Request) (*http.Request, error) {
			calls++
			return r, nil
		}),
	)
	require.NoError(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/movies", nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, calls)
}

func TestClient_DoInterceptorErrorPropagatesUnchanged(t *testing.T) {
	srv, seen := recordingServer(t)

	setupErr := errors.New("request setup failed")
	c, err := New(srv.URL, session.Static{},
		WithInterceptor(func(*http.Request) (*http.Request, error) { return nil, setupErr }),
	)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, c.URL("/movies"), nil)
	require.NoError(t, err)

	_, err = c.Do(req)
	assert.True(t, err == setupErr, "expected the interceptor error itself, got %v", err)
	assert.Empty(t, *seen)
}

func TestWithTimeout_LeavesCallerClientUntouched(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c, err := New("https://api.example.com", session.Static{},
		WithHTTPClient(shared),
		WithTimeout(5*time.Second),
	)
	require.NoError(t, err)

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, shared, c.httpClient)

	c, err = New("https://api.example.com", session.Static{},
		WithHTTPClient(nil),
		WithTimeout(5*time.Second),
	)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}
