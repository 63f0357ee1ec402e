package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marquee-app/marquee/internal/api"
	"github.com/marquee-app/marquee/internal/config"
	"github.com/marquee-app/marquee/internal/notify"
	"github.com/marquee-app/marquee/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// mockAPI records the Authorization header of every call
type mockAPI struct {
	*httptest.Server

	mu          sync.Mutex
	authHeaders []string
}

func (m *mockAPI) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.authHeaders...)
}

func newMockAPI(t *testing.T) *mockAPI {
	t.Helper()

	m := &mockAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)

		switch req.Email {
		case "admin@example.com":
			json.NewEncoder(w).Encode(api.LoginResponse{Token: "admin-token", User: api.User{Name: "Ada", IsAdmin: true}})
		case "viewer@example.com":
			json.NewEncoder(w).Encode(api.LoginResponse{Token: "viewer-token", User: api.User{Name: "Vic"}})
		case "tokenless@example.com":
			json.NewEncoder(w).Encode(api.LoginResponse{User: api.User{Name: "Tess", IsAdmin: true}})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
		}
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"u9"}`))
	})
	mux.HandleFunc("GET /movies", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.authHeaders = append(m.authHeaders, r.Header.Get("Authorization"))
		m.mu.Unlock()
		json.NewEncoder(w).Encode([]api.Movie{{ID: "1", Title: "Alien"}})
	})
	mux.HandleFunc("GET /movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Movie{ID: r.PathValue("id"), Title: "Heat"})
	})

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Close)
	return m
}

func newTestServer(t *testing.T, apiURL string) *Server {
	t.Helper()

	cfg := &config.Config{
		Web: config.WebConfig{ListenAddr: ":0", SessionSecret: testSecret},
	}
	client, err := api.New(apiURL, session.Static{})
	require.NoError(t, err)

	srv, err := New(cfg, client, zerolog.Nop())
	require.NoError(t, err)
	return srv
}

// browser replays cookies between requests like a real user agent
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, handler: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(email string) {
	b.t.Helper()
	rec := b.post("/login", url.Values{"email": {email}, "password": {"pw"}})
	require.Equal(b.t, http.StatusSeeOther, rec.Code)
}

func TestNew_RequiresSessionSecret(t *testing.T) {
	client, err := api.New("http://localhost:1", session.Static{})
	require.NoError(t, err)

	_, err = New(&config.Config{}, client, zerolog.Nop())
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	rec := newBrowser(t, srv.Handler()).get("/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"online"`)
}

func TestRootRedirectsToLogin(t *testing.T) {
	mock := newMockAPI(t)
	b := newBrowser(t, newTestServer(t, mock.URL).Handler())

	rec := b.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	b.login("admin@example.com")
	rec = b.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAdminRoute_Anonymous(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())

	rec := b.get("/admin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
}

func TestAdminRoute_NonAdmin(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())
	b.login("viewer@example.com")

	rec := b.get("/admin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
}

func TestAdminRoute_Admin(t *testing.T) {
	mock := newMockAPI(t)
	b := newBrowser(t, newTestServer(t, mock.URL).Handler())
	b.login("admin@example.com")

	rec := b.get("/admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-component="AdminDashboard"`)
	assert.Contains(t, rec.Body.String(), "Alien")

	assert.Equal(t, []string{"Bearer admin-token"}, mock.seen())
}

func TestLogin_ShowsWelcomeToastOnce(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())

	rec := b.post("/login", url.Values{"email": {"viewer@example.com"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))

	rec = b.get("/movies")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome back, Vic")
	assert.Contains(t, body, "toast-success")
	assert.Contains(t, body, `data-duration-ms="3000"`)

	rec = b.get("/movies")
	assert.NotContains(t, rec.Body.String(), "Welcome back")
}

func TestLogin_Failure(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())

	rec := b.post("/login", url.Values{"email": {"nobody@example.com"}, "password": {"pw"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = b.get("/login")
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Contains(t, rec.Body.String(), "toast-error")

	rec = b.post("/login", url.Values{"email": {"nobody@example.com"}})
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogin_WithoutTokenStaysLoggedOut(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())

	rec := b.post("/login", url.Values{"email": {"tokenless@example.com"}, "password": {"pw"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = b.get("/login")
	body := rec.Body.String()
	assert.Contains(t, body, "no session was issued")
	assert.NotContains(t, body, "Welcome back")
	assert.NotContains(t, body, "Log out")

	rec = b.get("/admin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
}

func TestToast_QueuedDespiteFailingSubscriber(t *testing.T) {
	mock := newMockAPI(t)

	notifier := notify.New(notify.DefaultOptions())
	notifier.Subscribe(notify.SinkFunc(func(notify.Notification) error {
		return errors.New("subscriber down")
	}))
	client, err := api.New(mock.URL, nil, api.WithNotifier(notifier))
	require.NoError(t, err)

	cfg := &config.Config{
		Web: config.WebConfig{ListenAddr: ":0", SessionSecret: testSecret},
	}
	srv, err := New(cfg, client, zerolog.Nop())
	require.NoError(t, err)

	b := newBrowser(t, srv.Handler())
	b.login("viewer@example.com")

	rec := b.get("/movies")
	assert.Contains(t, rec.Body.String(), "Welcome back, Vic")
}

func TestLogout_ClearsSession(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())
	b.login("admin@example.com")

	require.Equal(t, http.StatusOK, b.get("/admin").Code)

	rec := b.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.get("/admin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
}

func TestRegister(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())

	rec := b.post("/register", url.Values{"name": {"Bo"}, "email": {"bo@example.com"}, "password": {"pw"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	assert.Contains(t, b.get("/login").Body.String(), "Account created")
}

func TestMovieDetail(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())

	rec := b.get("/movie/42")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-component="SingleMovie"`)
	assert.Contains(t, rec.Body.String(), `data-movie-id="42"`)
}

func TestUnknownPath(t *testing.T) {
	b := newBrowser(t, newTestServer(t, newMockAPI(t).URL).Handler())

	rec := b.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = b.post("/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIUnavailable_ShowsErrorToast(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	b := newBrowser(t, newTestServer(t, down.URL).Handler())

	rec := b.get("/movies")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The movies service is unavailable")
}
