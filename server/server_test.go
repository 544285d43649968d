package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/topicclusters/pkg/domain"
	"github.com/umputun/topicclusters/pkg/poller"
	"github.com/umputun/topicclusters/pkg/scheduler"
	"github.com/umputun/topicclusters/server/mocks"
)

const (
	testUser     = "admin"
	testPassword = "secret"
)

type testDeps struct {
	cfg    *mocks.ConfigProviderMock
	remote *mocks.RemoteMock
	linker *mocks.LinkerMock
	store  *mocks.StoreMock
}

func newTestDeps() *testDeps {
	return &testDeps{
		cfg: &mocks.ConfigProviderMock{
			GetServerConfigFunc: func() (string, time.Duration) { return ":8080", 30 * time.Second },
			ConfiguredFunc:      func() bool { return true },
		},
		remote: &mocks.RemoteMock{},
		linker: &mocks.LinkerMock{},
		store: &mocks.StoreMock{
			SaveGenerationFunc:    func(ctx context.Context, g domain.Generation) error { return nil },
			RecentGenerationsFunc: func(ctx context.Context, limit int) ([]domain.Generation, error) { return nil, nil },
			CountPostsFunc:        func(ctx context.Context) (int, error) { return 0, nil },
			LastTopicFunc:         func(ctx context.Context) (string, error) { return "", nil },
			SetLastTopicFunc:      func(ctx context.Context, topic string) error { return nil },
			RecentLinksFunc:       func(ctx context.Context, limit int) ([]domain.LinkInsertion, error) { return nil, nil },
		},
	}
}

// testServer creates a server instance using the actual New function
func testServer(t *testing.T, d *testDeps) *Server {
	t.Helper()
	srv, err := New(Params{
		Config:        d.cfg,
		Remote:        d.remote,
		Linker:        d.linker,
		Store:         d.store,
		AdminUser:     testUser,
		AdminPassword: testPassword,
		NonceSecret:   "nonce-secret",
		Poller:        poller.Options{Interval: 10 * time.Millisecond, DefaultClusterSize: 20},
		SessionTTL:    time.Minute,
		Version:       "1.0.0",
	})
	require.NoError(t, err)
	t.Cleanup(srv.sessions.closeAll)
	return srv
}

// adminRequest makes an authenticated form request with a valid nonce
func adminRequest(t *testing.T, srv *Server, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader = http.NoBody
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.SetBasicAuth(testUser, testPassword)
	req.Header.Set("X-Nonce", srv.nonces.Make(testUser))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestServer_New(t *testing.T) {
	srv := testServer(t, newTestDeps())
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
	assert.NotNil(t, srv.templates.Lookup(templatePage))
	assert.NotNil(t, srv.templates.Lookup(templateResults))
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	d := newTestDeps()
	d.cfg.GetServerConfigFunc = func() (string, time.Duration) {
		return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
	}
	srv := testServer(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = srv.Run(ctx)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	time.Sleep(100 * time.Millisecond)
}

func TestServer_statusHandler(t *testing.T) {
	d := newTestDeps()
	d.store.CountPostsFunc = func(ctx context.Context) (int, error) { return 42, nil }
	srv := testServer(t, d)

	req := httptest.NewRequest("GET", "/api/v1/status", http.NoBody)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.0.0", status["version"])
	assert.Equal(t, true, status["configured"])
	assert.InDelta(t, 42, status["posts"], 0.001)
	assert.NotEmpty(t, status["time"])
	assert.NotContains(t, status, "import", "no import section without scheduler")
}

func TestServer_statusHandler_ImportStatus(t *testing.T) {
	lastRun := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tbl := []struct {
		name   string
		status scheduler.Status
		want   string
	}{
		{"never run", scheduler.Status{}, `{"imported":0,"error":""}`},
		{"success", scheduler.Status{LastRun: lastRun, Imported: 12},
			`{"imported":12,"error":"","last_run":"2026-03-01T10:00:00Z"}`},
		{"failed", scheduler.Status{LastRun: lastRun, Err: "feed unavailable"},
			`{"imported":0,"error":"feed unavailable","last_run":"2026-03-01T10:00:00Z"}`},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps()
			imports := &mocks.ImportStatusMock{StatusFunc: func() scheduler.Status { return tt.status }}
			srv, err := New(Params{Config: d.cfg, Remote: d.remote, Linker: d.linker, Store: d.store,
				ImportStatus: imports, AdminUser: testUser, AdminPassword: testPassword, NonceSecret: "nonce-secret"})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/status", http.NoBody))
			require.Equal(t, http.StatusOK, w.Code)

			var status struct {
				Import json.RawMessage `json:"import"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.JSONEq(t, tt.want, string(status.Import))
			assert.Len(t, imports.StatusCalls(), 1)
		})
	}
}

func TestServer_healthHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		d := newTestDeps()
		d.remote.HealthFunc = func(ctx context.Context) error { return nil }
		srv := testServer(t, d)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("remote down", func(t *testing.T) {
		d := newTestDeps()
		d.remote.HealthFunc = func(ctx context.Context) error {
			return &domain.TransportError{Op: "health", Err: errors.New("connection refused")}
		}
		srv := testServer(t, d)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", http.NoBody))
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})

	t.Run("not configured", func(t *testing.T) {
		d := newTestDeps()
		d.remote.HealthFunc = func(ctx context.Context) error {
			return &domain.ConfigurationError{Msg: "API URL is not configured"}
		}
		srv := testServer(t, d)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", http.NoBody))
		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	})
}

func TestServer_AdminRequiresAuth(t *testing.T) {
	srv := testServer(t, newTestDeps())

	for _, path := range []string{"/admin", "/admin/sessions/abc"} {
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", path, http.NoBody))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	req := httptest.NewRequest("GET", "/admin", http.NoBody)
	req.SetBasicAuth(testUser, "wrong")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRenderJSON(t *testing.T) {
	w := httptest.NewRecorder()
	renderJSON(w, nil, http.StatusCreated, map[string]string{"message": "test"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"test"}`, w.Body.String())

	w = httptest.NewRecorder()
	renderError(w, nil, errors.New("bad thing"), http.StatusBadRequest)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad thing"}`, w.Body.String())

	w = httptest.NewRecorder()
	renderError(w, nil, nil, http.StatusInternalServerError)
	assert.JSONEq(t, `{"error":"unknown error"}`, w.Body.String())
}
