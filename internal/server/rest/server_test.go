package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/logging"
	"github.com/dmitrijs2005/colorcheck/internal/server/config"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/dmitrijs2005/colorcheck/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// --- fakes ---

type fakeAuth struct {
	users    map[string]*models.User
	loginOut *services.LoginResult
	loginErr error
	lastRaw  string
}

func (f *fakeAuth) Login(context.Context, string, string) (*services.LoginResult, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeAuth) Resolve(_ context.Context, raw string) (*models.User, error) {
	f.lastRaw = raw
	if raw == "" {
		return nil, common.ErrTokenMissing
	}
	u, ok := f.users[raw]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return u, nil
}

type fakeChecks struct {
	createIn   services.CreateCheckInput
	createErr  error
	requestErr error
	list       []*models.ColorCheck
	listErr    error
	caller     *models.User
}

func (f *fakeChecks) Create(_ context.Context, caller *models.User, in services.CreateCheckInput) (*models.ColorCheck, error) {
	f.caller, f.createIn = caller, in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.ColorCheck{ID: 11, CreatedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)}, nil
}

func (f *fakeChecks) Request(_ context.Context, caller *models.User, _ services.RequestCheckInput) (*models.ColorCheck, error) {
	f.caller = caller
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &models.ColorCheck{ID: 12}, nil
}

func (f *fakeChecks) List(_ context.Context, caller *models.User) ([]*models.ColorCheck, error) {
	f.caller = caller
	return f.list, f.listErr
}

func (f *fakeChecks) ListRequests(_ context.Context, caller *models.User) ([]*models.ColorCheck, error) {
	f.caller = caller
	return f.list, f.listErr
}

type fakeUsers struct {
	includeTokens bool
	list          []*models.User
	err           error
}

func (f *fakeUsers) List(_ context.Context, _ *models.User, includeTokens bool) ([]*models.User, error) {
	f.includeTokens = includeTokens
	return f.list, f.err
}

func (f *fakeUsers) Create(_ context.Context, _ *models.User, in services.CreateUserInput) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{UserName: in.UserName, Token: "newtok"}, nil
}

// --- helpers ---

var (
	testAdmin = &models.User{ID: 1, UserName: "admin", Role: models.RoleAdmin}
	testUser  = &models.User{ID: 2, UserName: "bob", Role: models.RoleUser}
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StaticDir = ""
	return cfg
}

func newFakeServer(cfg *config.Config) (*HTTPServer, *fakeAuth, *fakeChecks, *fakeUsers) {
	a := &fakeAuth{users: map[string]*models.User{"admintok": testAdmin, "bobtok": testUser}}
	cs := &fakeChecks{}
	us := &fakeUsers{}
	return NewHTTPServer(cfg, logging.Nop{}, a, cs, us), a, cs, us
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func token(tok string) map[string]string { return map[string]string{"X-API-TOKEN": tok} }

// --- tests ---

func TestPublicRoutes(t *testing.T) {
	s, _, _, _ := newFakeServer(testConfig())

	w := do(t, s.Handler(), http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")

	w = do(t, s.Handler(), http.MethodGet, "/colors", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestTokenAuth(t *testing.T) {
	s, a, cs, _ := newFakeServer(testConfig())

	w := do(t, s.Handler(), http.MethodGet, "/colorchecks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token missing", decode[errorResponse](t, w).Error)

	w = do(t, s.Handler(), http.MethodGet, "/colorchecks", "", token("nope"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", decode[errorResponse](t, w).Error)

	w = do(t, s.Handler(), http.MethodGet, "/colorchecks", "", map[string]string{"Authorization": "bobtok"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testUser, cs.caller)

	// X-API-TOKEN wins
	do(t, s.Handler(), http.MethodGet, "/colorchecks", "", map[string]string{"X-API-TOKEN": "admintok", "Authorization": "Token bobtok"})
	assert.Equal(t, "admintok", a.lastRaw)
}

func TestLogin(t *testing.T) {
	s, a, _, _ := newFakeServer(testConfig())

	a.loginOut = &services.LoginResult{Token: "t", Role: models.RoleAdmin}
	w := do(t, s.Handler(), http.MethodPost, "/login", `{"username":"admin","password":"admin123"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"token": "t", "role": "admin"}, decode[map[string]string](t, w))

	a.loginErr = common.ErrInvalidCredentials
	w = do(t, s.Handler(), http.MethodPost, "/login", `{"username":"admin","password":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode[errorResponse](t, w).Error)

	a.loginErr = common.ErrCredentialsRequired
	w = do(t, s.Handler(), http.MethodPost, "/login", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s.Handler(), http.MethodPost, "/login", `{"username":`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid JSON body", decode[errorResponse](t, w).Error)
}

func TestCreateCheck(t *testing.T) {
	s, _, cs, _ := newFakeServer(testConfig())

	w := do(t, s.Handler(), http.MethodPost, "/colorchecks",
		`{"pantone":"186 c","hex_color":"#fff","notes":"n","points":["a","b"]}`, token("bobtok"))
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, float64(11), body["id"])
	assert.Equal(t, "2024-02-03T04:05:06Z", body["created_at"])
	assert.Equal(t, services.CreateCheckInput{HexColor: "#fff", Pantone: "186 c", Notes: "n", Points: []string{"a", "b"}}, cs.createIn)

	cs.createErr = common.ErrPantoneRequired
	w = do(t, s.Handler(), http.MethodPost, "/colorchecks", `{}`, token("bobtok"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "pantone required", decode[errorResponse](t, w).Error)

	cs.createErr = errors.New("db error: disk full")
	w = do(t, s.Handler(), http.MethodPost, "/colorchecks", `{"pantone":"1"}`, token("bobtok"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decode[errorResponse](t, w).Error)
}

func TestRequestCheck(t *testing.T) {
	s, _, cs, _ := newFakeServer(testConfig())

	w := do(t, s.Handler(), http.MethodPost, "/colorchecks/request", `{"pantone":"1c"}`, token("bobtok"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Color request saved", body["message"])
	assert.Equal(t, float64(12), body["id"])

	cs.requestErr = common.ErrPantoneRequired
	w = do(t, s.Handler(), http.MethodPost, "/colorchecks/request", `{}`, token("bobtok"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cs.requestErr = errors.New("db error: database is locked")
	w = do(t, s.Handler(), http.MethodPost, "/colorchecks/request", `{"pantone":"1c"}`, token("bobtok"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "db error: database is locked", decode[errorResponse](t, w).Error)
}

func TestListChecks(t *testing.T) {
	s, _, cs, _ := newFakeServer(testConfig())

	cs.list = []*models.ColorCheck{{
		ID: 3, Pantone: "186C", HexColor: "#C8102E", Status: models.StatusApproved,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 500000000, time.UTC), UserName: "admin",
	}}

	for _, path := range []string{"/colorchecks", "/colorchecks/request"} {
		w := do(t, s.Handler(), http.MethodGet, path, "", token("admintok"))
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]checkResponse](t, w)
		require.Len(t, got, 1)
		assert.Equal(t, checkResponse{
			ID: 3, HexColor: "#C8102E", Pantone: "186C", Status: "approved", Points: []string{},
			CreatedAt: "2024-01-01T00:00:00.5Z", User: "admin",
		}, got[0])
	}

	cs.list = []*models.ColorCheck{}
	w := do(t, s.Handler(), http.MethodGet, "/colorchecks", "", token("admintok"))
	assert.Equal(t, "[]", w.Body.String())
}

func TestUsersRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.ExposeUserTokens = false
	s, _, _, us := newFakeServer(cfg)

	us.list = []*models.User{{ID: 1, UserName: "admin", Role: models.RoleAdmin}}
	w := do(t, s.Handler(), http.MethodGet, "/users", "", token("admintok"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, us.includeTokens)
	assert.NotContains(t, w.Body.String(), "api_token")

	w = do(t, s.Handler(), http.MethodPost, "/users", `{"username":"carol","password":"pw"}`, token("admintok"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok", "username": "carol", "api_token": "newtok"}, decode[map[string]string](t, w))

	us.err = common.ErrAdminRequired
	w = do(t, s.Handler(), http.MethodGet, "/users", "", token("bobtok"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decode[errorResponse](t, w).Error)

	us.err = common.ErrUsernameExists
	w = do(t, s.Handler(), http.MethodPost, "/users", `{"username":"carol","password":"pw"}`, token("admintok"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username exists", decode[errorResponse](t, w).Error)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrPantoneRequired, http.StatusBadRequest},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrAdminRequired, http.StatusForbidden},
		{common.ErrUsernameExists, http.StatusBadRequest},
		{common.ErrorNotFound, http.StatusInternalServerError},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}

func TestCORS(t *testing.T) {
	s, _, _, _ := newFakeServer(testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/colorchecks", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-API-TOKEN")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	cfg := testConfig()
	cfg.AllowOrigins = "http://a.example, http://b.example"
	s, _, _, _ = newFakeServer(cfg)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, s.corsConfig().AllowOrigins)
	assert.False(t, s.corsConfig().AllowAllOrigins)
}

func TestStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "script.js"), []byte("console.log(1)"), 0o600))

	cfg := testConfig()
	cfg.StaticDir = dir
	s, _, _, _ := newFakeServer(cfg)

	w := do(t, s.Handler(), http.MethodGet, "/static/script.js", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	cfg.StaticDir = filepath.Join(dir, "missing")
	s, _, _, _ = newFakeServer(cfg)
	w = do(t, s.Handler(), http.MethodGet, "/static/script.js", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	s, _, _, _ := newFakeServer(testConfig())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + lis.Addr().String() + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	cfg := testConfig()
	cfg.EndpointAddrHTTP = "127.0.0.1:99999"
	s, _, _, _ := newFakeServer(cfg)

	assert.Error(t, s.Run(context.Background()))
}
