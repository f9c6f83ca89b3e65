package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joestump/bookmarkd/internal/alias"
	"github.com/joestump/bookmarkd/internal/api"
	"github.com/joestump/bookmarkd/internal/auth"
	"github.com/joestump/bookmarkd/internal/store"
	"github.com/joestump/bookmarkd/internal/testutil"
)

// testEnv wires a real in-memory database, the stores, and the full router,
// so handler tests exercise the same stack the server runs.
type testEnv struct {
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.NewTestDB(t)
	users := store.NewUserStore(conn)
	bookmarks := store.NewBookmarkStore(conn, alias.NewGenerator())
	tokens := auth.NewTokenIssuer([]byte("test-secret"), 15*time.Minute, 720*time.Hour)

	router := api.NewRouter(api.Deps{
		AuthMiddleware: auth.NewMiddleware(tokens, users),
		Tokens:         tokens,
		UserStore:      users,
		BookmarkStore:  bookmarks,
	})

	return &testEnv{router: router}
}

// do performs a request against the router. A non-empty token is sent as a
// Bearer credential; a non-nil body is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response body %q: %v", rr.Body.String(), err)
	}
	return v
}

// register creates an account and fails the test on any non-201 response.
func (e *testEnv) register(t *testing.T, username, email, password string) {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %q: status = %d, body = %s", username, rr.Code, rr.Body.String())
	}
}

// login exchanges credentials for a token pair.
func (e *testEnv) login(t *testing.T, email, password string) api.LoginResponse {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %q: status = %d, body = %s", email, rr.Code, rr.Body.String())
	}
	return decode[api.LoginResponse](t, rr)
}

// accessToken registers a fresh user and returns a valid access token.
func (e *testEnv) accessToken(t *testing.T, username, email string) string {
	t.Helper()

	e.register(t, username, email, "secret1")
	return e.login(t, email, "secret1").AccessToken
}

func wantError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rr.Code != status {
		t.Fatalf("status = %d, want %d; body = %s", rr.Code, status, rr.Body.String())
	}
	resp := decode[api.ErrorResponse](t, rr)
	if resp.Code != code {
		t.Errorf("error code = %q, want %q", resp.Code, code)
	}
}
