package middle_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziolkown/cb-5/server/middle"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long!!!")

func echoAuthState(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loggedIn, _ := r.Context().Value(middle.AuthLoggedIn).(bool)
		user, _ := r.Context().Value(middle.AuthUser).(string)
		if loggedIn {
			w.Header().Set("X-User", user)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_RejectsMissingToken(t *testing.T) {
	h := middle.RequireAuth(testSecret, 0)(echoAuthState(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_AcceptsValidToken(t *testing.T) {
	tok, err := middle.GenerateJWT("admin", testSecret)
	require.NoError(t, err)

	h := middle.RequireAuth(testSecret, 0)(echoAuthState(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Header().Get("X-User"))
}

func TestRequireAuth_RejectsBadSignature(t *testing.T) {
	tok, err := middle.GenerateJWT("admin", []byte("some-other-secret-that-is-long-enough"))
	require.NoError(t, err)

	h := middle.RequireAuth(testSecret, 0)(echoAuthState(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth_PassesThroughWithoutToken(t *testing.T) {
	h := middle.OptionalAuth(testSecret, 0)(echoAuthState(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))
}

func TestOptionalAuth_PopulatesUserWithToken(t *testing.T) {
	tok, err := middle.GenerateJWT("admin", testSecret)
	require.NoError(t, err)

	h := middle.OptionalAuth(testSecret, 0)(echoAuthState(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Header().Get("X-User"))
}

func TestDontPanic_RecoversAndReturns500(t *testing.T) {
	h := middle.DontPanic()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
