package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziolkown/cb-5/server"
	"github.com/ziolkown/cb-5/server/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := server.Config{AdminUser: "admin"}.FillDefaults()

	srv, err := server.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_CompileEndpointRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/compile", api.CompileRequest{Source: "void main() {}"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_LoginThenCompile(t *testing.T) {
	ts := newTestServer(t)

	loginResp := postJSON(t, ts.URL+"/v1/login", api.LoginRequest{
		Username: "admin",
		Password: server.DefaultAdminPassword,
	}, "")
	require.Equal(t, http.StatusCreated, loginResp.StatusCode)

	var login api.LoginResponse
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)

	compileResp := postJSON(t, ts.URL+"/v1/compile", api.CompileRequest{Source: "void main() {}"}, login.Token)
	require.Equal(t, http.StatusCreated, compileResp.StatusCode)

	var compiled api.CompileResponse
	require.NoError(t, json.NewDecoder(compileResp.Body).Decode(&compiled))
	assert.True(t, compiled.Succeeded)
	assert.Empty(t, compiled.Diagnostics)
}

func TestServer_InfoReflectsAuthState(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/v1/info", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info api.InfoModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.NotEmpty(t, info.Version)
}
