package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/zoombroker/internal/config"
)

// fakeZoom emula token endpoint, /users/me y /users/{id}/recordings.
// abc123 → AT1/RT1; refresh RT1 → AT2 (sin refresh token nuevo); recordings sólo acepta AT2.
type fakeZoom struct {
	srv       *httptest.Server
	exchanges atomic.Int32
	refreshes atomic.Int32
}

func newFakeZoom(t *testing.T) *fakeZoom {
	f := &fakeZoom{}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			f.exchanges.Add(1)
			if r.PostForm.Get("code") != "abc123" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"reason":"Invalid authorization code","error":"invalid_grant"}`)
				return
			}
			_, _ = io.WriteString(w, `{"access_token":"AT1","refresh_token":"RT1","token_type":"bearer","expires_in":3600,"scope":"recording:read user:read"}`)
		case "refresh_token":
			f.refreshes.Add(1)
			if r.PostForm.Get("refresh_token") != "RT1" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"reason":"Invalid Token!","error":"invalid_request"}`)
				return
			}
			_, _ = io.WriteString(w, `{"access_token":"AT2","token_type":"bearer","expires_in":3600}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/v2/users/me", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer AT") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"u42","email":"a@b.com","first_name":"Ada","last_name":"Lovelace"}`)
	})
	mux.HandleFunc("/v2/users/u42/recordings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer AT2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"code":124,"message":"Access token is expired."}`)
			return
		}
		_, _ = io.WriteString(w, `{"from":"`+r.URL.Query().Get("from")+`","page_size":`+r.URL.Query().Get("page_size")+`,"meetings":[]}`)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func testConfig(t *testing.T, zoomURL string) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Zoom.ClientID = "cid"
	cfg.Zoom.ClientSecret = "csecret"
	cfg.Zoom.RedirectURI = "http://localhost:8000/oauth/callback"
	cfg.Zoom.AuthURL = zoomURL + "/oauth/authorize"
	cfg.Zoom.TokenURL = zoomURL + "/oauth/token"
	cfg.Zoom.BaseURL = zoomURL + "/v2"
	cfg.Cache.Kind = "memory"
	cfg.Metrics.Enabled = true
	cfg.Rate.Enabled = false
	require.NoError(t, cfg.Validate())
	return cfg
}

func build(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	h, cleanup, err := BuildHandler(context.Background(), cfg, Options{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return h
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestEndToEnd_LoginCallbackRecordingsLogout(t *testing.T) {
	fz := newFakeZoom(t)
	h := build(t, testConfig(t, fz.srv.URL))

	// login
	rec := do(h, http.MethodGet, "/oauth/login")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	authURL, err := url.Parse(decode(t, rec)["auth_url"].(string))
	require.NoError(t, err)
	q := authURL.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "recording:read user:read", q.Get("scope"))
	st := q.Get("state")
	require.NotEmpty(t, st)

	// callback
	rec = do(h, http.MethodGet, "/oauth/callback?code=abc123&state="+url.QueryEscape(st))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "u42", body["user_id"])
	assert.Equal(t, "a@b.com", body["user_email"])
	assert.NotContains(t, rec.Body.String(), "AT1")
	assert.NotContains(t, rec.Body.String(), "RT1")

	// replay del mismo state
	rec = do(h, http.MethodGet, "/oauth/callback?code=abc123&state="+url.QueryEscape(st))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATE", decode(t, rec)["code"])
	assert.Equal(t, int32(1), fz.exchanges.Load())

	// status + user
	rec = do(h, http.MethodGet, "/oauth/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated_users":["u42"],"total_users":1}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/user/u42")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "a@b.com", body["user_info"].(map[string]any)["email"])

	// recordings: AT1 rechazado → refresh → AT2
	rec = do(h, http.MethodGet, "/recordings?user_id=u42&from_date=2024-01-01")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"from":"2024-01-01","page_size":30,"meetings":[]}`, rec.Body.String())
	assert.Equal(t, int32(1), fz.refreshes.Load())

	// segundo fetch usa AT2 sin refresh
	rec = do(h, http.MethodGet, "/recordings?user_id=u42&page_size=100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page_size":100`)
	assert.Equal(t, int32(1), fz.refreshes.Load())

	// métricas
	rec = do(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `oauth_token_refreshes_total{result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/user/{user_id}"`)

	// logout
	rec = do(h, http.MethodDelete, "/oauth/logout/u42")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(h, http.MethodDelete, "/oauth/logout/u42")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(h, http.MethodGet, "/user/u42")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(h, http.MethodGet, "/recordings?user_id=u42")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", decode(t, rec)["code"])
}

func TestCallback_UnknownStateNoExchange(t *testing.T) {
	fz := newFakeZoom(t)
	h := build(t, testConfig(t, fz.srv.URL))

	rec := do(h, http.MethodGet, "/oauth/callback?code=abc123&state=unknown")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATE", decode(t, rec)["code"])
	assert.Equal(t, int32(0), fz.exchanges.Load())
}

func TestCallback_BadCodeIsTokenExchangeFailed(t *testing.T) {
	fz := newFakeZoom(t)
	h := build(t, testConfig(t, fz.srv.URL))

	rec := do(h, http.MethodGet, "/oauth/callback?code=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "TOKEN_EXCHANGE_FAILED", body["code"])
	assert.Contains(t, body["detail"], "Invalid authorization code")
	assert.NotContains(t, rec.Body.String(), "csecret")
}

func TestCallback_PopupMode(t *testing.T) {
	fz := newFakeZoom(t)
	cfg := testConfig(t, fz.srv.URL)
	cfg.Popup.Enabled = true
	cfg.Popup.TargetOrigin = "http://localhost:3000"
	h := build(t, cfg)

	rec := do(h, http.MethodGet, "/oauth/callback?code=abc123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "postMessage")
	assert.Contains(t, rec.Body.String(), `"user_id":"u42"`)
	assert.Contains(t, rec.Body.String(), `"http://localhost:3000"`)

	rec = do(h, http.MethodGet, "/oauth/callback?error=access_denied")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
	assert.Contains(t, rec.Body.String(), "OAUTH_ERROR")
}

func TestCallback_PopupWithoutOriginFallsBackToJSON(t *testing.T) {
	fz := newFakeZoom(t)
	cfg := testConfig(t, fz.srv.URL)
	cfg.Popup.Enabled = true
	h := build(t, cfg)

	rec := do(h, http.MethodGet, "/oauth/callback?code=abc123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.NotContains(t, rec.Body.String(), "postMessage")
	assert.Equal(t, "u42", decode(t, rec)["user_id"])
}

func TestHealthRootAndRouting(t *testing.T) {
	fz := newFakeZoom(t)
	h := build(t, testConfig(t, fz.srv.URL))

	rec := do(h, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "zoom-recordings-api", body["service"])

	rec = do(h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/oauth/login", decode(t, rec)["auth_endpoint"])

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/nope").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, http.MethodGet, "/oauth/logout/u42").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/recordings?user_id=u42&page_size=abc").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/recordings?user_id=u42&to_date=31-01-2024").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/recordings").Code)
}

func TestLoginRateLimit(t *testing.T) {
	fz := newFakeZoom(t)
	cfg := testConfig(t, fz.srv.URL)
	cfg.Rate.Enabled = true
	cfg.Rate.Login.Limit = 2
	cfg.Rate.Login.Window = time.Hour
	h := build(t, cfg)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/oauth/login").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/oauth/login").Code)
	rec := do(h, http.MethodGet, "/oauth/login")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// sin proxies de confianza, X-Forwarded-For no abre otra ventana
	req := httptest.NewRequest(http.MethodGet, "/oauth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.77")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// las rutas que no son de login no se limitan
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/oauth/status").Code)
}
