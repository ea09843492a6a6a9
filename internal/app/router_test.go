package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-tools/cohort-tools/internal/auth"
	"github.com/cohort-tools/cohort-tools/internal/observability"
	_ "github.com/cohort-tools/cohort-tools/testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, store Pinger) (http.Handler, *observability.Metrics) {
	t.Helper()
	tokens, err := auth.NewTokenService("router-secret", time.Hour)
	require.NoError(t, err)
	metrics := observability.NewMetrics()
	authHandler := auth.NewHandler(nil, auth.NewService(nil, nil, tokens), auth.Middleware{Tokens: tokens, Rejections: metrics})

	return NewRouter(RouterParams{
		Config:      &Config{AppEnv: "development", Origin: "http://app.example", AppRequestTimeout: time.Second},
		AuthHandler: authHandler,
		Metrics:     metrics,
		Store:       store,
	}), metrics
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, pingerFunc(func(context.Context) error { return nil }))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	down, _ := newTestRouter(t, pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "refused")
}

func TestUnknownRouteIsProblemJSON(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/cohorts", nil)
	req.Header.Set("Origin", "http://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/cohorts", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestVerifyWithoutTokenIsCountedAndMetricsExposed(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/verify", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `cohorttools_auth_rejections_total{reason="missing_header"} 1`)
	assert.Contains(t, body, `cohorttools_http_requests_total{code="401",method="GET",route="/auth/verify"} 1`)
}
