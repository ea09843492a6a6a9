package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireTokenStates(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tokens := newTestTokens(t, "mw-secret", clock)
	valid, err := tokens.Issue("user-1", "Ana")
	require.NoError(t, err)

	other := newTestTokens(t, "other-secret", clock)
	foreign, err := other.Issue("user-1", "Ana")
	require.NoError(t, err)

	expiredClock := &fakeClock{now: time.Now().Add(-72 * time.Hour)}
	expired, err := newTestTokens(t, "mw-secret", expiredClock).Issue("user-1", "Ana")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"lowercase scheme", "bearer " + valid, http.StatusUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"double space", "Bearer  " + valid, http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"trailing data", "Bearer " + valid + " extra", http.StatusUnauthorized},
		{"malformed token", "Bearer not-a-token", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				claims, ok := ClaimsFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, "user-1", claims.UserID)
				w.WriteHeader(http.StatusOK)
			})
			handler := Middleware{Tokens: tokens}.RequireToken(next)

			req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.want == http.StatusOK, reached)
			if tc.want != http.StatusOK {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequireTokenWithoutVerifier(t *testing.T) {
	handler := Middleware{}.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer a.b.c")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClaimsFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
}

type countingRecorder map[string]int

func (c countingRecorder) AuthRejected(reason string) { c[reason]++ }

func TestRequireTokenRecordsRejections(t *testing.T) {
	tokens := newTestTokens(t, "mw-secret", &fakeClock{now: time.Now()})
	counts := countingRecorder{}
	handler := Middleware{Tokens: tokens, Rejections: counts}.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer x.y.z"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, countingRecorder{
		"missing_header":     1,
		"unsupported_scheme": 1,
		"malformed_header":   1,
		"invalid_token":      1,
	}, counts)
}
