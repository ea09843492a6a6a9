package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cohort-tools/cohort-tools/internal/platform/httpx"
	"github.com/cohort-tools/cohort-tools/internal/shared"
)

const bearerPrefix = "Bearer "

type claimsContextKey struct{}

// ContextWithClaims stores verified claims in context.
func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns a copy of the claims attached by Middleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(Claims)
	return claims, ok
}

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

// RejectionRecorder counts rejected requests by a bounded reason label.
type RejectionRecorder interface {
	AuthRejected(reason string)
}

// Middleware gates requests on a valid bearer token.
type Middleware struct {
	Tokens     TokenVerifier
	Logger     *slog.Logger
	Rejections RejectionRecorder
}

// RequireToken rejects requests without a valid `Authorization: Bearer <token>`
// header. Verified claims are attached to the request context.
func (m Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, reason := bearerToken(r.Header.Get("Authorization"))
		if reason != "" {
			m.reject(w, r, reason, reason)
			return
		}
		if m.Tokens == nil {
			m.reject(w, r, "unconfigured", "token verifier not configured")
			return
		}
		claims, err := m.Tokens.Verify(token)
		if err != nil {
			m.reject(w, r, "invalid_token", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func (m Middleware) reject(w http.ResponseWriter, r *http.Request, label, reason string) {
	if m.Logger != nil {
		m.Logger.Warn("auth rejected", slog.String("path", r.URL.Path), slog.String("reason", reason))
	}
	if m.Rejections != nil {
		m.Rejections.AuthRejected(label)
	}
	httpx.RespondError(w, m.Logger, shared.ErrUnauthorized)
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is case-sensitive and must be followed by exactly one space.
// A non-empty reason names why the header was refused.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing_header"
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", "unsupported_scheme"
	}
	token := header[len(bearerPrefix):]
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", "malformed_header"
	}
	return token, ""
}
