// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/alkhairaat/gerbang/internal/config"
	"github.com/alkhairaat/gerbang/internal/logging"
	"github.com/alkhairaat/gerbang/internal/metrics"
	"github.com/alkhairaat/gerbang/internal/token"
)

// Identity headers attached to requests forwarded upstream. Inbound values
// are always stripped first: identity is asserted by the gateway, never by
// the client.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
	HeaderUserName = "X-User-Name"
)

type contextKey string

// ClaimsContextKey carries the decoded session claims on forwarded requests.
const ClaimsContextKey contextKey = "session_claims"

// ClaimsFromContext returns the session claims attached by the middleware,
// or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*token.Claims)
	return claims
}

// Middleware is the HTTP adapter around Gateway.Evaluate. It reads the
// session cookie, translates the decision into a response, and records the
// decision in logs and metrics.
type Middleware struct {
	gw           *Gateway
	cookieName   string
	cookiePath   string
	cookieSecure bool
}

// NewMiddleware builds the gateway HTTP middleware.
func NewMiddleware(gw *Gateway, sec config.SecurityConfig) *Middleware {
	return &Middleware{
		gw:           gw,
		cookieName:   sec.CookieName,
		cookiePath:   sec.CookiePath,
		cookieSecure: sec.CookieSecure,
	}
}

// Handler wraps next with session validation and route authorization.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Spoofed identity headers are dropped before anything else.
		r.Header.Del(HeaderUserID)
		r.Header.Del(HeaderUserRole)
		r.Header.Del(HeaderUserName)

		credential := ""
		if cookie, err := r.Cookie(m.cookieName); err == nil {
			credential = cookie.Value
		}

		decision := m.gw.Evaluate(r.URL.Path, credential)
		m.record(r, decision)

		switch decision.Kind {
		case KindContinue:
			if decision.Claims != nil {
				r.Header.Set(HeaderUserID, decision.Claims.SubjectIDString())
				r.Header.Set(HeaderUserRole, decision.Claims.Role)
				r.Header.Set(HeaderUserName, decision.Claims.DisplayName)
				r = r.WithContext(context.WithValue(r.Context(), ClaimsContextKey, decision.Claims))
			}
			next.ServeHTTP(w, r)

		case KindClearSession:
			m.expireCookie(w)
			http.Redirect(w, r, decision.Location, http.StatusFound)

		default:
			http.Redirect(w, r, decision.Location, http.StatusFound)
		}
	})
}

// expireCookie overwrites the session cookie with an already-expired one so
// compliant clients drop the unreadable credential instead of resending it.
func (m *Middleware) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     m.cookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Middleware) record(r *http.Request, decision Decision) {
	role := ""
	if decision.Claims != nil {
		role = decision.Claims.Role
	}
	metrics.RecordGatewayDecision(decision.Kind.String(), role, decision.Rule)

	evt := logging.Debug()
	if decision.Kind == KindRedirectUnauthorized || decision.Kind == KindClearSession {
		evt = logging.Info()
	}
	evt.Str("path", r.URL.Path).
		Str("decision", decision.Kind.String()).
		Str("rule", decision.Rule).
		Str("role", role).
		Str("location", decision.Location).
		Msg("Gateway decision")
}
