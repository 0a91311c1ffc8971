// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package gateway

import (
	"github.com/alkhairaat/gerbang/internal/authz"
	"github.com/alkhairaat/gerbang/internal/config"
	"github.com/alkhairaat/gerbang/internal/logging"
	"github.com/alkhairaat/gerbang/internal/token"
)

// Well-known paths the gateway itself routes to.
const (
	LoginPath        = "/login"
	LogoutPath       = "/logout"
	UnauthorizedPath = "/unauthorized"
)

// PublicPathSet holds the paths reachable without a session: a fixed set of
// exact page paths plus everything under the API prefix. API routes pass
// through because the upstream application enforces its own API auth;
// protected API families are carved back out by the rule chain.
type PublicPathSet struct {
	exact     map[string]struct{}
	apiPrefix string
}

// NewPublicPathSet builds the set from configuration. Paths are stored
// normalized (no leading slash).
func NewPublicPathSet(paths []string, apiPrefix string) PublicPathSet {
	exact := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		exact[authz.Normalize(p)] = struct{}{}
	}
	return PublicPathSet{
		exact:     exact,
		apiPrefix: authz.Normalize(apiPrefix),
	}
}

// Contains reports whether the normalized path is public.
func (s PublicPathSet) Contains(path string) bool {
	if _, ok := s.exact[path]; ok {
		return true
	}
	return authz.Matches(path, s.apiPrefix)
}

// Gateway evaluates requests against the session credential and the role
// permission table. It is immutable after construction and safe for
// concurrent use.
type Gateway struct {
	codec  *token.Codec
	table  *authz.Table
	public PublicPathSet
	rules  []rule
}

// New builds a Gateway from configuration and the role table.
func New(cfg *config.Config, table *authz.Table) *Gateway {
	return &Gateway{
		codec:  token.NewCodec(),
		table:  table,
		public: NewPublicPathSet(cfg.Security.PublicPaths, cfg.Security.APIPrefix),
		rules:  defaultRules(),
	}
}

// Evaluate decides how to route a request. rawPath is the request URL path;
// credential is the session cookie value, empty when the cookie is absent.
func (g *Gateway) Evaluate(rawPath, credential string) Decision {
	path := authz.Normalize(rawPath)

	// Anonymous requests: public paths pass, everything else goes to login.
	// The application root is never public, and the analytics API family is
	// carved out of the API passthrough because it requires an
	// administrative session.
	if credential == "" {
		if rawPath != "/" && g.public.Contains(path) && !isAnalyticsPath(path) {
			return continueDecision(nil, "")
		}
		return redirectLogin()
	}

	claims, err := g.codec.Decode(credential)
	if err != nil {
		logging.Warn().Err(err).Msg("Unreadable session credential, clearing session")
		return clearSession()
	}

	role, profile, ok := g.table.Lookup(claims.Role)
	if !ok {
		logging.Warn().Str("role", claims.Role).Msg("Session carries unrecognized role")
		return redirectLogin()
	}

	// An authenticated client on the root or the login page is sent to its
	// role's landing instead of being shown the login form again.
	if rawPath == "/" || path == authz.Normalize(LoginPath) {
		return redirectDashboard(profile.Landing, claims)
	}

	// Logout always reaches the upstream so the session can be torn down.
	if path == authz.Normalize(LogoutPath) {
		return continueDecision(claims, "")
	}

	req := request{
		path:    path,
		claims:  claims,
		role:    role,
		profile: profile,
		public:  g.public,
	}
	for _, r := range g.rules {
		switch r.apply(req) {
		case outcomeGrant:
			return continueDecision(claims, r.name)
		case outcomeDeny:
			return redirectUnauthorized(claims, r.name)
		}
	}

	return redirectUnauthorized(claims, "default-deny")
}

// apiAnalyticsPrefix is the protected API family carved out of the public
// API passthrough: analytics endpoints expose aggregate data across the
// whole pesantren and are restricted to administrative roles.
const apiAnalyticsPrefix = "api/analytics"

func isAnalyticsPath(path string) bool {
	return authz.Matches(path, apiAnalyticsPrefix)
}
