// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package gateway implements the session-validation and route-authorization
// core. Given a request path and the raw session credential it produces a
// Decision; the HTTP adapter in middleware.go translates decisions into
// responses. Evaluation is pure: no I/O, no clock, no mutation, so the same
// path and credential always yield the same decision.
package gateway

import "github.com/alkhairaat/gerbang/internal/token"

// Kind enumerates the possible routing outcomes.
type Kind int

const (
	// KindContinue forwards the request to the upstream application with
	// identity headers attached.
	KindContinue Kind = iota

	// KindRedirectLogin sends the client to the login page.
	KindRedirectLogin

	// KindRedirectUnauthorized sends the client to the unauthorized page.
	KindRedirectUnauthorized

	// KindRedirectDashboard sends an authenticated client to its role's
	// landing page. Location carries the target path.
	KindRedirectDashboard

	// KindClearSession expires the session cookie and sends the client to
	// the login page. Used when the credential is present but unreadable.
	KindClearSession
)

func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindRedirectLogin:
		return "redirect_login"
	case KindRedirectUnauthorized:
		return "redirect_unauthorized"
	case KindRedirectDashboard:
		return "redirect_dashboard"
	case KindClearSession:
		return "clear_session"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating one request.
type Decision struct {
	Kind Kind

	// Location is the redirect target for the redirect kinds; empty for
	// KindContinue. KindRedirectLogin and KindClearSession always target
	// LoginPath, KindRedirectUnauthorized targets UnauthorizedPath.
	Location string

	// Claims carries the decoded session identity when the credential was
	// readable, regardless of outcome. Nil for anonymous requests and
	// unreadable credentials.
	Claims *token.Claims

	// Rule names the authorization rule that produced the decision, for
	// logs and metrics. Empty when the decision was made before rule
	// evaluation (public paths, missing or broken sessions).
	Rule string
}

func continueDecision(claims *token.Claims, rule string) Decision {
	return Decision{Kind: KindContinue, Claims: claims, Rule: rule}
}

func redirectLogin() Decision {
	return Decision{Kind: KindRedirectLogin, Location: LoginPath}
}

func redirectUnauthorized(claims *token.Claims, rule string) Decision {
	return Decision{Kind: KindRedirectUnauthorized, Location: UnauthorizedPath, Claims: claims, Rule: rule}
}

func redirectDashboard(landing string, claims *token.Claims) Decision {
	return Decision{Kind: KindRedirectDashboard, Location: landing, Claims: claims}
}

func clearSession() Decision {
	return Decision{Kind: KindClearSession, Location: LoginPath}
}
