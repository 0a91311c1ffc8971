// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package gateway

import (
	"github.com/alkhairaat/gerbang/internal/authz"
	"github.com/alkhairaat/gerbang/internal/token"
)

// outcome is a single rule's verdict. A rule that has no opinion about a
// request skips, and evaluation moves to the next rule; the first grant or
// deny wins. A request that exhausts the chain is denied.
type outcome int

const (
	outcomeSkip outcome = iota
	outcomeGrant
	outcomeDeny
)

// request bundles everything a rule may inspect. The path is normalized
// (no leading slash).
type request struct {
	path    string
	claims  *token.Claims
	role    authz.Role
	profile authz.Profile
	public  PublicPathSet
}

// rule is one named step of the authorization chain. Names appear in logs
// and metrics, so they are stable identifiers, not prose.
type rule struct {
	name  string
	apply func(request) outcome
}

// defaultRules returns the authorization chain in evaluation order. Order is
// load-bearing: namespace guards run before the generic prefix match so that
// privileged namespaces deny outright instead of falling through, and the
// analytics guard runs before the public API passthrough would wave the
// request on.
func defaultRules() []rule {
	return []rule{
		{name: "admin-namespace", apply: adminNamespaceRule},
		{name: "super-admin-namespace", apply: superAdminNamespaceRule},
		{name: "own-profile", apply: ownProfileRule},
		{name: "analytics-api", apply: analyticsAPIRule},
		{name: "public-passthrough", apply: publicPassthroughRule},
		{name: "role-prefixes", apply: rolePrefixesRule},
	}
}

// adminNamespaceRule guards the admin namespace: admins and super admins
// enter, everyone else is denied. Super admins operate across both
// administrative namespaces.
func adminNamespaceRule(req request) outcome {
	if !authz.Matches(req.path, authz.RoleAdmin.Namespace()) {
		return outcomeSkip
	}
	if req.role == authz.RoleAdmin || req.role == authz.RoleSuperAdmin {
		return outcomeGrant
	}
	return outcomeDeny
}

// superAdminNamespaceRule guards the super-admin namespace for super admins
// only. Ordinary admins are denied here even though they hold the next
// privilege level down.
func superAdminNamespaceRule(req request) outcome {
	if !authz.Matches(req.path, authz.RoleSuperAdmin.Namespace()) {
		return outcomeSkip
	}
	if req.role == authz.RoleSuperAdmin {
		return outcomeGrant
	}
	return outcomeDeny
}

// ownProfileRule grants every role its own profile page, exactly
// {namespace}/profil. Sub-paths fall through to the generic matcher.
func ownProfileRule(req request) outcome {
	if req.path == req.role.Namespace()+"/profil" {
		return outcomeGrant
	}
	return outcomeSkip
}

// analyticsAPIRule restricts the analytics API family to administrative
// roles before the public API passthrough can grant it.
func analyticsAPIRule(req request) outcome {
	if !isAnalyticsPath(req.path) {
		return outcomeSkip
	}
	if req.role == authz.RoleAdmin || req.role == authz.RoleSuperAdmin {
		return outcomeGrant
	}
	return outcomeDeny
}

// publicPassthroughRule grants authenticated requests to public paths. An
// authenticated user who navigates to /unauthorized or /forgot-passcode must
// see the page, not bounce back to /unauthorized in a loop.
func publicPassthroughRule(req request) outcome {
	if req.public.Contains(req.path) {
		return outcomeGrant
	}
	return outcomeSkip
}

// rolePrefixesRule is the generic matcher: the request is granted when the
// path falls under one of the role's configured namespaces.
func rolePrefixesRule(req request) outcome {
	if req.profile.Allows(req.path) {
		return outcomeGrant
	}
	return outcomeSkip
}
