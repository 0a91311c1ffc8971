// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package authz holds the role model and route-matching primitives for the
// gateway: a closed set of platform roles, the per-role permission profiles,
// and the prefix matcher that decides route membership.
package authz

import "github.com/alkhairaat/gerbang/internal/config"

// Role enumerates the platform's user roles. The set is closed: a credential
// naming any other role is rejected outright, never mapped to a default.
type Role int

const (
	// RoleUnknown is the zero value; it never appears in a valid decision.
	RoleUnknown Role = iota
	RoleSuperAdmin
	RoleAdmin
	RoleGuru
	RoleSantri
	RoleOrtu
	RoleYayasan
)

// roleNames maps each role to its credential identifier.
var roleNames = map[Role]string{
	RoleSuperAdmin: config.RoleNameSuperAdmin,
	RoleAdmin:      config.RoleNameAdmin,
	RoleGuru:       config.RoleNameGuru,
	RoleSantri:     config.RoleNameSantri,
	RoleOrtu:       config.RoleNameOrtu,
	RoleYayasan:    config.RoleNameYayasan,
}

// ParseRole resolves a credential role identifier to a Role.
// The second return is false for any identifier outside the closed set.
func ParseRole(name string) (Role, bool) {
	switch name {
	case config.RoleNameSuperAdmin:
		return RoleSuperAdmin, true
	case config.RoleNameAdmin:
		return RoleAdmin, true
	case config.RoleNameGuru:
		return RoleGuru, true
	case config.RoleNameSantri:
		return RoleSantri, true
	case config.RoleNameOrtu:
		return RoleOrtu, true
	case config.RoleNameYayasan:
		return RoleYayasan, true
	default:
		return RoleUnknown, false
	}
}

// String returns the role's credential identifier.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Namespace returns the role's URL path namespace. Role identifiers use
// underscores, URL namespaces use hyphens; only super_admin differs.
func (r Role) Namespace() string {
	if r == RoleSuperAdmin {
		return "super-admin"
	}
	return r.String()
}

// Roles returns all platform roles in descending privilege order.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleGuru, RoleSantri, RoleOrtu, RoleYayasan}
}
