// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package authz

import (
	"fmt"
	"strings"

	"github.com/alkhairaat/gerbang/internal/config"
)

// Profile is one role's static permission record.
type Profile struct {
	// Level is the role's position in the privilege hierarchy, higher = more
	// privileged. Routing decisions are prefix-based today; the level is
	// preserved for rules that need a total order over roles.
	Level int

	// Prefixes are the normalized path namespaces (no leading slash) the
	// role may enter via the generic matcher.
	Prefixes []string

	// Landing is the dashboard path the role is sent to from / and /login.
	Landing string
}

// Allows reports whether the normalized path falls under any of the
// profile's prefixes. Membership is pure OR across prefixes: a path is
// allowed when it equals a prefix or sits strictly below it.
func (p Profile) Allows(path string) bool {
	for _, prefix := range p.Prefixes {
		if Matches(path, prefix) {
			return true
		}
	}
	return false
}

// Matches reports whether a normalized path (no leading slash) is the given
// prefix exactly or starts with prefix + "/". No wildcards, no regex:
// "guru" matches "guru" and "guru/absensi" but not "gurukecil".
func Matches(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Normalize strips the leading slash from a request path for matching.
func Normalize(path string) string {
	return strings.TrimPrefix(path, "/")
}

// Table is the immutable role permission table. It is built once at process
// start from configuration and injected into the gateway; concurrent reads
// need no locking.
type Table struct {
	profiles map[Role]Profile
}

// NewTable builds the permission table from configuration. Every entry must
// name a known role and every known role must have an entry: a partial table
// would silently turn missing roles into authorization failures at request
// time, so it is rejected at startup instead.
func NewTable(roles map[string]config.RoleConfig) (*Table, error) {
	profiles := make(map[Role]Profile, len(roles))
	for name, rc := range roles {
		role, ok := ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("unknown role %q in roles table", name)
		}
		prefixes := make([]string, 0, len(rc.Prefixes))
		for _, prefix := range rc.Prefixes {
			prefixes = append(prefixes, Normalize(prefix))
		}
		profiles[role] = Profile{
			Level:    rc.Level,
			Prefixes: prefixes,
			Landing:  rc.Landing,
		}
	}

	for _, role := range Roles() {
		if _, ok := profiles[role]; !ok {
			return nil, fmt.Errorf("roles table missing entry for %q", role)
		}
	}

	return &Table{profiles: profiles}, nil
}

// Lookup resolves a credential role identifier to its Role and Profile.
// A miss is a hard authorization failure for the caller, never a default.
func (t *Table) Lookup(name string) (Role, Profile, bool) {
	role, ok := ParseRole(name)
	if !ok {
		return RoleUnknown, Profile{}, false
	}
	profile, ok := t.profiles[role]
	if !ok {
		return RoleUnknown, Profile{}, false
	}
	return role, profile, true
}

// Profile returns the profile for a known role.
func (t *Table) Profile(role Role) (Profile, bool) {
	profile, ok := t.profiles[role]
	return profile, ok
}
