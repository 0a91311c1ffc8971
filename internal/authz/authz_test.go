// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package authz

import (
	"testing"

	"github.com/alkhairaat/gerbang/internal/config"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name string
		want Role
		ok   bool
	}{
		{"super_admin", RoleSuperAdmin, true},
		{"admin", RoleAdmin, true},
		{"guru", RoleGuru, true},
		{"santri", RoleSantri, true},
		{"ortu", RoleOrtu, true},
		{"yayasan", RoleYayasan, true},
		{"", RoleUnknown, false},
		{"root", RoleUnknown, false},
		{"ADMIN", RoleUnknown, false},
		{"super-admin", RoleUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRole(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseRole(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRoleNamespace(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleSuperAdmin, "super-admin"},
		{RoleAdmin, "admin"},
		{RoleGuru, "guru"},
		{RoleSantri, "santri"},
		{RoleOrtu, "ortu"},
		{RoleYayasan, "yayasan"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.role.Namespace(); got != tt.want {
				t.Errorf("Namespace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		want   bool
	}{
		{"guru", "guru", true},
		{"guru/absensi", "guru", true},
		{"guru/nilai/rekap", "guru", true},
		{"gurukecil", "guru", false},
		{"guru2/absensi", "guru", false},
		{"admin", "guru", false},
		{"", "guru", false},
		{"super-admin/pengaturan", "super-admin", true},
		{"api/analytics", "api/analytics", true},
		{"api/analytics/harian", "api/analytics", true},
		{"api/analytics-export", "api/analytics", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+"~"+tt.prefix, func(t *testing.T) {
			if got := Matches(tt.path, tt.prefix); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestNewTableDefaults(t *testing.T) {
	cfg := config.Default()
	table, err := NewTable(cfg.Roles)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	for _, role := range Roles() {
		profile, ok := table.Profile(role)
		if !ok {
			t.Fatalf("missing profile for %v", role)
		}
		if profile.Landing == "" {
			t.Errorf("role %v has empty landing", role)
		}
		if !profile.Allows(role.Namespace()) {
			t.Errorf("role %v does not allow its own namespace %q", role, role.Namespace())
		}
	}
}

func TestNewTableRejectsUnknownRole(t *testing.T) {
	roles := config.Default().Roles
	roles["pengawas"] = config.RoleConfig{Level: 1, Prefixes: []string{"/pengawas"}, Landing: "/pengawas/dashboard"}

	if _, err := NewTable(roles); err == nil {
		t.Fatal("expected error for unknown role name")
	}
}

func TestNewTableRejectsMissingRole(t *testing.T) {
	roles := config.Default().Roles
	delete(roles, config.RoleNameYayasan)

	if _, err := NewTable(roles); err == nil {
		t.Fatal("expected error for missing role entry")
	}
}

func TestTableLookup(t *testing.T) {
	table, err := NewTable(config.Default().Roles)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	role, profile, ok := table.Lookup("santri")
	if !ok {
		t.Fatal("Lookup(santri) failed")
	}
	if role != RoleSantri {
		t.Errorf("role = %v, want RoleSantri", role)
	}
	if !profile.Allows("santri/jadwal") {
		t.Error("santri profile should allow santri/jadwal")
	}
	if profile.Allows("admin/dashboard") {
		t.Error("santri profile should not allow admin/dashboard")
	}

	if _, _, ok := table.Lookup("hacker"); ok {
		t.Error("Lookup(hacker) should fail")
	}
}
