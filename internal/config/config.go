// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package config defines the Gerbang configuration model and its layered
// loader. Configuration is data, not code: the six role profiles and the
// public path set live here so deployments can reshape them without a
// rebuild, while built-in defaults reproduce the platform's stock layout.
package config

import (
	"fmt"
	"time"

	"github.com/alkhairaat/gerbang/internal/validation"
)

// Config is the root configuration for the gateway process.
type Config struct {
	Server   ServerConfig          `koanf:"server"`
	Upstream UpstreamConfig        `koanf:"upstream"`
	Security SecurityConfig        `koanf:"security"`
	Roles    map[string]RoleConfig `koanf:"roles"` // YAML/file config only; no env mapping for nested maps
	Logging  LoggingConfig         `koanf:"logging"`
}

// ServerConfig holds the gateway's own listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// UpstreamConfig describes the school application the gateway fronts.
type UpstreamConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`

	// Circuit breaker thresholds for the upstream transport.
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"min=0,max=1"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds session and request-policy settings.
type SecurityConfig struct {
	// CookieName is the session credential cookie.
	CookieName   string `koanf:"cookie_name" validate:"required"`
	CookiePath   string `koanf:"cookie_path"`
	CookieSecure bool   `koanf:"cookie_secure"`

	// PublicPaths are reachable without a session. The APIPrefix subtree is
	// public as well, except the analytics family which stays admin-only.
	PublicPaths []string `koanf:"public_paths"`
	APIPrefix   string   `koanf:"api_prefix" validate:"required,startswith=/"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// RoleConfig is the externalized form of one role profile.
type RoleConfig struct {
	// Level is the role's position in the privilege hierarchy (higher = more
	// privileged). Current routing rules are prefix-based; the level is kept
	// for policy decisions that need a total order over roles.
	Level int `koanf:"level" validate:"min=1"`

	// Prefixes are the path namespaces (no leading slash) the role may enter.
	Prefixes []string `koanf:"prefixes"`

	// Landing is the dashboard path the role is redirected to from / and /login.
	Landing string `koanf:"landing" validate:"required,startswith=/"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for structural and semantic problems.
// Tag-level checks run through the shared validator; cross-field checks are
// explicit so error messages name the offending env var or YAML key.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if len(c.Roles) == 0 {
		return fmt.Errorf("roles table must not be empty")
	}
	for name, rc := range c.Roles {
		if err := validation.ValidateStruct(&rc); err != nil {
			return fmt.Errorf("role %q: %w", name, err)
		}
	}
	for _, p := range c.Security.PublicPaths {
		if len(p) == 0 || p[0] != '/' {
			return fmt.Errorf("public path %q must start with /", p)
		}
	}
	return nil
}
