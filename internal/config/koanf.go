// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in priority order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"gerbang.yaml",
	"gerbang.yml",
	"/etc/gerbang/config.yaml",
	"/etc/gerbang/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Role names recognized by the platform. Referenced here because the default
// role table is configuration; the authz package owns their semantics.
const (
	RoleNameSuperAdmin = "super_admin"
	RoleNameAdmin      = "admin"
	RoleNameGuru       = "guru"
	RoleNameSantri     = "santri"
	RoleNameOrtu       = "ortu"
	RoleNameYayasan    = "yayasan"
)

// Default returns a Config with the platform's stock values. These are
// applied first, then overridden by the config file and environment variables.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8410,
			Timeout: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			URL:                 "http://127.0.0.1:3000",
			Timeout:             30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			BreakerTimeout:      2 * time.Minute,
		},
		Security: SecurityConfig{
			CookieName:   "token",
			CookiePath:   "/",
			CookieSecure: true,
			PublicPaths: []string{
				"/login",
				"/logout",
				"/unauthorized",
				"/forgot-passcode",
			},
			APIPrefix:         "/api",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
			TrustedProxies:    []string{},
		},
		Roles: map[string]RoleConfig{
			RoleNameSuperAdmin: {Level: 6, Prefixes: []string{"super-admin"}, Landing: "/super-admin/dashboard"},
			RoleNameAdmin:      {Level: 5, Prefixes: []string{"admin"}, Landing: "/admin/dashboard"},
			RoleNameGuru:       {Level: 4, Prefixes: []string{"guru"}, Landing: "/guru/dashboard"},
			RoleNameSantri:     {Level: 3, Prefixes: []string{"santri"}, Landing: "/santri/dashboard"},
			RoleNameOrtu:       {Level: 2, Prefixes: []string{"ortu"}, Landing: "/ortu/dashboard"},
			RoleNameYayasan:    {Level: 1, Prefixes: []string{"yayasan"}, Landing: "/yayasan/dashboard"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are the config paths whose env values arrive as
// comma-separated strings but unmarshal into slices.
var sliceConfigPaths = []string{
	"security.public_paths",
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields splits comma-separated env values for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unknown variables return "" and are skipped, so stray environment noise
// never pollutes the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		// Upstream mappings
		"upstream_url":          "upstream.url",
		"upstream_timeout":      "upstream.timeout",
		"breaker_min_requests":  "upstream.breaker_min_requests",
		"breaker_failure_ratio": "upstream.breaker_failure_ratio",
		"breaker_timeout":       "upstream.breaker_timeout",

		// Security mappings
		"session_cookie_name": "security.cookie_name",
		"session_cookie_path": "security.cookie_path",
		"cookie_secure":       "security.cookie_secure",
		"public_paths":        "security.public_paths",
		"api_prefix":          "security.api_prefix",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
