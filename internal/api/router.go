// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package api assembles the HTTP surface: operational endpoints served by
// the gateway itself, and the catch-all route that runs every other request
// through session validation before proxying it upstream.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/alkhairaat/gerbang/internal/config"
	"github.com/alkhairaat/gerbang/internal/gateway"
	"github.com/alkhairaat/gerbang/internal/middleware"
	"github.com/alkhairaat/gerbang/internal/proxy"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires middleware, operational endpoints, and the upstream proxy.
type Router struct {
	cfg      *config.Config
	gw       *gateway.Middleware
	upstream *proxy.Upstream
}

// NewRouter builds the HTTP router.
func NewRouter(cfg *config.Config, gw *gateway.Middleware, upstream *proxy.Upstream) *Router {
	return &Router{cfg: cfg, gw: gw, upstream: upstream}
}

// Setup returns the configured chi router. Operational endpoints are
// registered outside the gateway group: /healthz and /metrics must answer
// even when sessions cannot be validated or the upstream is down.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)

	if len(rt.cfg.Security.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.Security.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", rt.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(g chi.Router) {
		if !rt.cfg.Security.RateLimitDisabled {
			g.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		}
		g.Use(rt.gw.Handler)
		g.Handle("/*", rt.upstream)
		g.Handle("/", rt.upstream)
	})

	return r
}
