// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Gerbang is the session and route-authorization gateway for the
// Al-Khairaat school platform. It sits in front of the school application,
// validates the session credential on every request, enforces the role
// permission table, and proxies authorized requests upstream with identity
// headers attached.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/alkhairaat/gerbang/internal/api"
	"github.com/alkhairaat/gerbang/internal/authz"
	"github.com/alkhairaat/gerbang/internal/config"
	"github.com/alkhairaat/gerbang/internal/gateway"
	"github.com/alkhairaat/gerbang/internal/logging"
	"github.com/alkhairaat/gerbang/internal/proxy"
	"github.com/alkhairaat/gerbang/internal/supervisor"
	"github.com/alkhairaat/gerbang/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Gateway failed to start")
	}
}

func run() error {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	table, err := authz.NewTable(cfg.Roles)
	if err != nil {
		return fmt.Errorf("build role table: %w", err)
	}

	upstream, err := proxy.New(cfg.Upstream)
	if err != nil {
		return fmt.Errorf("build upstream proxy: %w", err)
	}

	gwm := gateway.NewMiddleware(gateway.New(cfg, table), cfg.Security)
	router := api.NewRouter(cfg, gwm, upstream).Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig())
	tree.Add(services.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", server.Addr).
		Str("upstream", upstream.Target()).
		Msg("Gerbang starting")

	return tree.Serve(ctx)
}
