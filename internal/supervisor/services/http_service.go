// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package services holds the suture services the supervision tree runs.
package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alkhairaat/gerbang/internal/logging"
)

// HTTPServerService runs the gateway's HTTP listener as a supervised
// service. A listener error restarts the service through the supervisor;
// context cancellation shuts it down gracefully.
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPServerService wraps an http.Server for supervision.
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration) *HTTPServerService {
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logging.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("HTTP server shutdown failed")
			return err
		}
		logging.Info().Msg("HTTP server stopped")
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("HTTP server failed")
		}
		return err
	}
}

// String names the service in supervisor logs.
func (s *HTTPServerService) String() string {
	return "http-server"
}
