// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package supervisor runs the gateway's long-lived services under a suture
// supervision tree. A crashed service is restarted with backoff instead of
// taking the process down.
package supervisor

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/alkhairaat/gerbang/internal/logging"
)

// TreeConfig tunes restart behavior for the root supervisor.
type TreeConfig struct {
	FailureThreshold float64
	FailureBackoff   time.Duration
	ServiceTimeout   time.Duration
}

// DefaultTreeConfig returns production restart settings.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ServiceTimeout:   10 * time.Second,
	}
}

// Tree is the root supervisor.
type Tree struct {
	root *suture.Supervisor
}

// NewTree builds the root supervisor with suture events routed into zerolog
// through the slog bridge.
func NewTree(cfg TreeConfig) *Tree {
	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook()
	root := suture.New("gerbang", suture.Spec{
		EventHook:        hook,
		FailureThreshold: cfg.FailureThreshold,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ServiceTimeout,
	})
	return &Tree{root: root}
}

// Add registers a service with the root supervisor.
func (t *Tree) Add(svc suture.Service) {
	t.root.Add(svc)
}

// Serve runs the tree until ctx is cancelled, then shuts all services down.
func (t *Tree) Serve(ctx context.Context) error {
	logging.Info().Msg("Supervision tree starting")
	err := t.root.Serve(ctx)
	if err != nil && err != context.Canceled {
		return err
	}
	logging.Info().Msg("Supervision tree stopped")
	return nil
}
