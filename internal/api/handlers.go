// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/alkhairaat/gerbang/internal/logging"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Upstream  upstreamHealth `json:"upstream"`
}

type upstreamHealth struct {
	URL     string `json:"url"`
	Breaker string `json:"breaker"`
}

// handleHealth reports gateway liveness and the upstream breaker state. The
// endpoint answers 200 even with an open breaker: the gateway itself is up,
// and orchestrators must not restart it for an upstream outage.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !rt.upstream.Healthy() {
		status = "degraded"
	}

	resp := healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Upstream: upstreamHealth{
			URL:     rt.upstream.Target(),
			Breaker: rt.upstream.State(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode health response")
	}
}
