// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package proxy forwards authorized requests to the upstream school
// application. The upstream link is wrapped in a circuit breaker so a
// failing application turns into fast 503s instead of a pile-up of
// hung connections.
package proxy

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/alkhairaat/gerbang/internal/config"
	"github.com/alkhairaat/gerbang/internal/logging"
	"github.com/alkhairaat/gerbang/internal/metrics"
)

// errUpstreamServerError marks a 5xx response inside the breaker so it
// counts as a failure. The response still goes back to the client.
var errUpstreamServerError = errors.New("upstream returned server error")

// Upstream is the reverse proxy to the school application.
type Upstream struct {
	proxy  *httputil.ReverseProxy
	cb     *gobreaker.CircuitBreaker[*http.Response]
	target *url.URL
}

// New builds the upstream proxy from configuration.
func New(cfg config.UpstreamConfig) (*Upstream, error) {
	target, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL %q: %w", cfg.URL, err)
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Upstream circuit breaker state changed")
			metrics.UpstreamBreakerTransitions.WithLabelValues(from.String(), to.String()).Inc()
			metrics.UpstreamBreakerState.Set(breakerStateValue(to))
		},
	})

	transport := &breakerTransport{
		base: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   32,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: cfg.Timeout,
		},
		cb: cb,
	}

	rp := httputil.NewSingleHostReverseProxy(target)
	rp.Transport = transport
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		status := http.StatusBadGateway
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = http.StatusServiceUnavailable
		}
		logging.Error().
			Err(err).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("Upstream request failed")
		http.Error(w, http.StatusText(status), status)
	}

	return &Upstream{proxy: rp, cb: cb, target: target}, nil
}

// ServeHTTP forwards the request upstream.
func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.proxy.ServeHTTP(w, r)
}

// Healthy reports whether the breaker is accepting requests.
func (u *Upstream) Healthy() bool {
	return u.cb.State() != gobreaker.StateOpen
}

// State returns the breaker state name for diagnostics.
func (u *Upstream) State() string {
	return u.cb.State().String()
}

// Target returns the upstream base URL.
func (u *Upstream) Target() string {
	return u.target.String()
}

// breakerTransport runs each round trip inside the circuit breaker. A 5xx
// response feeds the breaker as a failure but is still delivered, so only
// transport errors and an open breaker surface through ErrorHandler.
type breakerTransport struct {
	base http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.cb.Execute(func() (*http.Response, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errUpstreamServerError
		}
		return resp, nil
	})
	if errors.Is(err, errUpstreamServerError) {
		return resp, nil
	}
	return resp, err
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
