// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alkhairaat/gerbang/internal/config"
)

func testUpstreamConfig(url string) config.UpstreamConfig {
	return config.UpstreamConfig{
		URL:                 url,
		Timeout:             5 * time.Second,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.6,
		BreakerTimeout:      time.Minute,
	}
}

func TestNewRejectsInvalidURL(t *testing.T) {
	if _, err := New(testUpstreamConfig("://not-a-url")); err == nil {
		t.Fatal("expected error for invalid upstream URL")
	}
}

func TestForwardsRequests(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backend", "ok")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	up, err := New(testUpstreamConfig(backend.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guru/absensi", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Backend") != "ok" {
		t.Error("backend response headers not forwarded")
	}
	if !up.Healthy() {
		t.Error("breaker should be healthy after success")
	}
}

func TestServerErrorsReachClient(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	up, err := New(testUpstreamConfig(backend.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/santri/jadwal", nil))

	// A 5xx counts against the breaker but the response is the upstream's.
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer backend.Close()

	up, err := New(testUpstreamConfig(backend.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guru", nil))
	}

	if up.Healthy() {
		t.Fatal("breaker should be open after consecutive failures")
	}

	rec := httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guru", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status with open breaker = %d, want 503", rec.Code)
	}
}

func TestUnreachableUpstreamReturnsBadGateway(t *testing.T) {
	// Connection refused immediately, no listener on port 1.
	up, err := New(testUpstreamConfig("http://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guru", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
