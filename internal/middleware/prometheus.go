// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alkhairaat/gerbang/internal/metrics"
)

// statusRecorder captures the response status for instrumentation. WriteHeader
// may never be called for implicit 200s, so the default is set up front.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer so http.ResponseController keeps
// working through the wrapper (the reverse proxy flushes via it).
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Prometheus records request counts, latency, and in-flight gauge for every
// request passing through the router.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := metrics.TrackInFlight()
		defer done()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		metrics.RecordHTTPRequest(r.Method, metricPath(r.URL.Path), strconv.Itoa(rec.status), time.Since(start))
	})
}

// metricPath collapses request paths to their first segment so the path
// label stays low-cardinality: /guru/absensi/12 becomes /guru.
func metricPath(path string) string {
	if len(path) <= 1 {
		return "/"
	}
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return path
}
