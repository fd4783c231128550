// Package middleware provides HTTP middleware for the fishing log API server.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRequestLogger returns a middleware that logs each request as a structured
// JSON line via the provided zerolog logger. It captures method, path, HTTP
// status, duration, and the request ID set by chi's RequestID middleware, and
// attaches the logger to the request context so handlers can log with the same
// fields.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewRequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLog := log.With().
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Logger()
			r = r.WithContext(reqLog.WithContext(r.Context()))

			// WrapResponseWriter intercepts WriteHeader so the status code can
			// be read after the downstream handler has run.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			reqLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("request")
		})
	}
}
