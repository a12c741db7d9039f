// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanderlight/wanderlight/internal/logging"
	"github.com/wanderlight/wanderlight/internal/metrics"
)

// RouterConfig controls cross-cutting HTTP behavior.
type RouterConfig struct {
	CORSOrigins []string

	// RateLimit is requests per client IP per minute. Zero disables.
	RateLimit int
}

// NewRouter assembles the chi router with middleware and all routes.
func NewRouter(cfg RouterConfig, handler *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogging())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}
	r.Use(requestMetrics)

	r.Get("/api/v1/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Post("/interactions", handler.Interaction)
		r.Get("/recommendations", handler.Recommendations)
		r.Get("/profile", handler.Profile)
		r.Get("/insights", handler.Insights)
	})

	return r
}

// requestLogging attaches a request ID to the context and logs each
// request at debug level.
func requestLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := logging.GenerateRequestID()
			ctx := logging.ContextWithRequestID(r.Context(), requestID)

			logger := logging.With().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			ctx = logging.ContextWithLogger(ctx, logger)

			logger.Debug().Msg("Request started")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestMetrics records request latency by route pattern and status.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start))
	})
}
