// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

// Package server provides the optional local HTTP facade started by
// `fingertips serve`. It exposes the client's retrieval operations as JSON
// and CSV endpoints so non-Go tooling (notebooks, dashboards, shell scripts)
// can query Fingertips through one process with shared rate limiting and
// circuit breaking.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fingertips "github.com/tomtom215/fingertipsgo"
	"github.com/tomtom215/fingertipsgo/internal/config"
	"github.com/tomtom215/fingertipsgo/internal/logging"
)

// shutdownTimeout bounds graceful shutdown on Run cancellation.
const shutdownTimeout = 10 * time.Second

// Server wraps a fingertips.Client behind an HTTP facade.
type Server struct {
	client *fingertips.Client
	cfg    config.ServerConfig
}

// New creates a Server around the given client.
func New(client *fingertips.Client, cfg config.ServerConfig) *Server {
	return &Server{client: client, cfg: cfg}
}

// Handler builds the chi router for the facade.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(correlationID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/healthz/live", s.handleLive)
	r.Get("/healthz/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimitRequests, s.cfg.RateLimitWindow))
		}
		r.Use(securityHeaders())

		r.Get("/area_types", s.handleAreaTypes)
		r.Get("/areas", s.handleAreas)
		r.Get("/profiles", s.handleProfiles)
		r.Get("/domains", s.handleDomains)
		r.Get("/indicators", s.handleIndicators)
		r.Get("/data", s.handleData)
		r.Get("/deprivation", s.handleDeprivation)
	})

	return r
}

// Run serves the facade until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.cfg.Addr).Msg("HTTP facade listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// correlationID attaches a fresh correlation ID to each request context and
// echoes it back to the caller.
func correlationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.ContextWithNewCorrelationID(r.Context())
			w.Header().Set("X-Correlation-ID", logging.CorrelationIDFromContext(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// securityHeaders adds response headers appropriate for a JSON API.
func securityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}
