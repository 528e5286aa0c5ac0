// Package httpdelivery provides the HTTP server for the marketplace JSON API,
// health checks and metrics.
package httpdelivery

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	grpcdelivery "github.com/mutugading/marketplace-backend/internal/delivery/grpc"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
)

// Server represents the HTTP server.
type Server struct {
	server         *http.Server
	config         *config.ServerConfig
	api            *API
	checks         map[string]grpcdelivery.HealthCheck
	limiter        *RateLimiter
	allowedOrigins []string
	corsMaxAge     int
}

// Option configures the HTTP server.
type Option func(*Server)

// WithCORS sets CORS allowed origins and max age.
func WithCORS(origins []string, maxAge int) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
		if maxAge > 0 {
			s.corsMaxAge = maxAge
		}
	}
}

// WithHealthChecks sets the dependency checks behind /readyz.
func WithHealthChecks(checks map[string]grpcdelivery.HealthCheck) Option {
	return func(s *Server) {
		s.checks = checks
	}
}

// WithRateLimit enables per-client rate limiting.
func WithRateLimit(requestsPerSecond, burst int) Option {
	return func(s *Server) {
		if requestsPerSecond > 0 {
			s.limiter = NewRateLimiter(requestsPerSecond, burst)
		}
	}
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.ServerConfig, api *API, opts ...Option) *Server {
	s := &Server{
		config:         cfg,
		api:            api,
		allowedOrigins: []string{"http://localhost:3000"},
		corsMaxAge:     300,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the complete HTTP handler: API routes, health checks, metrics and
// CORS around the middleware chain.
func (s *Server) Handler() (http.Handler, error) {
	gwMux := runtime.NewServeMux(
		runtime.WithRoutingErrorHandler(routingErrorHandler),
	)
	if err := s.api.Register(gwMux); err != nil {
		return nil, err
	}

	api := chain(gwMux,
		recoveryMiddleware,                         // 1. Recover from panics first
		requestIDMiddleware,                        // 2. Add request ID
		tracingMiddleware,                          // 3. Add tracing span
		loggingMiddleware,                          // 4. Log request
		rateLimitMiddleware(s.limiter),             // 5. Reject floods
		localeMiddleware,                           // 6. Pick message locale
		timeoutMiddleware(s.config.RequestTimeout), // 7. Enforce timeout
	)

	// Create main mux
	mux := http.NewServeMux()

	// API routes
	mux.Handle("/api/", api)

	// Health check endpoints
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/readyz", s.readyHandler)
	mux.HandleFunc("/livez", s.liveHandler)

	// Metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	return cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           s.corsMaxAge,
	}).Handler(mux), nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.HTTPPort))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.HTTPPort, err)
	}
	return s.Serve(listener)
}

// Serve serves HTTP on listener until Stop is called.
func (s *Server) Serve(listener net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().
		Int("port", s.config.HTTPPort).
		Msg("HTTP server starting")

	if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Health handlers.
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, `{"status":"healthy"}`)
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			writeStatus(w, http.StatusServiceUnavailable, fmt.Sprintf(`{"status":"not ready","dependency":%q}`, name))
			return
		}
	}
	writeStatus(w, http.StatusOK, `{"status":"ready"}`)
}

func (s *Server) liveHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, `{"status":"live"}`)
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Warn().Err(err).Msg("Failed to write health response")
	}
}
