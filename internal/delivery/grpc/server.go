package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
)

// ServiceName is the health service name reported for the marketplace.
const ServiceName = "marketplace.v1.Marketplace"

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server represents the gRPC server. It exposes the standard health service,
// whose status follows the registered dependency checks.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	config     *config.ServerConfig
	checks     map[string]HealthCheck

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a new gRPC server with all interceptors.
func NewServer(cfg *config.ServerConfig, checks map[string]HealthCheck) *Server {
	unaryChain := grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(),                  // 1. Recover from panics first
		RequestIDInterceptor(),                 // 2. Add request ID
		TracingInterceptor(),                   // 3. Add tracing span
		MetricsInterceptor(),                   // 4. Record metrics
		LoggingInterceptor(),                   // 5. Log request
		ErrorInterceptor(),                     // 6. Map domain errors
		TimeoutInterceptor(cfg.RequestTimeout), // 7. Enforce timeout
	)

	grpcServer := grpc.NewServer(
		unaryChain,
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 15 * time.Minute,
			Time:              5 * time.Minute,
			Timeout:           1 * time.Minute,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             1 * time.Minute,
			PermitWithoutStream: true,
		}),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	s := &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		config:     cfg,
		checks:     checks,
	}
	s.RefreshHealth(context.Background())
	return s
}

// RefreshHealth runs every dependency check and publishes the aggregate status.
func (s *Server) RefreshHealth(ctx context.Context) bool {
	serving := true
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			serving = false
		}
	}

	st := grpc_health_v1.HealthCheckResponse_SERVING
	if !serving {
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
	return serving
}

// Start starts the gRPC server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.GRPCPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.Info().
		Str("address", listener.Addr().String()).
		Msg("gRPC server starting")

	return s.grpcServer.Serve(listener)
}

// Stop stops the gRPC server gracefully.
func (s *Server) Stop() {
	log.Info().Msg("gRPC server stopping...")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")
}
