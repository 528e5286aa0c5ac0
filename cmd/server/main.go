// Package main is the entry point for the marketplace service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	evaluationapp "github.com/mutugading/marketplace-backend/internal/application/evaluation"
	favoriteapp "github.com/mutugading/marketplace-backend/internal/application/favorite"
	identityapp "github.com/mutugading/marketplace-backend/internal/application/identity"
	providerapp "github.com/mutugading/marketplace-backend/internal/application/provider"
	scheduleapp "github.com/mutugading/marketplace-backend/internal/application/schedule"
	"github.com/mutugading/marketplace-backend/internal/application/validation"
	grpcdelivery "github.com/mutugading/marketplace-backend/internal/delivery/grpc"
	"github.com/mutugading/marketplace-backend/internal/delivery/httpdelivery"
	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/event"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/cpf"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/events"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/jwt"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/memory"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/password"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/postgres"
	redisinfra "github.com/mutugading/marketplace-backend/internal/infrastructure/redis"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/storage"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/tracing"
	"github.com/mutugading/marketplace-backend/internal/worker"
	"github.com/mutugading/marketplace-backend/pkg/logger"
)

const healthRefreshInterval = 15 * time.Second

// providerStore is everything the application needs from provider persistence.
type providerStore interface {
	provider.Repository
	provider.GrantRepository
	provider.SummaryReader
}

// stores holds the repositories of the selected database driver.
type stores struct {
	identity    user.Identity
	providers   providerStore
	schedules   schedule.Repository
	favorites   favorite.Repository
	evaluations evaluation.Repository
	checks      map[string]grpcdelivery.HealthCheck
	close       func()
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Service failed")
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Setup(cfg.Logger.Level, cfg.Logger.Format, cfg.App.Name)

	log.Info().
		Str("service", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Env).
		Str("database_driver", cfg.Database.Driver).
		Msg("Starting marketplace service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup tracing (optional)
	cleanupTracing := setupTracing(ctx, cfg)
	defer cleanupTracing()

	// Setup persistence
	hasher := password.NewHasher(password.DefaultParams())
	st, err := setupStores(ctx, cfg, hasher)
	if err != nil {
		return err
	}
	defer st.close()

	// Setup Redis (optional - graceful degradation)
	var (
		summaries provider.SummaryReader  = st.providers
		cache     providerapp.SummaryCache
		blacklist httpdelivery.Blacklist
		revoker   identityapp.TokenRevoker
	)
	memoryBlacklist := memory.NewTokenBlacklist()
	blacklist, revoker = memoryBlacklist, memoryBlacklist
	if redisClient := setupRedis(cfg); redisClient != nil {
		defer closeRedis(redisClient)

		summaryCache := redisinfra.NewSummaryCache(redisClient, st.providers, cfg.Redis.SummaryTTL)
		summaries, cache = summaryCache, summaryCache

		redisBlacklist := redisinfra.NewTokenBlacklist(redisClient)
		blacklist, revoker = redisBlacklist, redisBlacklist

		st.checks["redis"] = redisClient.Ping
	}

	// Setup object storage and event publishing (optional)
	documents := setupStorage(ctx, cfg)
	publisher, closePublisher := setupPublisher(cfg)
	defer closePublisher()

	// Setup infrastructure services
	jwtService := jwt.NewService(&cfg.JWT)
	validator, err := validation.New(cpf.NewChecker(), cfg.Validation.DefaultLocale)
	if err != nil {
		return fmt.Errorf("failed to create validator: %w", err)
	}
	policy := password.DefaultPolicy()

	if err := seedAdmin(ctx, cfg, st.identity, validator, policy); err != nil {
		return err
	}

	// Setup application handlers
	roleSync := providerapp.NewRoleSync(st.identity, st.identity, st.providers, publisher)
	roleSync.SetMaxAttempts(cfg.Worker.MaxAttempts)
	handlers := httpdelivery.Handlers{
		Register: identityapp.NewRegisterHandler(st.identity, validator, policy),
		Login:    identityapp.NewLoginHandler(st.identity, jwtService, validator),
		Logout:   identityapp.NewLogoutHandler(revoker),

		CreateProvider:     providerapp.NewCreateHandler(st.providers, validator),
		GetProvider:        providerapp.NewGetHandler(st.providers),
		UpdateProvider:     providerapp.NewUpdateHandler(st.providers, validator, cache),
		DeactivateProvider: providerapp.NewDeactivateHandler(st.providers, publisher),
		UploadDocument:     providerapp.NewUploadDocumentHandler(st.providers, documents, validator),
		VerifyProvider:     providerapp.NewVerifyHandler(st.providers, roleSync, validator),
		ListPending:        providerapp.NewListPendingHandler(st.providers),

		CreateSchedule: scheduleapp.NewCreateHandler(st.schedules, st.providers, validator),
		ListSchedules:  scheduleapp.NewListHandler(st.schedules, st.providers),

		CreateFavorite: favoriteapp.NewCreateHandler(st.favorites, st.providers, validator),
		RemoveFavorite: favoriteapp.NewRemoveHandler(st.favorites, st.providers),
		ListFavorites:  favoriteapp.NewListHandler(st.favorites, summaries),

		CreateEvaluation:  evaluationapp.NewCreateHandler(st.evaluations, st.providers, validator, publisher),
		ListEvaluations:   evaluationapp.NewListHandler(st.evaluations, st.providers),
		ExportEvaluations: evaluationapp.NewExportHandler(st.evaluations, st.providers),
	}

	auth := httpdelivery.NewAuthenticator(jwtService, blacklist, identityapp.NewActorResolver(st.identity))
	api := httpdelivery.NewAPI(handlers, auth, cfg.JWT.AccessTokenTTL)

	// Start role grant reconciler
	if cfg.Worker.Enabled {
		reconciler := worker.NewReconciler(
			providerapp.NewReconcileHandler(st.providers, roleSync),
			cfg.Worker.ReconcileInterval,
			cfg.Worker.BatchSize,
		)
		go reconciler.Start(ctx)
	}

	// Start gRPC server (health and reflection)
	grpcServer := grpcdelivery.NewServer(&cfg.Server, st.checks)
	go func() {
		if err := grpcServer.Start(); err != nil {
			log.Error().Err(err).Msg("gRPC server failed")
		}
	}()
	go refreshHealth(ctx, grpcServer)

	// Start HTTP server (JSON API, health, metrics, CORS)
	httpServer := httpdelivery.NewServer(&cfg.Server, api,
		httpdelivery.WithCORS(cfg.CORS.AllowedOrigins, 0),
		httpdelivery.WithHealthChecks(st.checks),
		httpdelivery.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize),
	)
	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down servers...")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Stop HTTP server
	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop gRPC server
	grpcServer.Stop()

	log.Info().Msg("Server shutdown complete")
	return nil
}

// setupTracing initializes tracing and returns a cleanup function.
func setupTracing(ctx context.Context, cfg *config.Config) func() {
	tracingProvider, err := tracing.NewProvider(ctx, &cfg.Tracing, &cfg.App)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to setup tracing, continuing without it")
		return func() {}
	}

	return func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tracingProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to shutdown tracing provider")
		}
	}
}

// setupStores opens the configured database driver and builds its repositories.
func setupStores(ctx context.Context, cfg *config.Config, hasher *password.Hasher) (*stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &stores{
			identity:    store.Identity(hasher),
			providers:   store.Providers(),
			schedules:   store.Schedules(),
			favorites:   store.Favorites(),
			evaluations: store.Evaluations(),
			checks:      map[string]grpcdelivery.HealthCheck{},
			close:       func() {},
		}, nil
	}

	db, err := setupDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	identity := postgres.NewIdentityRepository(db, hasher)
	if err := identity.EnsureRoles(ctx, user.RoleAdmin, user.RoleCustomer, user.RoleProvider); err != nil {
		closeDatabase(db)
		return nil, err
	}

	return &stores{
		identity:    identity,
		providers:   postgres.NewProviderRepository(db),
		schedules:   postgres.NewScheduleRepository(db),
		favorites:   postgres.NewFavoriteRepository(db),
		evaluations: postgres.NewEvaluationRepository(db),
		checks:      map[string]grpcdelivery.HealthCheck{"database": db.Health},
		close:       func() { closeDatabase(db) },
	}, nil
}

// setupDatabase creates a database connection and applies pending migrations.
func setupDatabase(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Msg("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			closeDatabase(db)
			return nil, err
		}
	}

	return db, nil
}

// closeDatabase closes the database connection.
func closeDatabase(db *postgres.DB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database connection")
	}
}

// setupRedis creates a Redis connection (optional - graceful degradation).
func setupRedis(cfg *config.Config) *redisinfra.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	redisClient, err := redisinfra.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without cache")
		return nil
	}

	log.Info().
		Str("host", cfg.Redis.Host).
		Int("port", cfg.Redis.Port).
		Msg("Redis connection established")

	return redisClient
}

// closeRedis closes the Redis connection.
func closeRedis(client *redisinfra.Client) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis connection")
	}
}

// setupStorage connects to MinIO, falling back to rejecting uploads.
func setupStorage(ctx context.Context, cfg *config.Config) providerapp.DocumentStorage {
	if !cfg.Storage.Enabled {
		log.Info().Msg("Document storage disabled")
		return storage.Disabled{}
	}

	svc, err := storage.NewMinIOService(ctx, &cfg.Storage)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to MinIO, document uploads disabled")
		return storage.Disabled{}
	}

	log.Info().
		Str("endpoint", cfg.Storage.Endpoint).
		Str("bucket", cfg.Storage.Bucket).
		Msg("MinIO storage initialized")

	return svc
}

// setupPublisher connects to RabbitMQ and returns the publisher with its cleanup.
func setupPublisher(cfg *config.Config) (event.Publisher, func()) {
	if !cfg.Events.Enabled {
		return event.NopPublisher{}, func() {}
	}

	publisher, err := events.NewPublisher(&cfg.Events)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to RabbitMQ, events will be dropped")
		return event.NopPublisher{}, func() {}
	}

	log.Info().Str("exchange", cfg.Events.Exchange).Msg("Event publisher connected")

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event publisher")
		}
	}
}

// seedAdmin provisions the configured administrator, if any.
func seedAdmin(ctx context.Context, cfg *config.Config, identity user.Identity, validator *validation.Validator, policy identityapp.PasswordPolicy) error {
	if cfg.Admin.Username == "" {
		return nil
	}

	result, err := identityapp.NewSeedAdminHandler(identity, validator, policy).Handle(ctx, identityapp.SeedAdminCommand{
		Username: cfg.Admin.Username,
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	log.Info().
		Str("username", result.User.Username()).
		Bool("created", result.Created).
		Bool("role_granted", result.RoleGranted).
		Msg("Admin account ready")
	return nil
}

// refreshHealth keeps the gRPC health status in line with the dependency checks.
func refreshHealth(ctx context.Context, server *grpcdelivery.Server) {
	ticker := time.NewTicker(healthRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			server.RefreshHealth(ctx)
		}
	}
}
