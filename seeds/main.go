// Package main seeds the marketplace roles and the administrator account
// in PostgreSQL. Credentials come from ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	identityapp "github.com/mutugading/marketplace-backend/internal/application/identity"
	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/cpf"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/password"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/postgres"
	"github.com/mutugading/marketplace-backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Setup(cfg.Logger.Level, cfg.Logger.Format, cfg.App.Name+"-seed")

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("seeding requires the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}
	if cfg.Admin.Username == "" {
		return errors.New("ADMIN_USERNAME is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database connection")
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	identity := postgres.NewIdentityRepository(db, password.NewHasher(password.DefaultParams()))
	if err := identity.EnsureRoles(ctx, user.RoleAdmin, user.RoleCustomer, user.RoleProvider); err != nil {
		return err
	}

	validator, err := validation.New(cpf.NewChecker(), cfg.Validation.DefaultLocale)
	if err != nil {
		return err
	}

	result, err := identityapp.NewSeedAdminHandler(identity, validator, password.DefaultPolicy()).Handle(ctx, identityapp.SeedAdminCommand{
		Username: cfg.Admin.Username,
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("username", result.User.Username()).
		Bool("created", result.Created).
		Bool("role_granted", result.RoleGranted).
		Msg("Seed complete")
	return nil
}
