package postgres_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/password"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/postgres"
)

func skipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test (set INTEGRATION_TEST=true)")
	}
}

func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	skipIfNoIntegration(t)

	cfg := &config.DatabaseConfig{
		Host:            envOrDefault("TEST_DB_HOST", "localhost"),
		Port:            intEnvOrDefault("TEST_DB_PORT", 5436),
		User:            envOrDefault("TEST_DB_USER", "marketplace"),
		Password:        envOrDefault("TEST_DB_PASSWORD", "marketplace123"),
		Name:            envOrDefault("TEST_DB_NAME", "marketplace_db_test"),
		SSLMode:         envOrDefault("TEST_DB_SSLMODE", "disable"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	require.NoError(t, db.Migrate(context.Background()))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newTestIdentity returns an identity repository with cheap hashing parameters.
func newTestIdentity(db *postgres.DB) *postgres.IdentityRepository {
	params := password.DefaultParams()
	params.Memory = 8 * 1024
	params.Iterations = 1
	return postgres.NewIdentityRepository(db, password.NewHasher(params))
}

// createTestUser stores a user and removes it with everything it owns at cleanup.
func createTestUser(t *testing.T, db *postgres.DB, identity *postgres.IdentityRepository, name string) *user.User {
	t.Helper()
	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	u, err := user.NewUser("it_"+suffix, name, "it_"+suffix+"@example.com", "")
	require.NoError(t, err)
	require.NoError(t, identity.CreateUser(context.Background(), u, "Secret123"))

	t.Cleanup(func() { cleanupUser(db, u) })
	return u
}

// cleanupUser hard-deletes a user and its dependent rows so tests leave no residue.
func cleanupUser(db *postgres.DB, u *user.User) {
	ctx := context.Background()
	id := u.ID()
	_, _ = db.ExecContext(ctx, "DELETE FROM evaluations WHERE user_id = $1 OR provider_id IN (SELECT provider_id FROM providers WHERE user_id = $1)", id)
	_, _ = db.ExecContext(ctx, "DELETE FROM favorites WHERE user_id = $1 OR provider_id IN (SELECT provider_id FROM providers WHERE user_id = $1)", id)
	_, _ = db.ExecContext(ctx, "DELETE FROM schedules WHERE provider_id IN (SELECT provider_id FROM providers WHERE user_id = $1)", id)
	_, _ = db.ExecContext(ctx, "DELETE FROM role_grants WHERE user_id = $1", id)
	_, _ = db.ExecContext(ctx, "DELETE FROM providers WHERE user_id = $1", id)
	_, _ = db.ExecContext(ctx, "DELETE FROM users WHERE user_id = $1", id)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func intEnvOrDefault(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}
