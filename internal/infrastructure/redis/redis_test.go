package redis_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/redis"
)

type MockSummaryReader struct {
	mock.Mock
}

func (m *MockSummaryReader) ListSummaries(ctx context.Context, ids []uuid.UUID) ([]*provider.Summary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Summary), args.Error(1)
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test (set INTEGRATION_TEST=true)")
	}

	port, err := strconv.Atoi(envOrDefault("TEST_REDIS_PORT", "6380"))
	require.NoError(t, err)

	client, err := redis.NewClient(&config.RedisConfig{
		Host: envOrDefault("TEST_REDIS_HOST", "localhost"),
		Port: port,
		DB:   15,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func TestSummaryCache(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	id := uuid.New()
	summary := &provider.Summary{ProviderID: id, DisplayName: "Carla Souza", ServiceName: "Faxina"}
	reader := new(MockSummaryReader)
	reader.On("ListSummaries", ctx, []uuid.UUID{id}).Return([]*provider.Summary{summary}, nil).Twice()

	cache := redis.NewSummaryCache(client, reader, time.Minute)
	t.Cleanup(func() { _ = cache.Invalidate(ctx, id) })

	t.Run("miss loads from reader", func(t *testing.T) {
		got, err := cache.ListSummaries(ctx, []uuid.UUID{id})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Faxina", got[0].ServiceName)
	})

	t.Run("hit skips reader", func(t *testing.T) {
		got, err := cache.ListSummaries(ctx, []uuid.UUID{id})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Carla Souza", got[0].DisplayName)
	})

	t.Run("invalidate forces reload", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx, id))
		_, err := cache.ListSummaries(ctx, []uuid.UUID{id})
		require.NoError(t, err)
	})

	reader.AssertExpectations(t)
}

func TestTokenBlacklist(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	blacklist := redis.NewTokenBlacklist(client)
	tokenID := uuid.NewString()

	revoked, err := blacklist.IsBlacklisted(ctx, tokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, tokenID, time.Now().Add(time.Minute)))

	revoked, err = blacklist.IsBlacklisted(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	t.Run("expired tokens are not stored", func(t *testing.T) {
		other := uuid.NewString()
		require.NoError(t, blacklist.Revoke(ctx, other, time.Now().Add(-time.Minute)))
		revoked, err := blacklist.IsBlacklisted(ctx, other)
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
