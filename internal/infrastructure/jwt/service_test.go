package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
)

func newTestService() *Service {
	return NewService(&config.JWTConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenTTL:    time.Hour,
		Issuer:            "marketplace",
	})
}

func newTestUser(t *testing.T) *user.User {
	t.Helper()
	u, err := user.NewUser("carla", "Carla Souza", "carla@example.com", "")
	require.NoError(t, err)
	return u
}

func TestService_IssueAndValidate(t *testing.T) {
	svc := newTestService()
	u := newTestUser(t)

	token, err := svc.IssueToken(u, []string{user.RoleCustomer})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID().String(), claims.Subject)
	assert.Equal(t, "carla", claims.Username)
	assert.Equal(t, []string{user.RoleCustomer}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
}

func TestService_ValidateAccessToken(t *testing.T) {
	u := newTestUser(t)

	t.Run("error - expired", func(t *testing.T) {
		svc := newTestService()
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := svc.IssueToken(u, nil)
		require.NoError(t, err)

		_, err = newTestService().ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("error - wrong secret", func(t *testing.T) {
		other := NewService(&config.JWTConfig{AccessTokenSecret: "other", AccessTokenTTL: time.Hour, Issuer: "marketplace"})
		token, err := other.IssueToken(u, nil)
		require.NoError(t, err)

		_, err = newTestService().ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("error - wrong issuer", func(t *testing.T) {
		other := NewService(&config.JWTConfig{AccessTokenSecret: "test-secret", AccessTokenTTL: time.Hour, Issuer: "someone-else"})
		token, err := other.IssueToken(u, nil)
		require.NoError(t, err)

		_, err = newTestService().ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("error - garbage", func(t *testing.T) {
		_, err := newTestService().ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
