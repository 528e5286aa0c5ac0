package httpdelivery

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/jwt"
	"github.com/mutugading/marketplace-backend/pkg/logger"
)

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// Blacklist reports revoked token ids.
type Blacklist interface {
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// ActorResolver loads the actor behind a token subject.
type ActorResolver interface {
	Resolve(ctx context.Context, userID string) (*actor.Actor, error)
}

// session is the authenticated state of a request.
type session struct {
	actor     *actor.Actor
	tokenID   string
	expiresAt time.Time
}

// Authenticator turns a bearer token into a resolved actor.
type Authenticator struct {
	tokens    TokenValidator
	blacklist Blacklist
	resolver  ActorResolver
}

// NewAuthenticator creates a new Authenticator. blacklist may be nil.
func NewAuthenticator(tokens TokenValidator, blacklist Blacklist, resolver ActorResolver) *Authenticator {
	return &Authenticator{tokens: tokens, blacklist: blacklist, resolver: resolver}
}

func (a *Authenticator) authenticate(r *http.Request) (*session, error) {
	ctx := r.Context()

	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	// Validate access token
	claims, err := a.tokens.ValidateAccessToken(token)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed: invalid token")
		return nil, shared.Unauthenticated("invalid or expired token")
	}

	// Check token blacklist
	if a.blacklist != nil && claims.ID != "" {
		blacklisted, blErr := a.blacklist.IsBlacklisted(ctx, claims.ID)
		if blErr != nil {
			logger.FromContext(ctx).Warn().Err(blErr).Msg("Failed to check token blacklist")
		}
		if blacklisted {
			return nil, shared.Unauthenticated("token has been revoked")
		}
	}

	// Roles are re-read from the identity store, never taken from the token
	act, err := a.resolver.Resolve(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	s := &session{actor: act, tokenID: claims.ID}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// bearerToken extracts the Bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", shared.Unauthenticated("missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", shared.Unauthenticated("invalid authorization format")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", shared.Unauthenticated("empty token")
	}
	return token, nil
}
