package identity

import (
	"context"
	"time"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
)

// TokenRevoker blacklists a token id until it would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// LogoutCommand represents the logout command.
type LogoutCommand struct {
	TokenID   string
	ExpiresAt time.Time
}

// LogoutHandler handles the Logout command.
type LogoutHandler struct {
	revoker TokenRevoker
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(revoker TokenRevoker) *LogoutHandler {
	return &LogoutHandler{revoker: revoker}
}

// Handle revokes the access token of the current request.
func (h *LogoutHandler) Handle(ctx context.Context, act *actor.Actor, cmd LogoutCommand) error {
	if err := actor.Require(act); err != nil {
		return err
	}
	if cmd.TokenID == "" || !cmd.ExpiresAt.After(time.Now()) {
		return nil
	}
	return h.revoker.Revoke(ctx, cmd.TokenID, cmd.ExpiresAt)
}
