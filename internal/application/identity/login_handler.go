package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// TokenIssuer issues access tokens for an authenticated user.
type TokenIssuer interface {
	IssueToken(u *user.User, roles []string) (string, error)
}

// LoginCommand represents the login command. Identifier is a username or an email.
type LoginCommand struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required,max=72"`
}

// LoginResult represents a successful login.
type LoginResult struct {
	AccessToken string
	User        *user.User
	Roles       []string
}

// LoginHandler handles the Login command.
type LoginHandler struct {
	identity  user.Identity
	issuer    TokenIssuer
	validator *validation.Validator
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(identity user.Identity, issuer TokenIssuer, validator *validation.Validator) *LoginHandler {
	return &LoginHandler{identity: identity, issuer: issuer, validator: validator}
}

// Handle authenticates the user and issues an access token. Unknown users and
// wrong secrets produce the same error.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	// 1. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return nil, err
	}

	// 2. Find user by name or email
	var (
		u   *user.User
		err error
	)
	identifier := strings.TrimSpace(cmd.Identifier)
	if strings.Contains(identifier, "@") {
		u, err = h.identity.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		u, err = h.identity.FindByName(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	// 3. Check credential
	ok, err := h.identity.CheckCredential(ctx, u, cmd.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, user.ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, user.ErrInactive
	}

	// 4. Issue token with current roles
	roles, err := h.identity.GetRoles(ctx, u)
	if err != nil {
		return nil, err
	}
	token, err := h.issuer.IssueToken(u, roles)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: token, User: u, Roles: roles}, nil
}
