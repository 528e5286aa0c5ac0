// Package provider provides application layer handlers for provider operations.
package provider

import (
	"context"
	"errors"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// ProfileInput holds the editable provider fields shared by register and update.
type ProfileInput struct {
	CPF         string   `json:"cpf" validate:"required,cpf"`
	RG          string   `json:"rg" validate:"required,max=20"`
	Address     string   `json:"address" validate:"required,max=255"`
	Phone       string   `json:"phone" validate:"required,max=20"`
	ServiceName string   `json:"service_name" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Categories  []string `json:"categories" validate:"required,min=1,max=10,dive,required,max=50"`
}

func (in ProfileInput) toProfile() provider.Profile {
	return provider.Profile{
		CPF:         in.CPF,
		RG:          in.RG,
		Address:     in.Address,
		Phone:       in.Phone,
		ServiceName: in.ServiceName,
		Description: in.Description,
		Categories:  in.Categories,
	}
}

// CreateCommand represents the register provider command.
type CreateCommand struct {
	ProfileInput
}

// CreateHandler handles the RegisterProvider command.
type CreateHandler struct {
	repo      provider.Repository
	validator *validation.Validator
}

// NewCreateHandler creates a new CreateHandler.
func NewCreateHandler(repo provider.Repository, validator *validation.Validator) *CreateHandler {
	return &CreateHandler{repo: repo, validator: validator}
}

// Handle registers a provider for the actor. It starts unverified and inactive.
func (h *CreateHandler) Handle(ctx context.Context, act *actor.Actor, cmd CreateCommand) (*provider.Provider, error) {
	// 1. Resolve actor
	if err := actor.Require(act); err != nil {
		return nil, err
	}

	// 2. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return nil, err
	}

	// 3. One provider per user
	exists, err := h.repo.ExistsByUserID(ctx, act.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, provider.ErrAlreadyExists
	}

	// 4. Create domain entity
	entity, err := provider.NewProvider(act.ID, cmd.toProfile())
	if err != nil {
		return nil, err
	}

	// 5. Persist
	if err := h.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, provider.ErrAlreadyExists) {
			return nil, provider.ErrAlreadyExists
		}
		return nil, err
	}

	return entity, nil
}
