// Package schedule provides application layer handlers for provider availability.
package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
)

// CreateCommand represents the create schedule command.
type CreateCommand struct {
	ProviderID string `json:"provider_id" validate:"required,uuid"`
	DayOfWeek  int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime  string `json:"start_time" validate:"required,hhmm"`
	EndTime    string `json:"end_time" validate:"required,hhmm,timeafter=StartTime"`
}

// CreateHandler handles the CreateSchedule command.
type CreateHandler struct {
	repo      schedule.Repository
	providers provider.Repository
	validator *validation.Validator
}

// NewCreateHandler creates a new CreateHandler.
func NewCreateHandler(repo schedule.Repository, providers provider.Repository, validator *validation.Validator) *CreateHandler {
	return &CreateHandler{repo: repo, providers: providers, validator: validator}
}

// Handle executes the create schedule command.
func (h *CreateHandler) Handle(ctx context.Context, act *actor.Actor, cmd CreateCommand) (*schedule.Schedule, error) {
	// 1. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return nil, err
	}

	// 2. Resolve actor
	if err := actor.Require(act); err != nil {
		return nil, err
	}

	// 3. Load provider
	providerID, err := uuid.Parse(cmd.ProviderID)
	if err != nil {
		return nil, provider.ErrNotFound
	}
	p, err := h.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	// 4. Build the row, available by default
	entity, err := schedule.NewSchedule(p.ID(), schedule.DayOfWeek(cmd.DayOfWeek), cmd.StartTime, cmd.EndTime)
	if err != nil {
		return nil, err
	}

	// 5. Persist
	if err := h.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}
