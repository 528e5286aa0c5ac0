// Package evaluation provides application layer handlers for evaluation operations.
package evaluation

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/event"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// CreateCommand represents the create evaluation command.
type CreateCommand struct {
	ProviderID string `json:"provider_id" validate:"required,uuid"`
	Note       int    `json:"note" validate:"min=1,max=5"`
	Comment    string `json:"comment" validate:"max=1000"`
}

// CreateHandler handles the CreateEvaluation command.
type CreateHandler struct {
	repo      evaluation.Repository
	providers provider.Repository
	validator *validation.Validator
	publisher event.Publisher
}

// NewCreateHandler creates a new CreateHandler.
func NewCreateHandler(
	repo evaluation.Repository,
	providers provider.Repository,
	validator *validation.Validator,
	publisher event.Publisher,
) *CreateHandler {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &CreateHandler{repo: repo, providers: providers, validator: validator, publisher: publisher}
}

// Handle executes the create evaluation command.
func (h *CreateHandler) Handle(ctx context.Context, act *actor.Actor, cmd CreateCommand) (*evaluation.Evaluation, error) {
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

	// 4. Owners cannot evaluate themselves
	if p.IsOwnedBy(act.ID) {
		return nil, evaluation.ErrSelfReference
	}

	// 5. One evaluation per pair
	exists, err := h.repo.ExistsByUserAndProvider(ctx, act.ID, p.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, evaluation.ErrAlreadyExists
	}

	// 6. Persist. A concurrent writer surfaces as ErrAlreadyExists from the store.
	entity, err := evaluation.NewEvaluation(act.ID, p.ID(), cmd.Note, cmd.Comment)
	if err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, evaluation.ErrAlreadyExists) {
			return nil, evaluation.ErrAlreadyExists
		}
		return nil, err
	}

	h.publish(ctx, entity)
	return entity, nil
}

func (h *CreateHandler) publish(ctx context.Context, e *evaluation.Evaluation) {
	evt := event.New(event.EvaluationCreated, e.ID(), map[string]string{
		"provider_id": e.ProviderID().String(),
		"user_id":     e.UserID().String(),
		"note":        strconv.Itoa(e.Note()),
	})
	if err := h.publisher.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("evaluation_id", e.ID().String()).Msg("Failed to publish evaluation event")
	}
}
