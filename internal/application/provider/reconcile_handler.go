package provider

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Processed int
	Completed int
	Failed    int
	Abandoned int
}

// ReconcileHandler handles the ReconcileRoleGrants command.
type ReconcileHandler struct {
	grants provider.GrantRepository
	sync   *RoleSync
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(grants provider.GrantRepository, sync *RoleSync) *ReconcileHandler {
	return &ReconcileHandler{grants: grants, sync: sync}
}

// Handle applies up to batchSize pending grants. Individual failures are
// counted, not returned; only listing the grants can fail the pass. Failed
// grants that ran out of attempts are also counted as abandoned.
func (h *ReconcileHandler) Handle(ctx context.Context, batchSize int) (*ReconcileResult, error) {
	pending, err := h.grants.ListPendingGrants(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	for _, g := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Processed++
		if err := h.sync.Apply(ctx, g); err != nil {
			result.Failed++
			if g.IsAbandoned() {
				result.Abandoned++
				continue
			}
			log.Warn().
				Err(err).
				Str("grant_id", g.ID().String()).
				Int("attempts", g.Attempts()).
				Msg("Role grant still pending")
			continue
		}
		result.Completed++
	}

	return result, nil
}
