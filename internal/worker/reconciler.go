// Package worker runs background jobs next to the API servers.
package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	providerapp "github.com/mutugading/marketplace-backend/internal/application/provider"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/tracing"
)

var (
	reconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "role_grant_reconcile_runs_total",
			Help: "Total number of role grant reconciliation passes by outcome",
		},
		[]string{"outcome"},
	)

	reconcileGrantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "role_grant_reconcile_grants_total",
			Help: "Total number of role grants processed by the reconciler",
		},
		[]string{"result"},
	)
)

// GrantReconciler applies pending role grants in batches.
type GrantReconciler interface {
	Handle(ctx context.Context, batchSize int) (*providerapp.ReconcileResult, error)
}

// Reconciler periodically converges provider roles with verified providers.
type Reconciler struct {
	handler   GrantReconciler
	interval  time.Duration
	batchSize int
}

// NewReconciler creates a new Reconciler.
func NewReconciler(handler GrantReconciler, interval time.Duration, batchSize int) *Reconciler {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Reconciler{handler: handler, interval: interval, batchSize: batchSize}
}

// Start runs a pass immediately and then on every tick until ctx is done.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Int("batch_size", r.batchSize).Msg("Role grant reconciler started")

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Role grant reconciler stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reconciliation pass and reports its outcome.
func (r *Reconciler) RunOnce(ctx context.Context) *providerapp.ReconcileResult {
	ctx, span := tracing.StartSpan(ctx, "worker.ReconcileRoleGrants")
	defer span.End()

	result, err := r.handler.Handle(ctx, r.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return result
		}
		tracing.SetError(ctx, err)
		reconcileRunsTotal.WithLabelValues("failure").Inc()
		log.Error().Err(err).Msg("Role grant reconciliation failed")
		return result
	}

	reconcileRunsTotal.WithLabelValues("success").Inc()
	reconcileGrantsTotal.WithLabelValues("completed").Add(float64(result.Completed))
	reconcileGrantsTotal.WithLabelValues("failed").Add(float64(result.Failed))
	reconcileGrantsTotal.WithLabelValues("abandoned").Add(float64(result.Abandoned))
	span.SetAttributes(
		attribute.Int("grants.processed", result.Processed),
		attribute.Int("grants.completed", result.Completed),
		attribute.Int("grants.failed", result.Failed),
		attribute.Int("grants.abandoned", result.Abandoned),
	)

	if result.Processed == 0 {
		log.Debug().Msg("No pending role grants")
		return result
	}
	log.Info().
		Int("processed", result.Processed).
		Int("completed", result.Completed).
		Int("failed", result.Failed).
		Int("abandoned", result.Abandoned).
		Msg("Role grant reconciliation finished")
	return result
}
