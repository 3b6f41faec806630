package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"umrahportal/internal/service"
)

// Reconciler polls the gateway for pending payments.
type Reconciler interface {
	ReconcilePending(ctx context.Context, limit int) (*service.ReconcileResult, error)
}

// PaymentReconciler runs reconciliation passes, once or on an interval.
type PaymentReconciler struct {
	payments Reconciler
	batch    int
}

// NewPaymentReconciler constructs a PaymentReconciler handling up to batch payments per pass.
func NewPaymentReconciler(payments Reconciler, batch int) *PaymentReconciler {
	if batch <= 0 {
		batch = 100
	}
	return &PaymentReconciler{payments: payments, batch: batch}
}

// RunOnce performs a single pass.
func (r *PaymentReconciler) RunOnce(ctx context.Context) (*service.ReconcileResult, error) {
	res, err := r.payments.ReconcilePending(ctx, r.batch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "reconciler").Msg("reconcile pass failed")
		return res, err
	}
	log.Ctx(ctx).Info().
		Str("component", "reconciler").
		Int("checked", res.Checked).
		Int("updated", res.Updated).
		Int("failed", res.Failed).
		Msg("reconcile pass completed")
	return res, nil
}

// Run performs a pass every interval until ctx is done. Failed passes are
// logged and retried on the next tick.
func (r *PaymentReconciler) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		_, _ = r.RunOnce(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
