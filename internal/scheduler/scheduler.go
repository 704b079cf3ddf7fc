package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kamirim/pricewatch/internal/models"
	"github.com/kamirim/pricewatch/internal/services/reconciler"
)

// Reconciler is the engine entry point the scheduler drives.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (*models.Result, error)
}

// Run executes one reconcile-all pass immediately and then one per interval,
// blocking until ctx is cancelled. A pass that finds a cycle already in
// progress is skipped; ticks are never queued.
func Run(ctx context.Context, log *slog.Logger, rec Reconciler, interval time.Duration) {
	const defaultInterval = 5 * time.Minute
	if interval <= 0 {
		interval = defaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.InfoContext(ctx, "Scheduler started", "interval", interval)

	runCycle(ctx, log, rec)

	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "Scheduler stopped")
			return
		case <-ticker.C:
			runCycle(ctx, log, rec)
		}
	}
}

func runCycle(ctx context.Context, log *slog.Logger, rec Reconciler) {
	result, err := rec.ReconcileAll(ctx)
	switch {
	case errors.Is(err, reconciler.ErrCycleInProgress):
		log.WarnContext(ctx, "Previous cycle still running, skipping tick")
	case err != nil:
		log.ErrorContext(ctx, "Reconciliation cycle failed", "error", err)
	default:
		log.InfoContext(ctx, "Reconciliation cycle finished",
			"message", result.Message,
			"price_changes", len(result.PriceChanges),
			"new_offers", len(result.NewOffers))
	}
}
