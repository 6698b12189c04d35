package jobs

import (
	"context"
	"log/slog"
	"time"

	"kinoteka/internal/cache"
	"kinoteka/internal/repository"
)

const reconcileInterval = 1 * time.Minute

// CountReconciliationJob periodically rewrites the per-screening issued
// counters in Valkey from the tickets table. The counters are only ever
// advisory, but event loss or a cache restart can leave them stale.
type CountReconciliationJob struct {
	ticketRepo *repository.TicketRepository
	valkey     *cache.ValkeyClient
	ticker     *time.Ticker
	done       chan bool
}

func NewCountReconciliationJob(ticketRepo *repository.TicketRepository, valkeyClient *cache.ValkeyClient) *CountReconciliationJob {
	return &CountReconciliationJob{
		ticketRepo: ticketRepo,
		valkey:     valkeyClient,
		done:       make(chan bool),
	}
}

// Start begins the background job
func (j *CountReconciliationJob) Start(ctx context.Context) {
	slog.Info("Starting count reconciliation job", "interval", reconcileInterval)

	j.ticker = time.NewTicker(reconcileInterval)

	// Run initial pass immediately
	go j.reconcile(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.reconcile(ctx)
			case <-j.done:
				slog.Info("Count reconciliation job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *CountReconciliationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *CountReconciliationJob) reconcile(ctx context.Context) {
	counts, err := j.ticketRepo.CountAllByScreening(ctx)
	if err != nil {
		slog.Error("Failed to count tickets per screening", "error", err)
		return
	}

	updated := 0
	for screeningID, count := range counts {
		if err := j.valkey.SetIssuedCount(ctx, screeningID, count); err != nil {
			slog.Error("Failed to write issued counter",
				"screening_id", screeningID, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		slog.Debug("Reconciled issued counters", "screenings", updated)
	}
}
