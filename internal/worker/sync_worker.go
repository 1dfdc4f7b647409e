package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/namostri/catalog_api/internal/service"
)

// SyncWorker periodically runs a sync cycle for every configured source.
type SyncWorker struct {
	syncService *service.SyncService
	interval    time.Duration
}

// NewSyncWorker constructs a SyncWorker.
func NewSyncWorker(syncService *service.SyncService, interval time.Duration) *SyncWorker {
	return &SyncWorker{syncService: syncService, interval: interval}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *SyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog sync worker stopped")
			return
		}
	}
}

// run syncs every source in turn. One source's failure must not prevent the
// others from syncing.
func (w *SyncWorker) run(ctx context.Context) {
	for _, source := range w.syncService.Sources() {
		result, err := w.syncService.Sync(ctx, source)
		if err != nil {
			log.Error().Err(err).Str("source", string(source)).Msg("scheduled sync failed")
			continue
		}
		log.Info().
			Str("source", string(source)).
			Int("count", result.Count).
			Int("errors", len(result.Errors)).
			Msg("scheduled sync completed")
	}
}
