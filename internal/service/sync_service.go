package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/namostri/catalog_api/internal/cache"
	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/utils"
)

// SyncResult reports the outcome of one sync cycle: how many records were
// upserted and which individual records failed.
type SyncResult struct {
	Source models.SourceCode `json:"source"`
	Count  int               `json:"count"`
	Errors []string          `json:"errors,omitempty"`
}

// SyncService reconciles upstream catalogs into the persistent store via an
// idempotent per-record upsert keyed by (source, external identifier).
type SyncService struct {
	sources map[models.SourceCode]Source
	store   ProductStore
	avail   StoreAvailability
	cache   *cache.CatalogCache
	now     func() time.Time
}

// NewSyncService constructs a SyncService over the given sources.
func NewSyncService(store ProductStore, avail StoreAvailability, listCache *cache.CatalogCache, sources ...Source) *SyncService {
	m := make(map[models.SourceCode]Source, len(sources))
	for _, s := range sources {
		m[s.Code()] = s
	}
	return &SyncService{
		sources: m,
		store:   store,
		avail:   avail,
		cache:   listCache,
		now:     time.Now,
	}
}

// Sources lists the source codes this service can sync.
func (s *SyncService) Sources() []models.SourceCode {
	codes := make([]models.SourceCode, 0, len(s.sources))
	for code := range s.sources {
		codes = append(codes, code)
	}
	return codes
}

// Sync runs one sync cycle for the given source. It fails fast with
// ErrStoreUnavailable before touching the upstream when the store is down,
// and with ErrUpstream when the fetch itself fails. Individual record
// failures are collected in the result instead of aborting the batch.
func (s *SyncService) Sync(ctx context.Context, source models.SourceCode) (*SyncResult, error) {
	if !s.avail.Available() {
		return nil, utils.ErrStoreUnavailable
	}

	src, ok := s.sources[source]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter configured for %q", utils.ErrUnknownSource, source)
	}

	products, skipped, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Source: source}
	for _, err := range skipped {
		result.Errors = append(result.Errors, err.Error())
	}

	for i := range products {
		if err := s.upsert(&products[i]); err != nil {
			log.Error().Err(err).
				Str("source", string(source)).
				Str("external_id", products[i].ExternalID()).
				Msg("failed to upsert product")
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", source, products[i].ExternalID(), err))
			continue
		}
		result.Count++
	}

	if result.Count > 0 {
		s.cache.Invalidate(ctx)
	}

	log.Info().
		Str("source", string(source)).
		Int("count", result.Count).
		Int("errors", len(result.Errors)).
		Msg("sync cycle completed")
	return result, nil
}

// upsert inserts the record or replaces all mutable fields of the stored row
// with the same (source, external id), preserving the internal id and
// creation timestamp. synced_at is stamped on every touched record.
func (s *SyncService) upsert(p *models.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	now := s.now()
	p.SyncedAt = &now

	existing, err := s.store.GetBySourceExternalID(p.Source, p.ExternalID())
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		return s.store.Update(p)
	case errors.Is(err, sql.ErrNoRows):
		return s.store.Create(p)
	default:
		return err
	}
}
