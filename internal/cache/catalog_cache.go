package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/namostri/catalog_api/internal/models"
)

const (
	listKeyPrefix = "catalog:list:"
	listTTL       = 60 * time.Second
)

// CachedList is the cached payload for one list query.
type CachedList struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
	CachedAt time.Time        `json:"cachedAt"`
}

// CatalogCache caches paginated list responses in Redis with a short TTL.
// Writes (sync cycles and CRUD) invalidate the whole list keyspace.
//
// A nil CatalogCache is valid and disables caching, so Redis stays optional.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a CatalogCache. Returns nil when redis is nil.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	if redis == nil {
		return nil
	}
	return &CatalogCache{redis: redis}
}

func listKey(search, source, status string, page, limit int) string {
	return fmt.Sprintf("%s%s:%s:%s:%d:%d", listKeyPrefix, search, source, status, page, limit)
}

// GetList returns the cached result for one list query, if present.
func (c *CatalogCache) GetList(ctx context.Context, search, source, status string, page, limit int) (*CachedList, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.redis.Get(ctx, listKey(search, source, status, page, limit))
	if err != nil {
		return nil, false
	}
	var cached CachedList
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

// SetList caches the result of one list query. Failures are logged, not
// surfaced; the cache is best-effort.
func (c *CatalogCache) SetList(ctx context.Context, search, source, status string, page, limit int, products []models.Product, total int) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(CachedList{Products: products, Total: total, CachedAt: time.Now()})
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, listKey(search, source, status, page, limit), string(payload), listTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache list response")
	}
}

// Invalidate drops every cached list response.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.redis.DeleteByPrefix(ctx, listKeyPrefix); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate list cache")
	}
}
