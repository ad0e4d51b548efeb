package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const cacheKeyPrefix = "scheduling:tenant:"

// CachedRegistry кеширует реестр арендаторов в redis
// Ошибки redis не ломают запрос: при недоступности кеша идём в базу
type CachedRegistry struct {
	next   Registry
	cache  Cache
	ttl    time.Duration
	logger Logger
}

// NewCachedRegistry оборачивает реестр кешем с указанным TTL
func NewCachedRegistry(next Registry, cache Cache, ttl time.Duration, logger Logger) *CachedRegistry {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRegistry{next: next, cache: cache, ttl: ttl, logger: logger}
}

type cachedTenant struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Schema string `json:"schema"`
	Active bool   `json:"active"`
}

func (c *CachedRegistry) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	key := cacheKeyPrefix + slug

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ct cachedTenant
		if jsonErr := json.Unmarshal(raw, &ct); jsonErr == nil {
			return &domain.Tenant{ID: ct.ID, Slug: ct.Slug, Schema: ct.Schema, Active: ct.Active}, nil
		}
		c.logger.Warn("TenantCache: corrupted entry for slug=%s, reloading", slug)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("TenantCache: get slug=%s: %v", slug, err)
	}

	t, err := c.next.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedTenant{ID: t.ID, Slug: t.Slug, Schema: t.Schema, Active: t.Active})
	if err == nil {
		if setErr := c.cache.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.Warn("TenantCache: set slug=%s: %v", slug, setErr)
		}
	}

	return t, nil
}

// Invalidate удаляет запись арендатора из кеша
func (c *CachedRegistry) Invalidate(ctx context.Context, slug string) error {
	return c.cache.Del(ctx, cacheKeyPrefix+slug).Err()
}
