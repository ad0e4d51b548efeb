package tenant

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor

// Registry источник арендаторов по slug
type Registry interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// Cache подмножество команд redis, используемых кешем реестра
// Реализуется *redis.Client
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Logger interface {
	Warn(format string, v ...interface{})
}
