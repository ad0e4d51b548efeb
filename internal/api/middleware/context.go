package middleware

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type contextKey int

const (
	tenantKey contextKey = iota
	requestIDKey
)

// WithTenant кладёт арендатора в контекст запроса
func WithTenant(ctx context.Context, tenant domain.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// GetTenant достаёт арендатора, определённого middleware Tenant
func GetTenant(ctx context.Context) (domain.Tenant, bool) {
	tenant, ok := ctx.Value(tenantKey).(domain.Tenant)
	return tenant, ok && !tenant.IsZero()
}

// GetRequestID возвращает id запроса или пустую строку
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
