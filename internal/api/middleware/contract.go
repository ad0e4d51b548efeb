package middleware

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TenantRegistry интерфейс реестра организаций
type TenantRegistry interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
