package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CatalogRepository интерфейс справочника ресурсов
type CatalogRepository interface {
	GetResource(ctx context.Context, tenant domain.Tenant, id int64) (*domain.Resource, error)
}

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	ListByResourceAndWeekdays(ctx context.Context, tenant domain.Tenant, resourceID int64, weekdays ...int) ([]domain.ScheduleEntry, error)
	ReplaceForResource(ctx context.Context, tenant domain.Tenant, resourceID int64, entries []domain.ScheduleEntry) ([]domain.ScheduleEntry, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	ListOverlapping(ctx context.Context, tenant domain.Tenant, resourceID int64, from, to time.Time) ([]domain.Block, error)
	Create(ctx context.Context, tenant domain.Tenant, b *domain.Block) (*domain.Block, error)
	Delete(ctx context.Context, tenant domain.Tenant, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
