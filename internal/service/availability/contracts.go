package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CatalogRepository справочник локаций, ресурсов и услуг
type CatalogRepository interface {
	GetLocation(ctx context.Context, tenant domain.Tenant, id int64) (*domain.Location, error)
	GetResource(ctx context.Context, tenant domain.Tenant, id int64) (*domain.Resource, error)
	GetResources(ctx context.Context, tenant domain.Tenant, ids []int64) ([]*domain.Resource, error)
	ListResourcesByLocation(ctx context.Context, tenant domain.Tenant, locationID int64) ([]*domain.Resource, error)
	GetServices(ctx context.Context, tenant domain.Tenant, ids []int64) ([]*domain.Service, error)
}

// ScheduleRepository недельное расписание ресурсов
type ScheduleRepository interface {
	ListByResourceAndWeekdays(ctx context.Context, tenant domain.Tenant, resourceID int64, weekdays ...int) ([]domain.ScheduleEntry, error)
}

// BlockRepository блокировки времени ресурсов
type BlockRepository interface {
	ListOverlapping(ctx context.Context, tenant domain.Tenant, resourceID int64, from, to time.Time) ([]domain.Block, error)
}

// BookingRepository интервалы существующих бронирований
type BookingRepository interface {
	ListOverlapping(ctx context.Context, tenant domain.Tenant, filter domain.OverlapFilter) ([]domain.BookingInterval, error)
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
