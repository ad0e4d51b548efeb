package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockResources(ctx context.Context, tenant domain.Tenant, resourceIDs []int64) ([]int64, error)
	Create(ctx context.Context, tenant domain.Tenant, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, tenant domain.Tenant, id int64, forUpdate bool) (*domain.Booking, error)
}

// OutboxRepository интерфейс репозитория исходящих событий
type OutboxRepository interface {
	InsertBookingEvent(ctx context.Context, tenant domain.Tenant, eventType string, booking *domain.Booking) error
}

// ConflictValidator интерфейс валидатора конфликтов
type ConflictValidator interface {
	Validate(ctx context.Context, tenant domain.Tenant, req availability.ValidateRequest) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
