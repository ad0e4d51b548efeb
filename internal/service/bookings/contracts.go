package bookings

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenant domain.Tenant, id int64, forUpdate bool) (*domain.Booking, error)
	ListByLocation(ctx context.Context, tenant domain.Tenant, filter domain.LocationBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, tenant domain.Tenant, id int64, status domain.BookingStatus) error
}

// OutboxRepository интерфейс репозитория исходящих событий
type OutboxRepository interface {
	InsertBookingEvent(ctx context.Context, tenant domain.Tenant, eventType string, booking *domain.Booking) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
