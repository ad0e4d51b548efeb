package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	outboxRepo   OutboxRepository
	validator    ConflictValidator
	txManager    TransactionManager
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	validator ConflictValidator,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		validator:    validator,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
//
// Проверка конфликтов и вставка идут в одной сериализуемой транзакции после
// блокировки строк ресурсов (FOR UPDATE), поэтому две параллельные попытки
// занять одно и то же время не могут обе пройти валидацию
func (uc *UseCase) Execute(ctx context.Context, tenant domain.Tenant, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%s, location=%d, resources=%v, services=%v, start=%s",
		tenant.Slug, req.LocationID, req.ResourceIDs, req.ServiceIDs, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронировать можно только будущее время
	now := uc.timeProvider.Now()
	if !req.StartAt.After(now) {
		uc.logger.Warn("CreateBooking: start %s is not after now %s",
			req.StartAt.Format(time.RFC3339), now.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	var result *domain.Booking

	// 3. Блокировка, валидация, вставка и событие в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем строки ресурсов в порядке id
		if _, err := uc.bookingRepo.LockResources(txCtx, tenant, req.ResourceIDs); err != nil {
			uc.logger.Error("CreateBooking: failed to lock resources %v: %v", req.ResourceIDs, err)
			return fmt.Errorf("%w: lock resources: %w", ErrInternal, err)
		}

		// 3.2. Проверяем конфликты уже под блокировкой
		err := uc.validator.Validate(txCtx, tenant, availability.ValidateRequest{
			LocationID:  req.LocationID,
			ServiceIDs:  req.ServiceIDs,
			ResourceIDs: req.ResourceIDs,
			Start:       req.StartAt,
		})
		if err != nil {
			if errors.Is(err, availability.ErrInternal) {
				uc.logger.Error("CreateBooking: conflict validation failed: %v", err)
				return fmt.Errorf("%w: validate: %w", ErrInternal, err)
			}
			uc.logger.Warn("CreateBooking: rejected: %v", err)
			return err
		}

		// 3.3. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, tenant, &domain.Booking{
			LocationID:  req.LocationID,
			ResourceIDs: req.ResourceIDs,
			ServiceIDs:  req.ServiceIDs,
			StartAt:     req.StartAt,
			Status:      req.Status,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			Notes:       req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		// 3.4. Перечитываем, чтобы получить вычисленную длительность
		booking, err := uc.bookingRepo.GetByID(txCtx, tenant, created.ID, false)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to reload booking id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: reload booking: %w", ErrInternal, err)
		}

		// 3.5. Событие для сервиса уведомлений
		if err := uc.outboxRepo.InsertBookingEvent(txCtx, tenant, domain.EventBookingCreated, booking); err != nil {
			uc.logger.Error("CreateBooking: failed to write outbox event for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: outbox: %w", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingCreated(string(result.Status))
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return toResponse(result), nil
}
