package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

// UseCase use case для переноса бронирования на другое время, ресурсы или услуги
type UseCase struct {
	bookingRepo  BookingRepository
	outboxRepo   OutboxRepository
	validator    ConflictValidator
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	validator ConflictValidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		validator:    validator,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет перенос бронирования
// Новый интервал проверяется валидатором с исключением самого бронирования,
// чтобы его текущий интервал не считался конфликтом
func (uc *UseCase) Execute(ctx context.Context, tenant domain.Tenant, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: tenant=%s, booking=%d, start=%s, resources=%v, services=%v",
		tenant.Slug, req.BookingID, req.StartAt.Format(time.RFC3339), req.ResourceIDs, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Переносить можно только в будущее
	now := uc.timeProvider.Now()
	if !req.StartAt.After(now) {
		uc.logger.Warn("RescheduleBooking: start %s is not after now %s",
			req.StartAt.Format(time.RFC3339), now.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, tenant, req.BookingID, true)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: get booking: %w", ErrInternal, err)
		}

		// 2.2. Конечные статусы не переносятся
		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d has status %s", booking.ID, booking.Status)
			return fmt.Errorf("%w: status %s", ErrNotReschedulable, booking.Status)
		}

		resourceIDs := booking.ResourceIDs
		if len(req.ResourceIDs) > 0 {
			resourceIDs = req.ResourceIDs
		}
		serviceIDs := booking.ServiceIDs
		if len(req.ServiceIDs) > 0 {
			serviceIDs = req.ServiceIDs
		}

		// 2.3. Блокируем ресурсы нового интервала
		if _, err := uc.bookingRepo.LockResources(txCtx, tenant, resourceIDs); err != nil {
			uc.logger.Error("RescheduleBooking: failed to lock resources %v: %v", resourceIDs, err)
			return fmt.Errorf("%w: lock resources: %w", ErrInternal, err)
		}

		// 2.4. Проверяем конфликты, не считая само бронирование
		err = uc.validator.Validate(txCtx, tenant, availability.ValidateRequest{
			LocationID:       booking.LocationID,
			ServiceIDs:       serviceIDs,
			ResourceIDs:      resourceIDs,
			Start:            req.StartAt,
			ExcludeBookingID: &booking.ID,
		})
		if err != nil {
			if errors.Is(err, availability.ErrInternal) {
				uc.logger.Error("RescheduleBooking: conflict validation failed: %v", err)
				return fmt.Errorf("%w: validate: %w", ErrInternal, err)
			}
			uc.logger.Warn("RescheduleBooking: rejected: %v", err)
			return err
		}

		// 2.5. Сохраняем новое время и состав
		booking.StartAt = req.StartAt
		booking.ResourceIDs = resourceIDs
		booking.ServiceIDs = serviceIDs
		if err := uc.bookingRepo.Reschedule(txCtx, tenant, booking); err != nil {
			uc.logger.Error("RescheduleBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: reschedule: %w", ErrInternal, err)
		}

		updated, err := uc.bookingRepo.GetByID(txCtx, tenant, booking.ID, false)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to reload booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: reload booking: %w", ErrInternal, err)
		}

		// 2.6. Событие для сервиса уведомлений
		if err := uc.outboxRepo.InsertBookingEvent(txCtx, tenant, domain.EventBookingRescheduled, updated); err != nil {
			uc.logger.Error("RescheduleBooking: failed to write outbox event for booking id=%d: %v", updated.ID, err)
			return fmt.Errorf("%w: outbox: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s", result.ID, result.StartAt.Format(time.RFC3339))

	return toResponse(result), nil
}
