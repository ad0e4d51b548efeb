package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и смены их статуса
// Смена статуса не перепроверяет календарь: отмена разрешена всегда,
// а остальные переходы ограничены таблицей переходов домена
type Service struct {
	bookingRepo BookingRepository
	outboxRepo  OutboxRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, tenant domain.Tenant, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d, tenant=%s", id, tenant.Slug)

	booking, err := s.bookingRepo.GetByID(ctx, tenant, id, false)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListByLocation получает бронирования локации с фильтрацией по ресурсу, периоду и статусу
//
// Примеры использования:
// - Все бронирования локации: ListByLocation(ctx, tenant, &ListLocationBookingsRequest{LocationID: 3})
// - Бронирования на день: From = полночь дня, To = следующая полночь
// - Только подтвержденные: Status = "confirmed"
func (s *Service) ListByLocation(ctx context.Context, tenant domain.Tenant, req *models.ListLocationBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByLocation: fetching bookings for location=%d, tenant=%s", req.LocationID, tenant.Slug)

	if req.LocationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("ListByLocation: from=%s is not before to=%s", req.From, req.To)
		return nil, ErrInvalidTimeRange
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByLocation: invalid filter for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidStatus)
	}

	bookings, err := s.bookingRepo.ListByLocation(ctx, tenant, filter)
	if err != nil {
		s.logger.Error("ListByLocation: repository error for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: ListByLocation - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByLocation: successfully fetched %d bookings for location=%d", len(bookings), req.LocationID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в новый статус и пишет событие уведомления
// Строка бронирования блокируется на время транзакции, чтобы переходы не гонялись
func (s *Service) UpdateStatus(ctx context.Context, tenant domain.Tenant, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s, tenant=%s", bookingID, req.Status, tenant.Slug)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var result *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, tenant, bookingID, true)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - get booking: %w", ErrInternal, err)
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot move from %s to %s", bookingID, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, tenant, bookingID, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - update: %w", ErrInternal, err)
		}

		updated, err := s.bookingRepo.GetByID(txCtx, tenant, bookingID, false)
		if err != nil {
			s.logger.Error("UpdateStatus: failed to reload booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - reload: %w", ErrInternal, err)
		}

		if err := s.outboxRepo.InsertBookingEvent(txCtx, tenant, domain.EventTypeForStatus(newStatus), updated); err != nil {
			s.logger.Error("UpdateStatus: failed to write outbox event for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - outbox: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(result), nil
}

// Cancel отменяет бронирование
// Отмена разрешена из pending и confirmed независимо от пересечений
func (s *Service) Cancel(ctx context.Context, tenant domain.Tenant, bookingID int64) (*models.BookingResponse, error) {
	return s.UpdateStatus(ctx, tenant, bookingID, &models.UpdateStatusRequest{Status: string(domain.StatusCancelled)})
}
