package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Validate проверяет, что кандидат бронирования не конфликтует с расписанием,
// блокировками и другими бронированиями каждого ресурса
//
// Ресурсы проверяются в порядке запроса, первая же проблема возвращается как *ValidationError:
//  1. у ресурса нет расписания на этот день
//  2. [start, end) не помещается целиком ни в одно окно расписания
//  3. есть пересекающееся бронирование pending/confirmed (кроме ExcludeBookingID)
//  4. есть пересекающаяся блокировка (причина блокировки попадает в сообщение)
//
// Для защиты от гонки вызывающий код выполняет Validate и запись в одной транзакции
// после блокировки строк ресурсов
func (s *Service) Validate(ctx context.Context, tenant domain.Tenant, req ValidateRequest) error {
	s.logger.Info("Validate: tenant=%s, location=%d, resources=%v, services=%v, start=%s",
		tenant.Slug, req.LocationID, req.ResourceIDs, req.ServiceIDs, req.Start.Format(time.RFC3339))

	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}
	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}
	if req.Start.Second() != 0 || req.Start.Nanosecond() != 0 {
		return fmt.Errorf("%w: start must be aligned to a whole minute", ErrInvalidInput)
	}

	location, tz, err := s.getLocation(ctx, tenant, req.LocationID, "Validate")
	if err != nil {
		return err
	}

	services, err := s.loadServices(ctx, tenant, req.ServiceIDs, location.ID, "Validate")
	if err != nil {
		return err
	}

	totalDuration := domain.TotalDurationMinutes(services)
	if totalDuration <= 0 {
		s.logger.Warn("Validate: total duration of services %v is %d", req.ServiceIDs, totalDuration)
		return fmt.Errorf("%w: got %d minutes", ErrInvalidDuration, totalDuration)
	}

	resources, err := s.loadResources(ctx, tenant, req.ResourceIDs, location.ID, "Validate")
	if err != nil {
		return err
	}

	start := req.Start.In(tz)
	candidate := domain.Interval{
		Start: start,
		End:   start.Add(time.Duration(totalDuration) * time.Minute),
	}

	for _, resource := range resources {
		if err := s.validateResource(ctx, tenant, location.ID, resource, candidate, req.ExcludeBookingID); err != nil {
			return err
		}
	}

	s.logger.Info("Validate: candidate %s-%s is free for resources %v",
		candidate.Start.Format(time.RFC3339), candidate.End.Format(time.RFC3339), req.ResourceIDs)
	return nil
}

func (s *Service) validateResource(
	ctx context.Context,
	tenant domain.Tenant,
	locationID int64,
	resource *domain.Resource,
	candidate domain.Interval,
	excludeBookingID *int64,
) error {
	reject := func(reason error, detail string) error {
		s.metrics.IncValidationRejection(reasonLabel(reason))
		s.logger.Warn("Validate: resource id=%d rejected: %v %s", resource.ID, reason, detail)
		return &ValidationError{
			ResourceID:   resource.ID,
			ResourceName: resource.Name,
			Reason:       reason,
			Detail:       detail,
		}
	}

	// 1-2. Расписание дня начала: собственные записи дня недели и хвост ночной смены предыдущего дня
	day := time.Date(candidate.Start.Year(), candidate.Start.Month(), candidate.Start.Day(), 0, 0, 0, 0, candidate.Start.Location())
	weekday := domain.WeekdayOf(day)

	entries, err := s.schedules.ListByResourceAndWeekdays(ctx, tenant, resource.ID, weekday, domain.PreviousWeekday(weekday))
	if err != nil {
		s.logger.Error("Validate: failed to get schedule of resource id=%d: %v", resource.ID, err)
		return fmt.Errorf("%w: Validate - get schedule: %w", ErrInternal, err)
	}

	var today, previous []domain.ScheduleEntry
	for _, e := range entries {
		if e.Weekday == weekday {
			today = append(today, e)
		} else {
			previous = append(previous, e)
		}
	}

	windows, err := domain.DayWindows(today, previous)
	if err != nil {
		s.logger.Error("Validate: resource id=%d: %v", resource.ID, err)
		return fmt.Errorf("%w: Validate - %w", ErrInternal, err)
	}
	if len(windows) == 0 {
		return reject(ErrNoSchedule, day.Format(domain.DateFormat))
	}

	// Окна расписания заданы по локальным часам; диапазон считается так же, как для слотов дня
	startMinute, endMinute := candidate.WallMinutes()
	if !domain.ContainsRange(windows, startMinute, endMinute) {
		return reject(ErrOutsideHours, fmt.Sprintf("%s-%s",
			candidate.Start.Format(domain.TimeFormat), candidate.End.Format(domain.TimeFormat)))
	}

	// 3. Пересекающиеся бронирования
	bookings, err := s.bookings.ListOverlapping(ctx, tenant, domain.OverlapFilter{
		ResourceID:       resource.ID,
		LocationID:       locationID,
		From:             candidate.Start,
		To:               candidate.End,
		Statuses:         domain.BlockingStatuses,
		ExcludeBookingID: excludeBookingID,
	})
	if err != nil {
		s.logger.Error("Validate: failed to get bookings of resource id=%d: %v", resource.ID, err)
		return fmt.Errorf("%w: Validate - get bookings: %w", ErrInternal, err)
	}
	for _, b := range bookings {
		if excludeBookingID != nil && b.BookingID == *excludeBookingID {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			return reject(ErrOverlappingBooking, fmt.Sprintf("booking id=%d %s-%s", b.BookingID,
				b.StartAt.In(candidate.Start.Location()).Format(domain.TimeFormat),
				b.EndAt.In(candidate.Start.Location()).Format(domain.TimeFormat)))
		}
	}

	// 4. Блокировки
	blocks, err := s.blocks.ListOverlapping(ctx, tenant, resource.ID, candidate.Start, candidate.End)
	if err != nil {
		s.logger.Error("Validate: failed to get blocks of resource id=%d: %v", resource.ID, err)
		return fmt.Errorf("%w: Validate - get blocks: %w", ErrInternal, err)
	}
	for i := range blocks {
		if candidate.Overlaps(blocks[i].Interval()) {
			return reject(ErrBlockInEffect, blocks[i].Reason)
		}
	}

	return nil
}
