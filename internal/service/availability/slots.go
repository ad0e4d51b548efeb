package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ComputeSlots строит сетку слотов ресурса на дату
// Слот доступен, если он целиком внутри окна расписания и не пересекает ни блокировку,
// ни бронирование в статусе pending/confirmed. Длительность бронирований берётся из их услуг,
// а не из запрошенных serviceIDs; запрошенные услуги только проверяются на существование
func (s *Service) ComputeSlots(ctx context.Context, tenant domain.Tenant, req ComputeSlotsRequest) (*DaySlots, error) {
	s.logger.Info("ComputeSlots: tenant=%s, resource=%d, date=%s, services=%v",
		tenant.Slug, req.ResourceID, req.Date, req.ServiceIDs)

	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	// Дата без часового пояса; пояс берётся у локации ресурса
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("ComputeSlots: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, req.Date)
	}

	resource, err := s.catalog.GetResource(ctx, tenant, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			s.logger.Warn("ComputeSlots: resource id=%d not found", req.ResourceID)
			return nil, fmt.Errorf("%w: id=%d", ErrResourceNotFound, req.ResourceID)
		}
		s.logger.Error("ComputeSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: ComputeSlots - get resource: %w", ErrInternal, err)
	}

	location, tz, err := s.getLocation(ctx, tenant, resource.LocationID, "ComputeSlots")
	if err != nil {
		return nil, err
	}

	services, err := s.loadServices(ctx, tenant, req.ServiceIDs, location.ID, "ComputeSlots")
	if err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
	nextDay := day.AddDate(0, 0, 1)

	weekday := domain.WeekdayOf(day)
	cal, err := s.loadCalendar(ctx, tenant, resource.ID, day, nextDay, weekday, domain.PreviousWeekday(weekday))
	if err != nil {
		s.logger.Error("ComputeSlots: failed to load calendar of resource id=%d: %v", resource.ID, err)
		return nil, err
	}

	slots, err := cal.daySlots(day, s.cfg.GranularityMinutes)
	if err != nil {
		s.logger.Error("ComputeSlots: resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: ComputeSlots - %w", ErrInternal, err)
	}
	s.metrics.IncSlotComputation("compute")

	s.logger.Info("ComputeSlots: resource=%d, date=%s - %d of %d slots available",
		resource.ID, req.Date, countAvailable(slots), len(slots))

	return &DaySlots{
		ResourceID:      resource.ID,
		LocationID:      location.ID,
		Date:            day,
		Timezone:        tz.String(),
		DurationMinutes: domain.TotalDurationMinutes(services),
		Slots:           slots,
	}, nil
}

// resourceCalendar расписание и занятость одного ресурса на загруженном периоде
type resourceCalendar struct {
	schedule map[int][]domain.ScheduleEntry // по дню недели
	busy     []domain.Interval              // блокировки и бронирования
}

// loadCalendar загружает расписание на указанные дни недели (все, если не указаны)
// и занятость ресурса на [from, to)
func (s *Service) loadCalendar(ctx context.Context, tenant domain.Tenant, resourceID int64, from, to time.Time, weekdays ...int) (*resourceCalendar, error) {
	entries, err := s.schedules.ListByResourceAndWeekdays(ctx, tenant, resourceID, weekdays...)
	if err != nil {
		return nil, fmt.Errorf("%w: get schedule of resource id=%d: %w", ErrInternal, resourceID, err)
	}

	blocks, err := s.blocks.ListOverlapping(ctx, tenant, resourceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: get blocks of resource id=%d: %w", ErrInternal, resourceID, err)
	}

	bookings, err := s.bookings.ListOverlapping(ctx, tenant, domain.OverlapFilter{
		ResourceID: resourceID,
		From:       from,
		To:         to,
		Statuses:   domain.BlockingStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get bookings of resource id=%d: %w", ErrInternal, resourceID, err)
	}

	cal := &resourceCalendar{
		schedule: make(map[int][]domain.ScheduleEntry, 7),
		busy:     make([]domain.Interval, 0, len(blocks)+len(bookings)),
	}
	for _, e := range entries {
		cal.schedule[e.Weekday] = append(cal.schedule[e.Weekday], e)
	}
	for i := range blocks {
		cal.busy = append(cal.busy, blocks[i].Interval())
	}
	for _, b := range bookings {
		cal.busy = append(cal.busy, b.Interval())
	}

	return cal, nil
}

// windows окна расписания календарного дня с учётом перехода через полночь из предыдущего дня
func (c *resourceCalendar) windows(day time.Time) ([]domain.Window, error) {
	weekday := domain.WeekdayOf(day)
	return domain.DayWindows(c.schedule[weekday], c.schedule[domain.PreviousWeekday(weekday)])
}

func (c *resourceCalendar) daySlots(day time.Time, granularity int) ([]domain.Slot, error) {
	windows, err := c.windows(day)
	if err != nil {
		return nil, err
	}
	return buildDaySlots(day, granularity, windows, c.busy), nil
}

// buildDaySlots делит сутки от локальной полуночи до следующей на слоты шагом granularity
// Шаг отсчитывается по реальному времени, поэтому в дни перехода на летнее/зимнее время слотов
// меньше или больше, начала не повторяются, а последний слот обрезается по следующей полуночи.
// Попадание в расписание проверяется по локальным минутам начала, пересечение с занятостью по реальному времени
func buildDaySlots(day time.Time, granularity int, windows []domain.Window, busy []domain.Interval) []domain.Slot {
	step := time.Duration(granularity) * time.Minute
	nextDay := day.AddDate(0, 0, 1)

	slots := make([]domain.Slot, 0, types.MinutesPerDay/granularity+1)

	for start := day; start.Before(nextDay); start = start.Add(step) {
		end := start.Add(step)
		if end.After(nextDay) {
			end = nextDay
		}

		slot := domain.Slot{
			Start:  start,
			End:    end,
			Status: domain.SlotUnavailable,
		}

		startMinute, endMinute := slot.Interval().WallMinutes()
		if domain.ContainsRange(windows, startMinute, endMinute) {
			if _, taken := slot.Interval().OverlapsAny(busy); !taken {
				slot.Status = domain.SlotAvailable
			}
		}

		slots = append(slots, slot)
	}

	return slots
}

func countAvailable(slots []domain.Slot) int {
	n := 0
	for i := range slots {
		if slots[i].IsAvailable() {
			n++
		}
	}
	return n
}
