package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// FindNext ищет ближайшие свободные слоты для услуг в локации
//
// Обход: дни от сегодняшнего (по часовому поясу локации) на SearchDays вперёд,
// внутри дня ресурсы локации по возрастанию ID, внутри ресурса слоты по порядку.
// В результат попадают только слоты, начинающиеся строго позже текущего момента.
// Поиск останавливается, как только набран limit
func (s *Service) FindNext(ctx context.Context, tenant domain.Tenant, req FindNextRequest) ([]NextSlot, error) {
	s.logger.Info("FindNext: tenant=%s, location=%d, services=%v, limit=%d",
		tenant.Slug, req.LocationID, req.ServiceIDs, req.Limit)

	if req.LocationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultSearchLimit
	}
	if limit > s.cfg.MaxSearchLimit {
		limit = s.cfg.MaxSearchLimit
	}

	location, tz, err := s.getLocation(ctx, tenant, req.LocationID, "FindNext")
	if err != nil {
		return nil, err
	}

	if _, err := s.loadServices(ctx, tenant, req.ServiceIDs, location.ID, "FindNext"); err != nil {
		return nil, err
	}

	resources, err := s.catalog.ListResourcesByLocation(ctx, tenant, location.ID)
	if err != nil {
		s.logger.Error("FindNext: failed to list resources of location id=%d: %v", location.ID, err)
		return nil, fmt.Errorf("%w: FindNext - list resources: %w", ErrInternal, err)
	}
	if len(resources) == 0 {
		s.logger.Info("FindNext: location id=%d has no resources", location.ID)
		return []NextSlot{}, nil
	}

	now := s.timeProvider.Now()
	localNow := now.In(tz)
	firstDay := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, tz)
	horizon := firstDay.AddDate(0, 0, s.cfg.SearchDays)

	// Календарь каждого ресурса загружается один раз на весь горизонт поиска
	calendars := make(map[int64]*resourceCalendar, len(resources))
	calendarOf := func(resourceID int64) (*resourceCalendar, error) {
		if cal, ok := calendars[resourceID]; ok {
			return cal, nil
		}
		cal, err := s.loadCalendar(ctx, tenant, resourceID, firstDay, horizon)
		if err != nil {
			return nil, err
		}
		calendars[resourceID] = cal
		return cal, nil
	}

	result := make([]NextSlot, 0, limit)

	for offset := 0; offset < s.cfg.SearchDays; offset++ {
		day := firstDay.AddDate(0, 0, offset)

		for _, resource := range resources {
			cal, err := calendarOf(resource.ID)
			if err != nil {
				s.logger.Error("FindNext: resource id=%d: %v", resource.ID, err)
				return nil, err
			}

			slots, err := cal.daySlots(day, s.cfg.GranularityMinutes)
			if err != nil {
				s.logger.Error("FindNext: resource id=%d: %v", resource.ID, err)
				return nil, fmt.Errorf("%w: FindNext - %w", ErrInternal, err)
			}
			s.metrics.IncSlotComputation("search")

			for i := range slots {
				if !slots[i].IsAvailable() || !slots[i].Start.After(now) {
					continue
				}

				result = append(result, NextSlot{
					ResourceID:   resource.ID,
					ResourceName: resource.Name,
					Start:        slots[i].Start,
					End:          slots[i].End,
				})
				if len(result) == limit {
					s.logger.Info("FindNext: location=%d - found %d slots", location.ID, len(result))
					return result, nil
				}
			}
		}
	}

	s.logger.Info("FindNext: location=%d - found %d of %d slots within %d days",
		location.ID, len(result), limit, s.cfg.SearchDays)
	return result, nil
}
