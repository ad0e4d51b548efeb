package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service движок доступности: сетка слотов, валидатор конфликтов и поиск ближайших слотов
// Все обращения к данным идут через репозитории с явным арендатором
type Service struct {
	catalog      CatalogRepository
	schedules    ScheduleRepository
	blocks       BlockRepository
	bookings     BookingRepository
	cfg          Config
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewService создает новый экземпляр движка доступности
// metrics может быть nil
func NewService(
	catalog CatalogRepository,
	schedules ScheduleRepository,
	blocks BlockRepository,
	bookings BookingRepository,
	cfg Config,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.GranularityMinutes <= 0 || types.MinutesPerDay%cfg.GranularityMinutes != 0 {
		cfg.GranularityMinutes = defaults.GranularityMinutes
	}
	if cfg.SearchDays <= 0 {
		cfg.SearchDays = defaults.SearchDays
	}
	if cfg.DefaultSearchLimit <= 0 {
		cfg.DefaultSearchLimit = defaults.DefaultSearchLimit
	}
	if cfg.MaxSearchLimit < cfg.DefaultSearchLimit {
		cfg.MaxSearchLimit = cfg.DefaultSearchLimit
	}

	return &Service{
		catalog:      catalog,
		schedules:    schedules,
		blocks:       blocks,
		bookings:     bookings,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// getLocation загружает локацию и её часовой пояс
func (s *Service) getLocation(ctx context.Context, tenant domain.Tenant, locationID int64, op string) (*domain.Location, *time.Location, error) {
	location, err := s.catalog.GetLocation(ctx, tenant, locationID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			s.logger.Warn("%s: location id=%d not found", op, locationID)
			return nil, nil, fmt.Errorf("%w: id=%d", ErrLocationNotFound, locationID)
		}
		s.logger.Error("%s: failed to get location id=%d: %v", op, locationID, err)
		return nil, nil, fmt.Errorf("%w: %s - get location: %w", ErrInternal, op, err)
	}

	tz, err := location.TimeLocation()
	if err != nil {
		s.logger.Error("%s: location id=%d has invalid timezone %q: %v", op, locationID, location.Timezone, err)
		return nil, nil, fmt.Errorf("%w: %s - timezone %q: %w", ErrInternal, op, location.Timezone, err)
	}

	return location, tz, nil
}

// loadServices загружает услуги и проверяет, что все они существуют и принадлежат локации
func (s *Service) loadServices(ctx context.Context, tenant domain.Tenant, serviceIDs []int64, locationID int64, op string) ([]*domain.Service, error) {
	if len(serviceIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if id, ok := firstDuplicate(serviceIDs); ok {
		return nil, fmt.Errorf("%w: duplicate service id=%d", ErrInvalidInput, id)
	}

	services, err := s.catalog.GetServices(ctx, tenant, serviceIDs)
	if err != nil {
		s.logger.Error("%s: failed to get services %v: %v", op, serviceIDs, err)
		return nil, fmt.Errorf("%w: %s - get services: %w", ErrInternal, op, err)
	}

	byID := make(map[int64]*domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	ordered := make([]*domain.Service, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, ok := byID[id]
		if !ok {
			s.logger.Warn("%s: service id=%d not found", op, id)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}
		if svc.LocationID != locationID {
			s.logger.Warn("%s: service id=%d belongs to location id=%d, not %d", op, id, svc.LocationID, locationID)
			return nil, fmt.Errorf("%w: service id=%d, location id=%d", ErrServiceNotAtLocation, id, locationID)
		}
		ordered = append(ordered, svc)
	}

	return ordered, nil
}

// loadResources загружает ресурсы в порядке запроса и проверяет принадлежность локации
func (s *Service) loadResources(ctx context.Context, tenant domain.Tenant, resourceIDs []int64, locationID int64, op string) ([]*domain.Resource, error) {
	if len(resourceIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one resource is required", ErrInvalidInput)
	}
	if id, ok := firstDuplicate(resourceIDs); ok {
		return nil, fmt.Errorf("%w: duplicate resource id=%d", ErrInvalidInput, id)
	}

	resources, err := s.catalog.GetResources(ctx, tenant, resourceIDs)
	if err != nil {
		s.logger.Error("%s: failed to get resources %v: %v", op, resourceIDs, err)
		return nil, fmt.Errorf("%w: %s - get resources: %w", ErrInternal, op, err)
	}

	byID := make(map[int64]*domain.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}

	ordered := make([]*domain.Resource, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		r, ok := byID[id]
		if !ok {
			s.logger.Warn("%s: resource id=%d not found", op, id)
			return nil, fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
		}
		if r.LocationID != locationID {
			s.logger.Warn("%s: resource id=%d belongs to location id=%d, not %d", op, id, r.LocationID, locationID)
			return nil, fmt.Errorf("%w: resource id=%d, location id=%d", ErrResourceNotAtLocation, id, locationID)
		}
		ordered = append(ordered, r)
	}

	return ordered, nil
}

func firstDuplicate(ids []int64) (int64, bool) {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}
