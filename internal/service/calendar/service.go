package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/calendar/models"
)

// Service сервис администрирования календаря ресурсов: недельное расписание и блокировки
type Service struct {
	catalogRepo  CatalogRepository
	scheduleRepo ScheduleRepository
	blockRepo    BlockRepository
	txManager    TransactionManager
	searchDays   int
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
// searchDays задаёт период списка блокировок по умолчанию
func NewService(
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	blockRepo BlockRepository,
	txManager TransactionManager,
	searchDays int,
	logger Logger,
) *Service {
	if searchDays <= 0 {
		searchDays = domain.DefaultSearchDays
	}
	return &Service{
		catalogRepo:  catalogRepo,
		scheduleRepo: scheduleRepo,
		blockRepo:    blockRepo,
		txManager:    txManager,
		searchDays:   searchDays,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetSchedule получает недельное расписание ресурса
func (s *Service) GetSchedule(ctx context.Context, tenant domain.Tenant, resourceID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: resource=%d, tenant=%s", resourceID, tenant.Slug)

	if err := s.ensureResource(ctx, tenant, resourceID, "GetSchedule"); err != nil {
		return nil, err
	}

	entries, err := s.scheduleRepo.ListByResourceAndWeekdays(ctx, tenant, resourceID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainSchedule(resourceID, entries), nil
}

// ReplaceSchedule заменяет недельное расписание ресурса целиком
// Пересекающиеся записи допустимы, при расчёте доступности они объединяются
func (s *Service) ReplaceSchedule(ctx context.Context, tenant domain.Tenant, resourceID int64, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: resource=%d, entries=%d, tenant=%s", resourceID, len(req.Entries), tenant.Slug)

	entries := req.ToDomainEntries(resourceID)
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			s.logger.Warn("ReplaceSchedule: entry #%d is invalid: %v", i, err)
			return nil, fmt.Errorf("%w: entry #%d: %v", ErrInvalidScheduleEntry, i, err)
		}
	}

	if err := s.ensureResource(ctx, tenant, resourceID, "ReplaceSchedule"); err != nil {
		return nil, err
	}

	var saved []domain.ScheduleEntry
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.scheduleRepo.ReplaceForResource(txCtx, tenant, resourceID, entries)
		return err
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ReplaceSchedule: saved %d entries for resource=%d", len(saved), resourceID)
	return models.FromDomainSchedule(resourceID, saved), nil
}

// CreateBlock создает блокировку времени ресурса
// Существующие бронирования блокировка не затрагивает
func (s *Service) CreateBlock(ctx context.Context, tenant domain.Tenant, resourceID int64, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: resource=%d, start=%s, end=%s, tenant=%s",
		resourceID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), tenant.Slug)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(reason) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}
	if req.StartAt.IsZero() || !req.EndAt.After(req.StartAt) {
		s.logger.Warn("CreateBlock: end %s is not after start %s", req.EndAt, req.StartAt)
		return nil, ErrInvalidTimeRange
	}

	if err := s.ensureResource(ctx, tenant, resourceID, "CreateBlock"); err != nil {
		return nil, err
	}

	created, err := s.blockRepo.Create(ctx, tenant, &domain.Block{
		ResourceID: resourceID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Reason:     reason,
	})
	if err != nil {
		s.logger.Error("CreateBlock: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: created block id=%d for resource=%d", created.ID, resourceID)
	return models.FromDomainBlock(created), nil
}

// ListBlocks получает блокировки ресурса, пересекающие период [From, To)
func (s *Service) ListBlocks(ctx context.Context, tenant domain.Tenant, resourceID int64, req *models.ListBlocksRequest) (*models.BlockListResponse, error) {
	from := s.timeProvider.Now()
	if req.From != nil {
		from = *req.From
	}
	to := from.AddDate(0, 0, s.searchDays)
	if req.To != nil {
		to = *req.To
	}

	s.logger.Info("ListBlocks: resource=%d, from=%s, to=%s, tenant=%s",
		resourceID, from.Format(time.RFC3339), to.Format(time.RFC3339), tenant.Slug)

	if !to.After(from) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.ensureResource(ctx, tenant, resourceID, "ListBlocks"); err != nil {
		return nil, err
	}

	blocks, err := s.blockRepo.ListOverlapping(ctx, tenant, resourceID, from, to)
	if err != nil {
		s.logger.Error("ListBlocks: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBlockList(blocks), nil
}

// DeleteBlock удаляет блокировку
func (s *Service) DeleteBlock(ctx context.Context, tenant domain.Tenant, blockID int64) error {
	s.logger.Info("DeleteBlock: block=%d, tenant=%s", blockID, tenant.Slug)

	if err := s.blockRepo.Delete(ctx, tenant, blockID); err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			s.logger.Warn("DeleteBlock: block id=%d not found", blockID)
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: repository error for block=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteBlock - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("DeleteBlock: block id=%d deleted", blockID)
	return nil
}

func (s *Service) ensureResource(ctx context.Context, tenant domain.Tenant, resourceID int64, op string) error {
	if _, err := s.catalogRepo.GetResource(ctx, tenant, resourceID); err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, resourceID)
			return ErrResourceNotFound
		}
		s.logger.Error("%s: failed to get resource id=%d: %v", op, resourceID, err)
		return fmt.Errorf("%w: %s - get resource: %w", ErrInternal, op, err)
	}
	return nil
}
