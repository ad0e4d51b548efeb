package schedule

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "schedule_entries"

// Repository недельное расписание ресурсов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByResourceAndWeekdays получает записи расписания ресурса на указанные дни недели
// Без weekdays возвращает всё недельное расписание ресурса
// Порядок: день недели, время начала
func (r *Repository) ListByResourceAndWeekdays(ctx context.Context, tenant domain.Tenant, resourceID int64, weekdays ...int) ([]domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "resource_id", "weekday", "start_time", "end_time").
		From(psqlbuilder.Table(tenant.Schema, table)).
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("weekday ASC", "start_time ASC")

	if len(weekdays) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"weekday": weekdays})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResourceAndWeekdays - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResourceAndWeekdays - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.ScheduleEntry, 0)
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.ResourceID, &e.Weekday, &e.StartTime, &e.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListByResourceAndWeekdays - scan entry: %w", ErrScanRow, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByResourceAndWeekdays - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}

// ReplaceForResource заменяет недельное расписание ресурса целиком
// Должен вызываться внутри транзакции, иначе между DELETE и INSERT расписание окажется пустым
func (r *Repository) ReplaceForResource(ctx context.Context, tenant domain.Tenant, resourceID int64, entries []domain.ScheduleEntry) ([]domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(psqlbuilder.Table(tenant.Schema, table)).
		Where(squirrel.Eq{"resource_id": resourceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForResource - build delete query: %w", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceForResource - execute delete: %w", ErrExecQuery, err)
	}

	if len(entries) == 0 {
		return []domain.ScheduleEntry{}, nil
	}

	insertBuilder := psqlbuilder.Insert(psqlbuilder.Table(tenant.Schema, table)).
		Columns("resource_id", "weekday", "start_time", "end_time").
		Suffix("RETURNING id, resource_id, weekday, start_time, end_time")
	for _, e := range entries {
		insertBuilder = insertBuilder.Values(resourceID, e.Weekday, e.StartTime, e.EndTime)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForResource - build insert query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForResource - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	saved := make([]domain.ScheduleEntry, 0, len(entries))
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.ResourceID, &e.Weekday, &e.StartTime, &e.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ReplaceForResource - scan entry: %w", ErrScanRow, err)
		}
		saved = append(saved, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplaceForResource - rows error: %w", ErrScanRow, err)
	}

	return saved, nil
}
