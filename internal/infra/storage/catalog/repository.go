package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository справочник локаций, ресурсов и услуг арендатора (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочника
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetLocation получает локацию по ID
func (r *Repository) GetLocation(ctx context.Context, tenant domain.Tenant, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "timezone").
		From(psqlbuilder.Table(tenant.Schema, "locations")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - build select query: %w", ErrBuildQuery, err)
	}

	var loc domain.Location
	err = executor.QueryRowContext(ctx, query, args...).Scan(&loc.ID, &loc.Name, &loc.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - scan location: %w", ErrScanRow, err)
	}

	return &loc, nil
}

// GetResource получает ресурс по ID вместе со списком его услуг
func (r *Repository) GetResource(ctx context.Context, tenant domain.Tenant, id int64) (*domain.Resource, error) {
	resources, err := r.listResources(ctx, tenant, squirrel.Eq{"r.id": id}, "GetResource")
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, ErrResourceNotFound
	}
	return resources[0], nil
}

// GetResources получает ресурсы по списку ID, упорядоченные по ID
// Отсутствующие ID просто не попадают в результат, проверку делает вызывающий код
func (r *Repository) GetResources(ctx context.Context, tenant domain.Tenant, ids []int64) ([]*domain.Resource, error) {
	if len(ids) == 0 {
		return []*domain.Resource{}, nil
	}
	return r.listResources(ctx, tenant, squirrel.Eq{"r.id": ids}, "GetResources")
}

// ListResourcesByLocation получает все ресурсы локации, упорядоченные по ID
func (r *Repository) ListResourcesByLocation(ctx context.Context, tenant domain.Tenant, locationID int64) ([]*domain.Resource, error) {
	return r.listResources(ctx, tenant, squirrel.Eq{"r.location_id": locationID}, "ListResourcesByLocation")
}

// GetServices получает услуги по списку ID, упорядоченные по ID
func (r *Repository) GetServices(ctx context.Context, tenant domain.Tenant, ids []int64) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "location_id", "name", "duration_minutes", "price").
		From(psqlbuilder.Table(tenant.Schema, "services")).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0, len(ids))
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.LocationID, &s.Name, &s.DurationMinutes, &s.Price); err != nil {
			return nil, fmt.Errorf("%w: GetServices - scan service: %w", ErrScanRow, err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

func (r *Repository) listResources(ctx context.Context, tenant domain.Tenant, where squirrel.Sqlizer, op string) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"r.id",
		"r.location_id",
		"r.name",
		"COALESCE(array_agg(rs.service_id ORDER BY rs.service_id) FILTER (WHERE rs.service_id IS NOT NULL), '{}')",
	).
		From(psqlbuilder.Table(tenant.Schema, "resources") + " r").
		LeftJoin(psqlbuilder.Table(tenant.Schema, "resource_services") + " rs ON rs.resource_id = r.id").
		Where(where).
		GroupBy("r.id").
		OrderBy("r.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		var (
			res        domain.Resource
			serviceIDs pq.Int64Array
		)
		if err := rows.Scan(&res.ID, &res.LocationID, &res.Name, &serviceIDs); err != nil {
			return nil, fmt.Errorf("%w: %s - scan resource: %w", ErrScanRow, op, err)
		}
		res.ServiceIDs = []int64(serviceIDs)
		resources = append(resources, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return resources, nil
}
