package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const organizationsTable = "public.organizations"

// Repository реестр организаций в схеме public
// Это единственный репозиторий, работающий вне схемы арендатора
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр реестра арендаторов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlug возвращает организацию по slug (значение заголовка X-Organization)
// Неактивные организации тоже возвращаются: решение о доступе принимает вызывающий код
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "slug", "schema_name", "active").
		From(organizationsTable).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - build select query: %w", ErrBuildQuery, err)
	}

	var t domain.Tenant
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Slug, &t.Schema, &t.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - scan organization: %w", ErrScanRow, err)
	}

	return &t, nil
}
