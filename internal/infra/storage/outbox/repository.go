package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Таблица общая для всех арендаторов: публикатор вычитывает одну очередь
const table = "public.outbox_events"

// Repository транзакционный outbox событий бронирований
// Insert должен выполняться в той же транзакции, что и изменение бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр outbox репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertBookingEvent сериализует бронирование в событие и пишет его в outbox
func (r *Repository) InsertBookingEvent(ctx context.Context, tenant domain.Tenant, eventType string, booking *domain.Booking) error {
	payload, err := json.Marshal(domain.NewBookingEvent(tenant, booking))
	if err != nil {
		return fmt.Errorf("%w: InsertBookingEvent - booking id=%d: %w", ErrMarshalPayload, booking.ID, err)
	}

	return r.Insert(ctx, &domain.OutboxEvent{
		TenantSlug:  tenant.Slug,
		AggregateID: booking.ID,
		EventType:   eventType,
		Payload:     payload,
	})
}

// Insert пишет событие в outbox; ID генерируется, если не задан
func (r *Repository) Insert(ctx context.Context, event *domain.OutboxEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "tenant_slug", "aggregate_id", "event_type", "payload").
		Values(event.ID, event.TenantSlug, event.AggregateID, event.EventType, event.Payload).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&event.CreatedAt); err != nil {
		return fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// FetchUnpublished выбирает пачку неопубликованных событий и блокирует их (FOR UPDATE SKIP LOCKED),
// чтобы несколько экземпляров публикатора не отправили одно событие дважды
func (r *Repository) FetchUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "tenant_slug", "aggregate_id", "event_type", "payload", "created_at").
		From(table).
		Where(squirrel.Eq{"published_at": nil}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]domain.OutboxEvent, 0, limit)
	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(&e.ID, &e.TenantSlug, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: FetchUnpublished - scan event: %w", ErrScanRow, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - rows error: %w", ErrScanRow, err)
	}

	return events, nil
}

// MarkPublished отмечает события опубликованными
func (r *Repository) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("published_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkPublished - execute update: %w", ErrExecQuery, err)
	}

	return nil
}
