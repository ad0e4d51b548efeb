package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
// Время окончания бронирования нигде не хранится: оно вычисляется как
// start_at + сумма длительностей привязанных в данный момент услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListOverlapping получает интервалы бронирований ресурса, пересекающие [filter.From, filter.To)
// Без filter.Statuses учитываются только занимающие время статусы (pending, confirmed)
//
// Пересечение проверяется по вычисленному окончанию, поэтому условие на конец стоит в HAVING:
//
//	start_at < to AND start_at + SUM(duration) > from
func (r *Repository) ListOverlapping(ctx context.Context, tenant domain.Tenant, filter domain.OverlapFilter) ([]domain.BookingInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = domain.BlockingStatuses
	}
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	const endExpr = "b.start_at + SUM(s.duration_minutes) * INTERVAL '1 minute'"

	selectBuilder := psqlbuilder.Select("b.id", "b.start_at", endExpr+" AS end_at", "b.status").
		From(psqlbuilder.Table(tenant.Schema, "bookings") + " b").
		Join(psqlbuilder.Table(tenant.Schema, "booking_resources") + " br ON br.booking_id = b.id").
		Join(psqlbuilder.Table(tenant.Schema, "booking_services") + " bs ON bs.booking_id = b.id").
		Join(psqlbuilder.Table(tenant.Schema, "services") + " s ON s.id = bs.service_id").
		Where(squirrel.Eq{"br.resource_id": filter.ResourceID}).
		Where(squirrel.Eq{"b.status": statusStrings}).
		Where(squirrel.Lt{"b.start_at": filter.To})

	if filter.LocationID != 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.location_id": filter.LocationID})
	}
	if filter.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.id": *filter.ExcludeBookingID})
	}

	query, args, err := selectBuilder.
		GroupBy("b.id").
		Having(squirrel.Expr(endExpr+" > ?", filter.From)).
		OrderBy("b.start_at ASC", "b.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.BookingInterval, 0)
	for rows.Next() {
		var bi domain.BookingInterval
		if err := rows.Scan(&bi.BookingID, &bi.StartAt, &bi.EndAt, &bi.Status); err != nil {
			return nil, fmt.Errorf("%w: ListOverlapping - scan interval: %w", ErrScanRow, err)
		}
		intervals = append(intervals, bi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - rows error: %w", ErrScanRow, err)
	}

	return intervals, nil
}

// LockResources берёт строковые блокировки ресурсов (SELECT ... FOR UPDATE) до конца транзакции
// ID сортируются, чтобы параллельные транзакции брали блокировки в одном порядке и не ловили deadlock
// Возвращает ID реально найденных ресурсов; отсутствующие проверяет валидатор
func (r *Repository) LockResources(ctx context.Context, tenant domain.Tenant, resourceIDs []int64) ([]int64, error) {
	if len(resourceIDs) == 0 {
		return []int64{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	sorted := make([]int64, len(resourceIDs))
	copy(sorted, resourceIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	query, args, err := psqlbuilder.Select("id").
		From(psqlbuilder.Table(tenant.Schema, "resources")).
		Where(squirrel.Eq{"id": sorted}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockResources - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: LockResources - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	locked := make([]int64, 0, len(sorted))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: LockResources - scan id: %w", ErrScanRow, err)
		}
		locked = append(locked, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: LockResources - rows error: %w", ErrScanRow, err)
	}

	return locked, nil
}

// Create создает бронирование вместе со связями на ресурсы и услуги
// Вызывается внутри транзакции usecase'а создания бронирования
func (r *Repository) Create(ctx context.Context, tenant domain.Tenant, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(psqlbuilder.Table(tenant.Schema, "bookings")).
		Columns(
			"location_id",
			"start_at",
			"status",
			"client_name",
			"client_phone",
			"client_email",
			"notes",
		).
		Values(
			booking.LocationID,
			booking.StartAt,
			booking.Status,
			booking.ClientName,
			booking.ClientPhone,
			booking.ClientEmail,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if err := r.insertLinks(ctx, executor, tenant, booking.ID, booking.ResourceIDs, booking.ServiceIDs); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID с вычисленной длительностью
// forUpdate блокирует строку бронирования до конца транзакции
func (r *Repository) GetByID(ctx context.Context, tenant domain.Tenant, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings(tenant).Where(squirrel.Eq{"b.id": id})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListByLocation получает бронирования локации с фильтрацией
// Поддерживает фильтрацию по:
// - ресурсу (ResourceID) - опционально
// - периоду начала [From, To) - опционально
// - статусу (Status) - опционально
//
// Сортировка по времени начала (ASC)
func (r *Repository) ListByLocation(ctx context.Context, tenant domain.Tenant, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings(tenant).
		Where(squirrel.Eq{"b.location_id": filter.LocationID}).
		OrderBy("b.start_at ASC", "b.id ASC")

	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM "+psqlbuilder.Table(tenant.Schema, "booking_resources")+
				" x WHERE x.booking_id = b.id AND x.resource_id = ?)",
			*filter.ResourceID,
		))
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.start_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"b.start_at": *filter.To})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByLocation - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus обновляет статус бронирования
// При переходе в cancelled проставляется cancelled_at
func (r *Repository) UpdateStatus(ctx context.Context, tenant domain.Tenant, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(psqlbuilder.Table(tenant.Schema, "bookings")).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if status == domain.StatusCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Reschedule переносит бронирование: новое время начала и новый набор ресурсов и услуг
// Связи пересоздаются целиком
func (r *Repository) Reschedule(ctx context.Context, tenant domain.Tenant, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(psqlbuilder.Table(tenant.Schema, "bookings")).
		Set("start_at", booking.StartAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reschedule - execute update: %w", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	for _, linkTable := range []string{"booking_resources", "booking_services"} {
		query, args, err := psqlbuilder.Delete(psqlbuilder.Table(tenant.Schema, linkTable)).
			Where(squirrel.Eq{"booking_id": booking.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Reschedule - build delete %s: %w", ErrBuildQuery, linkTable, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Reschedule - delete %s: %w", ErrExecQuery, linkTable, err)
		}
	}

	if err := r.insertLinks(ctx, executor, tenant, booking.ID, booking.ResourceIDs, booking.ServiceIDs); err != nil {
		return fmt.Errorf("Reschedule: %w", err)
	}

	return nil
}

func (r *Repository) insertLinks(ctx context.Context, executor DBExecutor, tenant domain.Tenant, bookingID int64, resourceIDs, serviceIDs []int64) error {
	links := []struct {
		table  string
		column string
		ids    []int64
	}{
		{table: "booking_resources", column: "resource_id", ids: resourceIDs},
		{table: "booking_services", column: "service_id", ids: serviceIDs},
	}

	for _, link := range links {
		if len(link.ids) == 0 {
			continue
		}

		insertBuilder := psqlbuilder.Insert(psqlbuilder.Table(tenant.Schema, link.table)).
			Columns("booking_id", link.column)
		for _, id := range link.ids {
			insertBuilder = insertBuilder.Values(bookingID, id)
		}

		query, args, err := insertBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: insert %s: %w", ErrBuildQuery, link.table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: insert %s: %w", ErrExecQuery, link.table, err)
		}
	}

	return nil
}

func (r *Repository) selectBookings(tenant domain.Tenant) squirrel.SelectBuilder {
	resources := psqlbuilder.Table(tenant.Schema, "booking_resources")
	bookingServices := psqlbuilder.Table(tenant.Schema, "booking_services")
	services := psqlbuilder.Table(tenant.Schema, "services")

	return psqlbuilder.Select(
		"b.id",
		"b.location_id",
		"b.start_at",
		"b.status",
		"b.client_name",
		"b.client_phone",
		"b.client_email",
		"b.notes",
		"b.cancelled_at",
		"b.created_at",
		"b.updated_at",
		"COALESCE((SELECT array_agg(resource_id ORDER BY resource_id) FROM "+resources+" WHERE booking_id = b.id), '{}')",
		"COALESCE((SELECT array_agg(service_id ORDER BY service_id) FROM "+bookingServices+" WHERE booking_id = b.id), '{}')",
		"COALESCE((SELECT SUM(s.duration_minutes) FROM "+bookingServices+" bs JOIN "+services+" s ON s.id = bs.service_id WHERE bs.booking_id = b.id), 0)",
	).
		From(psqlbuilder.Table(tenant.Schema, "bookings") + " b")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		resourceIDs pq.Int64Array
		serviceIDs  pq.Int64Array
	)

	err := row.Scan(
		&b.ID,
		&b.LocationID,
		&b.StartAt,
		&b.Status,
		&b.ClientName,
		&b.ClientPhone,
		&b.ClientEmail,
		&b.Notes,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
		&resourceIDs,
		&serviceIDs,
		&b.TotalDurationMinutes,
	)
	if err != nil {
		return nil, err
	}

	b.ResourceIDs = []int64(resourceIDs)
	b.ServiceIDs = []int64(serviceIDs)

	return &b, nil
}
