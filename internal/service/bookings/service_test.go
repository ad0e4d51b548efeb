package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var testTenant = domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}

type fakeBookingRepo struct {
	stored  map[int64]*domain.Booking
	filters []domain.LocationBookingsFilter
	listErr error
}

func (r *fakeBookingRepo) GetByID(_ context.Context, _ domain.Tenant, id int64, _ bool) (*domain.Booking, error) {
	b, ok := r.stored[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) ListByLocation(_ context.Context, _ domain.Tenant, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	r.filters = append(r.filters, filter)
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []*domain.Booking
	for _, b := range r.stored {
		if b.LocationID == filter.LocationID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ domain.Tenant, id int64, status domain.BookingStatus) error {
	b, ok := r.stored[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type fakeOutbox struct {
	events []string
}

func (o *fakeOutbox) InsertBookingEvent(_ context.Context, _ domain.Tenant, eventType string, _ *domain.Booking) error {
	o.events = append(o.events, eventType)
	return nil
}

type fakeTxManager struct{ calls int }

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(status domain.BookingStatus) (*Service, *fakeBookingRepo, *fakeOutbox) {
	repo := &fakeBookingRepo{stored: map[int64]*domain.Booking{
		1: {
			ID:                   1,
			LocationID:           3,
			ResourceIDs:          []int64{5},
			ServiceIDs:           []int64{10, 11},
			StartAt:              time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
			Status:               status,
			TotalDurationMinutes: 75,
			ClientName:           "Ana",
		},
	}}
	outbox := &fakeOutbox{}
	return NewService(repo, outbox, &fakeTxManager{}, nopLogger{}), repo, outbox
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newService(domain.StatusPending)

	resp, err := svc.GetByID(context.Background(), testTenant, 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19T09:00:00Z", resp.StartAt)
	assert.Equal(t, "2026-10-19T10:15:00Z", resp.EndAt)
	assert.Equal(t, 75, resp.DurationMinutes)

	_, err = svc.GetByID(context.Background(), testTenant, 2)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    domain.BookingStatus
		to      domain.BookingStatus
		allowed bool
		event   string
	}{
		{from: domain.StatusPending, to: domain.StatusConfirmed, allowed: true, event: domain.EventBookingConfirmed},
		{from: domain.StatusPending, to: domain.StatusCancelled, allowed: true, event: domain.EventBookingCancelled},
		{from: domain.StatusPending, to: domain.StatusNoShow, allowed: true, event: domain.EventBookingStatusChanged},
		{from: domain.StatusPending, to: domain.StatusAttended, allowed: false},
		{from: domain.StatusConfirmed, to: domain.StatusAttended, allowed: true, event: domain.EventBookingStatusChanged},
		{from: domain.StatusConfirmed, to: domain.StatusCancelled, allowed: true, event: domain.EventBookingCancelled},
		{from: domain.StatusConfirmed, to: domain.StatusPending, allowed: false},
		{from: domain.StatusCancelled, to: domain.StatusConfirmed, allowed: false},
		{from: domain.StatusAttended, to: domain.StatusCancelled, allowed: false},
		{from: domain.StatusNoShow, to: domain.StatusConfirmed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			svc, repo, outbox := newService(tt.from)

			resp, err := svc.UpdateStatus(context.Background(), testTenant, 1, &models.UpdateStatusRequest{Status: string(tt.to)})

			if !tt.allowed {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, repo.stored[1].Status)
				assert.Empty(t, outbox.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.to), resp.Status)
			assert.Equal(t, []string{tt.event}, outbox.events)
		})
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc, _, _ := newService(domain.StatusPending)

	_, err := svc.UpdateStatus(context.Background(), testTenant, 1, &models.UpdateStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), testTenant, 42, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	svc, _, outbox := newService(domain.StatusConfirmed)

	resp, err := svc.Cancel(context.Background(), testTenant, 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, []string{domain.EventBookingCancelled}, outbox.events)
}

func TestListByLocation(t *testing.T) {
	svc, repo, _ := newService(domain.StatusPending)
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	resp, err := svc.ListByLocation(context.Background(), testTenant, &models.ListLocationBookingsRequest{
		LocationID: 3,
		ResourceID: ptr.Ptr(int64(5)),
		From:       &from,
		To:         &to,
		Status:     ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	require.Len(t, repo.filters, 1)
	assert.Equal(t, domain.StatusPending, *repo.filters[0].Status)
	assert.Equal(t, int64(5), *repo.filters[0].ResourceID)

	empty, err := svc.ListByLocation(context.Background(), testTenant, &models.ListLocationBookingsRequest{LocationID: 4})
	require.NoError(t, err)
	assert.NotNil(t, empty.Bookings)
	assert.Empty(t, empty.Bookings)
}

func TestListByLocation_Errors(t *testing.T) {
	svc, repo, _ := newService(domain.StatusPending)
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	_, err := svc.ListByLocation(context.Background(), testTenant, &models.ListLocationBookingsRequest{LocationID: 3, From: &from, To: &from})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.ListByLocation(context.Background(), testTenant, &models.ListLocationBookingsRequest{LocationID: 3, Status: ptr.Ptr("done")})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.ListByLocation(context.Background(), testTenant, &models.ListLocationBookingsRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.listErr = errors.New("timeout")
	_, err = svc.ListByLocation(context.Background(), testTenant, &models.ListLocationBookingsRequest{LocationID: 3})
	assert.ErrorIs(t, err, ErrInternal)
}
