package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

var testTenant = domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	stored      map[int64]*domain.Booking
	locked      [][]int64
	forUpdate   []bool
	rescheduled []*domain.Booking
}

func (r *fakeBookingRepo) GetByID(_ context.Context, _ domain.Tenant, id int64, forUpdate bool) (*domain.Booking, error) {
	r.forUpdate = append(r.forUpdate, forUpdate)
	b, ok := r.stored[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) LockResources(_ context.Context, _ domain.Tenant, ids []int64) ([]int64, error) {
	r.locked = append(r.locked, ids)
	return ids, nil
}

func (r *fakeBookingRepo) Reschedule(_ context.Context, _ domain.Tenant, b *domain.Booking) error {
	r.rescheduled = append(r.rescheduled, b)
	copied := *b
	r.stored[b.ID] = &copied
	return nil
}

type fakeOutbox struct {
	events []string
}

func (o *fakeOutbox) InsertBookingEvent(_ context.Context, _ domain.Tenant, eventType string, _ *domain.Booking) error {
	o.events = append(o.events, eventType)
	return nil
}

type fakeValidator struct {
	err  error
	reqs []availability.ValidateRequest
}

func (v *fakeValidator) Validate(_ context.Context, _ domain.Tenant, req availability.ValidateRequest) error {
	v.reqs = append(v.reqs, req)
	return v.err
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newUseCase(status domain.BookingStatus) (*UseCase, *fakeBookingRepo, *fakeOutbox, *fakeValidator) {
	repo := &fakeBookingRepo{stored: map[int64]*domain.Booking{
		7: {
			ID:                   7,
			LocationID:           1,
			ResourceIDs:          []int64{1},
			ServiceIDs:           []int64{10},
			StartAt:              time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
			Status:               status,
			TotalDurationMinutes: 30,
		},
	}}
	outbox := &fakeOutbox{}
	validator := &fakeValidator{}
	uc := NewUseCase(repo, outbox, validator, fakeTxManager{}, nopLogger{}).
		WithTimeProvider(fixedClock{now: now})
	return uc, repo, outbox, validator
}

func TestExecute_MovesBookingExcludingItself(t *testing.T) {
	uc, repo, outbox, validator := newUseCase(domain.StatusConfirmed)
	newStart := time.Date(2026, 10, 19, 9, 15, 0, 0, time.UTC)

	resp, err := uc.Execute(context.Background(), testTenant, &Request{BookingID: 7, StartAt: newStart})
	require.NoError(t, err)

	require.Len(t, validator.reqs, 1)
	req := validator.reqs[0]
	require.NotNil(t, req.ExcludeBookingID)
	assert.Equal(t, int64(7), *req.ExcludeBookingID)
	assert.Equal(t, int64(1), req.LocationID)
	assert.Equal(t, []int64{1}, req.ResourceIDs)
	assert.Equal(t, []int64{10}, req.ServiceIDs)
	assert.True(t, newStart.Equal(req.Start))

	assert.Equal(t, []bool{true, false}, repo.forUpdate)
	assert.Equal(t, [][]int64{{1}}, repo.locked)
	assert.Equal(t, []string{domain.EventBookingRescheduled}, outbox.events)
	assert.True(t, newStart.Equal(resp.StartAt))
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_ReplacesResourcesAndServices(t *testing.T) {
	uc, repo, _, validator := newUseCase(domain.StatusPending)

	_, err := uc.Execute(context.Background(), testTenant, &Request{
		BookingID:   7,
		StartAt:     time.Date(2026, 10, 20, 11, 0, 0, 0, time.UTC),
		ResourceIDs: []int64{2, 4},
		ServiceIDs:  []int64{10, 11},
	})
	require.NoError(t, err)

	assert.Equal(t, [][]int64{{2, 4}}, repo.locked)
	assert.Equal(t, []int64{2, 4}, validator.reqs[0].ResourceIDs)
	require.Len(t, repo.rescheduled, 1)
	assert.Equal(t, []int64{10, 11}, repo.rescheduled[0].ServiceIDs)
}

func TestExecute_TerminalStatusesCannotMove(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusAttended, domain.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			uc, repo, outbox, validator := newUseCase(status)

			_, err := uc.Execute(context.Background(), testTenant, &Request{
				BookingID: 7,
				StartAt:   time.Date(2026, 10, 20, 11, 0, 0, 0, time.UTC),
			})

			assert.ErrorIs(t, err, ErrNotReschedulable)
			assert.Empty(t, validator.reqs)
			assert.Empty(t, repo.rescheduled)
			assert.Empty(t, outbox.events)
		})
	}
}

func TestExecute_ConflictKeepsBooking(t *testing.T) {
	uc, repo, outbox, validator := newUseCase(domain.StatusConfirmed)
	validator.err = &availability.ValidationError{ResourceID: 1, ResourceName: "Ana", Reason: availability.ErrBlockInEffect, Detail: "almuerzo"}

	_, err := uc.Execute(context.Background(), testTenant, &Request{
		BookingID: 7,
		StartAt:   time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, availability.ErrBlockInEffect)
	assert.Empty(t, repo.rescheduled)
	assert.Empty(t, outbox.events)
}

func TestExecute_Errors(t *testing.T) {
	uc, _, _, _ := newUseCase(domain.StatusConfirmed)

	_, err := uc.Execute(context.Background(), testTenant, &Request{BookingID: 99, StartAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = uc.Execute(context.Background(), testTenant, &Request{BookingID: 7, StartAt: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrStartInPast)

	_, err = uc.Execute(context.Background(), testTenant, &Request{BookingID: 0, StartAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), testTenant, &Request{BookingID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
