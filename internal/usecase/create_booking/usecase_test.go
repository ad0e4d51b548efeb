package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var testTenant = domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}

type recorder struct {
	calls []string
}

type fakeBookingRepo struct {
	rec       *recorder
	lockErr   error
	createErr error
	locked    [][]int64
	stored    map[int64]*domain.Booking
	nextID    int64
}

func (r *fakeBookingRepo) LockResources(_ context.Context, _ domain.Tenant, ids []int64) ([]int64, error) {
	r.rec.calls = append(r.rec.calls, "lock")
	r.locked = append(r.locked, ids)
	return ids, r.lockErr
}

func (r *fakeBookingRepo) Create(_ context.Context, _ domain.Tenant, b *domain.Booking) (*domain.Booking, error) {
	r.rec.calls = append(r.rec.calls, "create")
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	b.ID = r.nextID
	r.stored[b.ID] = b
	return b, nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, _ domain.Tenant, id int64, _ bool) (*domain.Booking, error) {
	r.rec.calls = append(r.rec.calls, "get")
	b, ok := r.stored[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *b
	copied.TotalDurationMinutes = 45
	return &copied, nil
}

type fakeOutbox struct {
	rec    *recorder
	events []string
}

func (o *fakeOutbox) InsertBookingEvent(_ context.Context, _ domain.Tenant, eventType string, _ *domain.Booking) error {
	o.rec.calls = append(o.rec.calls, "outbox")
	o.events = append(o.events, eventType)
	return nil
}

type fakeValidator struct {
	rec  *recorder
	err  error
	reqs []availability.ValidateRequest
}

func (v *fakeValidator) Validate(_ context.Context, _ domain.Tenant, req availability.ValidateRequest) error {
	v.rec.calls = append(v.rec.calls, "validate")
	v.reqs = append(v.reqs, req)
	return v.err
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	rec       *recorder
	bookings  *fakeBookingRepo
	outbox    *fakeOutbox
	validator *fakeValidator
	tx        *fakeTxManager
	uc        *UseCase
}

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	rec := &recorder{}
	f := &fixture{
		rec:       rec,
		bookings:  &fakeBookingRepo{rec: rec, stored: map[int64]*domain.Booking{}},
		outbox:    &fakeOutbox{rec: rec},
		validator: &fakeValidator{rec: rec},
		tx:        &fakeTxManager{},
	}
	f.uc = NewUseCase(f.bookings, f.outbox, f.validator, f.tx, nil, nopLogger{}).
		WithTimeProvider(fixedClock{now: now})
	return f
}

func validRequest() *Request {
	return &Request{
		LocationID:  1,
		ResourceIDs: []int64{3, 1},
		ServiceIDs:  []int64{10, 11},
		StartAt:     time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		ClientName:  "  María Pérez ",
		ClientPhone: ptr.Ptr("+57 300 000 0000"),
	}
}

func TestExecute_CreatesPendingBookingAndEvent(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), testTenant, validRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"lock", "validate", "create", "get", "outbox"}, f.rec.calls)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, [][]int64{{3, 1}}, f.bookings.locked)

	require.Len(t, f.validator.reqs, 1)
	assert.Equal(t, int64(1), f.validator.reqs[0].LocationID)
	assert.Nil(t, f.validator.reqs[0].ExcludeBookingID)

	assert.Equal(t, []string{domain.EventBookingCreated}, f.outbox.events)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "María Pérez", resp.ClientName)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 45, 0, 0, time.UTC), resp.EndAt)
}

func TestExecute_ConfirmedStatusIsKept(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Status = domain.StatusConfirmed

	resp, err := f.uc.Execute(context.Background(), testTenant, req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_ConflictRejectsWithoutWriting(t *testing.T) {
	f := newFixture()
	f.validator.err = &availability.ValidationError{
		ResourceID:   1,
		ResourceName: "Ana",
		Reason:       availability.ErrOverlappingBooking,
	}

	_, err := f.uc.Execute(context.Background(), testTenant, validRequest())

	assert.ErrorIs(t, err, availability.ErrSlotUnavailable)
	assert.ErrorIs(t, err, availability.ErrOverlappingBooking)
	var verr *availability.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Ana", verr.ResourceName)

	assert.Equal(t, []string{"lock", "validate"}, f.rec.calls)
	assert.Empty(t, f.outbox.events)
}

func TestExecute_LookupErrorsPassThrough(t *testing.T) {
	f := newFixture()
	f.validator.err = availability.ErrServiceNotAtLocation

	_, err := f.uc.Execute(context.Background(), testTenant, validRequest())
	assert.ErrorIs(t, err, availability.ErrServiceNotAtLocation)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestExecute_StartMustBeInFuture(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.StartAt = now

	_, err := f.uc.Execute(context.Background(), testTenant, req)

	assert.ErrorIs(t, err, ErrStartInPast)
	assert.Zero(t, f.tx.calls)
}

func TestExecute_InternalErrors(t *testing.T) {
	t.Run("lock", func(t *testing.T) {
		f := newFixture()
		f.bookings.lockErr = errors.New("connection reset")

		_, err := f.uc.Execute(context.Background(), testTenant, validRequest())
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, []string{"lock"}, f.rec.calls)
	})

	t.Run("create", func(t *testing.T) {
		f := newFixture()
		f.bookings.createErr = errors.New("constraint")

		_, err := f.uc.Execute(context.Background(), testTenant, validRequest())
		assert.ErrorIs(t, err, ErrInternal)
		assert.Empty(t, f.outbox.events)
	})

	t.Run("validator", func(t *testing.T) {
		f := newFixture()
		f.validator.err = availability.ErrInternal

		_, err := f.uc.Execute(context.Background(), testTenant, validRequest())
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "no location", mutate: func(r *Request) { r.LocationID = 0 }},
		{name: "no resources", mutate: func(r *Request) { r.ResourceIDs = nil }},
		{name: "no services", mutate: func(r *Request) { r.ServiceIDs = nil }},
		{name: "too many services", mutate: func(r *Request) { r.ServiceIDs = make([]int64, domain.MaxServicesPerBooking+1) }},
		{name: "zero start", mutate: func(r *Request) { r.StartAt = time.Time{} }},
		{name: "blank client name", mutate: func(r *Request) { r.ClientName = "   " }},
		{name: "bad email", mutate: func(r *Request) { r.ClientEmail = ptr.Ptr("not-an-email") }},
		{name: "cancelled status", mutate: func(r *Request) { r.Status = domain.StatusCancelled }},
		{name: "unknown status", mutate: func(r *Request) { r.Status = "archived" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), testTenant, req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.tx.calls)
		})
	}
}
