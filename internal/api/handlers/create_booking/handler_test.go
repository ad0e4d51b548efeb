package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, _ domain.Tenant, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

var acme = domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}

const body = `{
	"locationId": 1,
	"resourceIds": [1],
	"serviceIds": [10, 11],
	"startAt": "2026-10-21T10:00:00+03:00",
	"clientName": "Ana"
}`

func serve(uc *fakeUseCase, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload))
	req = req.WithContext(middleware.WithTenant(req.Context(), acme))
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2026, 10, 21, 10, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:              7,
		LocationID:      1,
		ResourceIDs:     []int64{1},
		ServiceIDs:      []int64{10, 11},
		StartAt:         start,
		EndAt:           start.Add(45 * time.Minute),
		DurationMinutes: 45,
		Status:          "pending",
		ClientName:      "Ana",
	}}

	rec := serve(uc, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int64{10, 11}, uc.got.ServiceIDs)
	assert.True(t, uc.got.StartAt.Equal(start))

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2026-10-21T10:45:00+03:00", resp.EndAt)
	assert.Equal(t, 45, resp.DurationMinutes)
}

func TestHandle_ConflictCarriesReason(t *testing.T) {
	uc := &fakeUseCase{err: &availability.ValidationError{
		ResourceID:   1,
		ResourceName: "Maria",
		Reason:       availability.ErrOverlappingBooking,
		Detail:       "booking id=3",
	}}

	rec := serve(uc, body)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.UnavailableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ResourceID)
	assert.Equal(t, "Maria", resp.ResourceName)
	assert.Equal(t, availability.ErrOverlappingBooking.Error(), resp.Reason)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: createBooking.ErrInvalidInput, want: http.StatusBadRequest},
		{err: createBooking.ErrStartInPast, want: http.StatusBadRequest},
		{err: availability.ErrLocationNotFound, want: http.StatusNotFound},
		{err: availability.ErrServiceNotAtLocation, want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: boom", createBooking.ErrInternal), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_RejectsUnknownFields(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, `{"locationId": 1, "userId": 5}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}
