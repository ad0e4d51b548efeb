package validate_booking

import (
	"context"
	"encoding/json"
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
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeValidator struct {
	called bool
	got    availability.ValidateRequest
	err    error
}

func (f *fakeValidator) Validate(_ context.Context, _ domain.Tenant, req availability.ValidateRequest) error {
	f.called = true
	f.got = req
	return f.err
}

const body = `{"locationId":1,"resourceIds":[2],"serviceIds":[10],"startAt":"2026-10-21T10:00:00+03:00","excludeBookingId":5}`

func serve(v *fakeValidator, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bookings/validate", strings.NewReader(payload))
	req = req.WithContext(middleware.WithTenant(req.Context(),
		domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}))
	rec := httptest.NewRecorder()
	NewHandler(v, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Available(t *testing.T) {
	v := &fakeValidator{}

	rec := serve(v, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":true}`, rec.Body.String())

	assert.Equal(t, int64(1), v.got.LocationID)
	assert.Equal(t, []int64{2}, v.got.ResourceIDs)
	assert.Equal(t, []int64{10}, v.got.ServiceIDs)
	assert.True(t, time.Date(2026, 10, 21, 7, 0, 0, 0, time.UTC).Equal(v.got.Start))
	require.NotNil(t, v.got.ExcludeBookingID)
	assert.Equal(t, int64(5), *v.got.ExcludeBookingID)
}

func TestHandle_Unavailable(t *testing.T) {
	v := &fakeValidator{err: &availability.ValidationError{
		ResourceID:   2,
		ResourceName: "Ana",
		Reason:       availability.ErrBlockInEffect,
		Detail:       "almuerzo",
	}}

	rec := serve(v, body)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.UnavailableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.ResourceID)
	assert.Equal(t, availability.ErrBlockInEffect.Error(), resp.Reason)
	assert.Equal(t, "almuerzo", resp.Detail)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: availability.ErrInvalidInput, want: http.StatusBadRequest},
		{err: availability.ErrInvalidDuration, want: http.StatusBadRequest},
		{err: availability.ErrResourceNotAtLocation, want: http.StatusBadRequest},
		{err: availability.ErrResourceNotFound, want: http.StatusNotFound},
		{err: availability.ErrLocationNotFound, want: http.StatusNotFound},
		{err: availability.ErrInternal, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeValidator{err: tt.err}, body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_BadBody(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":      "{",
		"unknown field": `{"locationId":1,"clientName":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			v := &fakeValidator{}
			rec := serve(v, payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, v.called)
		})
	}
}

func TestHandle_MissingTenant(t *testing.T) {
	v := &fakeValidator{}
	req := httptest.NewRequest(http.MethodPost, "/bookings/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	NewHandler(v, nopLogger{}).Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, v.called)
}
