package find_next_available

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	called bool
	got    availability.FindNextRequest
	resp   []availability.NextSlot
	err    error
}

func (f *fakeService) FindNext(_ context.Context, _ domain.Tenant, req availability.FindNextRequest) ([]availability.NextSlot, error) {
	f.called = true
	f.got = req
	return f.resp, f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/locations/{locationId}/next-available", NewHandler(svc, nopLogger{}).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithTenant(req.Context(),
		domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_FoundSlots(t *testing.T) {
	start := time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{resp: []availability.NextSlot{
		{ResourceID: 2, ResourceName: "Ana", Start: start, End: start.Add(30 * time.Minute)},
	}}

	rec := serve(svc, "/locations/1/next-available?serviceIds=10,11&limit=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, availability.FindNextRequest{ServiceIDs: []int64{10, 11}, LocationID: 1, Limit: 3}, svc.got)

	var resp NextAvailableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.LocationID)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "Ana", resp.Slots[0].ResourceName)
	assert.Equal(t, "2026-10-21T09:00:00Z", resp.Slots[0].StartAt)
	assert.Equal(t, "2026-10-21T09:30:00Z", resp.Slots[0].EndAt)
}

func TestHandle_DefaultLimitIsZero(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/locations/1/next-available?serviceIds=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, svc.got.Limit)
}

func TestHandle_BadParams(t *testing.T) {
	tests := map[string]string{
		"bad location id":  "/locations/abc/next-available?serviceIds=10",
		"missing services": "/locations/1/next-available",
		"bad service ids":  "/locations/1/next-available?serviceIds=10,x",
		"negative limit":   "/locations/1/next-available?serviceIds=10&limit=-1",
		"non numeric":      "/locations/1/next-available?serviceIds=10&limit=many",
	}
	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{}
			rec := serve(svc, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, svc.called)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: availability.ErrLocationNotFound, want: http.StatusNotFound},
		{err: availability.ErrServiceNotFound, want: http.StatusNotFound},
		{err: availability.ErrServiceNotAtLocation, want: http.StatusBadRequest},
		{err: availability.ErrInternal, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "/locations/1/next-available?serviceIds=10")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
