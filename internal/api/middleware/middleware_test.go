package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRegistry struct {
	tenants map[string]*domain.Tenant
	err     error
}

func (r *fakeRegistry) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tenants[slug]
	if !ok {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return t, nil
}

func newRegistry() *fakeRegistry {
	return &fakeRegistry{tenants: map[string]*domain.Tenant{
		"acme":   {ID: 1, Slug: "acme", Schema: "org_acme", Active: true},
		"closed": {ID: 2, Slug: "closed", Schema: "org_closed", Active: false},
	}}
}

func TestTenant(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		err        error
		wantStatus int
		wantSchema string
	}{
		{name: "resolved", header: "acme", wantStatus: http.StatusOK, wantSchema: "org_acme"},
		{name: "case insensitive", header: " ACME ", wantStatus: http.StatusOK, wantSchema: "org_acme"},
		{name: "missing header", header: "", wantStatus: http.StatusBadRequest},
		{name: "unknown", header: "nope", wantStatus: http.StatusNotFound},
		{name: "inactive", header: "closed", wantStatus: http.StatusForbidden},
		{name: "registry failure", header: "acme", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := newRegistry()
			registry.err = tt.err

			var gotSchema string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tenant, ok := GetTenant(r.Context())
				require.True(t, ok)
				gotSchema = tenant.Schema
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
			if tt.header != "" {
				req.Header.Set(HeaderOrganization, tt.header)
			}
			rec := httptest.NewRecorder()

			Tenant(registry, nopLogger{})(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSchema, gotSchema)
		})
	}
}

func TestGetTenant_Missing(t *testing.T) {
	_, ok := GetTenant(context.Background())
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, "test")

	router := mux.NewRouter()
	router.Use(Metrics(m))
	router.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil))
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var routes []string
	var total float64
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "route" {
					routes = append(routes, label.GetValue())
				}
			}
			total += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, []string{"/bookings/{bookingId}"}, routes)
	assert.Equal(t, float64(3), total)
}

// fakeScripter эмулирует INCR с окном; остальные методы Scripter не вызываются
type fakeScripter struct {
	redis.Scripter
	counts map[string]int64
	err    error
}

func (s *fakeScripter) EvalSha(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	if s.err != nil {
		return redis.NewCmdResult(nil, s.err)
	}
	s.counts[keys[0]]++
	return redis.NewCmdResult(s.counts[keys[0]], nil)
}

func (s *fakeScripter) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return s.EvalSha(ctx, script, keys, args...)
}

func TestRateLimiter(t *testing.T) {
	rdb := &fakeScripter{counts: map[string]int64{}}
	rl := NewRateLimiter(rdb, 2, time.Minute, nopLogger{})
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rdb := &fakeScripter{counts: map[string]int64{}, err: errors.New("connection refused")}
	rl := NewRateLimiter(rdb, 1, time.Minute, nopLogger{})
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	rl, err := NewRateLimiter(&fakeScripter{}, 1, time.Minute, nopLogger{}).
		WithTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		fwd    string
		want   string
	}{
		{name: "direct connection", remote: "192.168.1.5:4000", want: "192.168.1.5"},
		{name: "forwarded header from untrusted peer is ignored", remote: "192.168.1.5:4000", fwd: "203.0.113.7", want: "192.168.1.5"},
		{name: "trusted proxy", remote: "10.0.0.1:4000", fwd: "203.0.113.7", want: "203.0.113.7"},
		{name: "spoofed first hop behind trusted proxy", remote: "10.0.0.1:4000", fwd: "1.2.3.4, 203.0.113.7, 10.0.0.2", want: "203.0.113.7"},
		{name: "trusted proxy without header", remote: "10.0.0.1:4000", want: "10.0.0.1"},
		{name: "garbage hop stops the walk", remote: "10.0.0.1:4000", fwd: "203.0.113.7, bogus", want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.fwd != "" {
				req.Header.Set("X-Forwarded-For", tt.fwd)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}

func TestRateLimiter_RotatingForwardedForDoesNotEscape(t *testing.T) {
	rdb := &fakeScripter{counts: map[string]int64{}}
	h := NewRateLimiter(rdb, 1, time.Minute, nopLogger{}).
		Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	codes := make([]int, 0, 3)
	for _, fwd := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.9:5555"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_RejectsBadProxyCIDR(t *testing.T) {
	_, err := NewRateLimiter(&fakeScripter{}, 1, time.Minute, nopLogger{}).WithTrustedProxies([]string{"10.0.0.1"})
	assert.Error(t, err)
}
