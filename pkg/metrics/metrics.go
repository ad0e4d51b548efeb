package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCount      *prometheus.GaugeVec
	DBTxRetriesTotal *prometheus.CounterVec

	// Домен
	SlotComputationsTotal *prometheus.CounterVec
	ValidationRejections  *prometheus.CounterVec
	BookingsCreatedTotal  *prometheus.CounterVec
	OutboxPublishedTotal  *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики в указанном реестре (используется в тестах)
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBTxRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Transactions retried after serialization failure or deadlock",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		SlotComputationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_computations_total",
			Help:        "Day slot grids computed by the availability engine",
			ConstLabels: constLabels,
		}, []string{"source"}),
		ValidationRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_validation_rejections_total",
			Help:        "Bookings rejected by the conflict validator",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		BookingsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings persisted",
			ConstLabels: constLabels,
		}, []string{"status"}),
		OutboxPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "outbox_events_published_total",
			Help:        "Notification events published to Kafka",
			ConstLabels: constLabels,
		}, []string{"event_type"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.DBWaitCount,
		m.DBTxRetriesTotal,
		m.SlotComputationsTotal,
		m.ValidationRejections,
		m.BookingsCreatedTotal,
		m.OutboxPublishedTotal,
	)

	return m
}

// IncValidationRejection учитывает отказ валидатора (nil-safe)
func (m *Metrics) IncValidationRejection(reason string) {
	if m == nil {
		return
	}
	m.ValidationRejections.WithLabelValues(reason).Inc()
}

// IncSlotComputation учитывает расчет сетки слотов (nil-safe)
func (m *Metrics) IncSlotComputation(source string) {
	if m == nil {
		return
	}
	m.SlotComputationsTotal.WithLabelValues(source).Inc()
}

// IncBookingCreated учитывает созданное бронирование (nil-safe)
func (m *Metrics) IncBookingCreated(status string) {
	if m == nil {
		return
	}
	m.BookingsCreatedTotal.WithLabelValues(status).Inc()
}

// IncOutboxPublished учитывает опубликованное событие (nil-safe)
func (m *Metrics) IncOutboxPublished(eventType string) {
	if m == nil {
		return
	}
	m.OutboxPublishedTotal.WithLabelValues(eventType).Inc()
}

// IncTxRetry учитывает повтор транзакции (nil-safe)
func (m *Metrics) IncTxRetry(reason string) {
	if m == nil {
		return
	}
	m.DBTxRetriesTotal.WithLabelValues(reason).Inc()
}
