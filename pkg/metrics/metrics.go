package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec
	txRetries       prometheus.Counter

	reservationsCreated    *prometheus.CounterVec
	reservationConflicts   *prometheus.CounterVec
	reservationTransitions *prometheus.CounterVec
	featureFlagCache       *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database operations",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Serializable transactions retried after a serialization failure or deadlock",
			ConstLabels: constLabels,
		}),

		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations created, by initial status",
			ConstLabels: constLabels,
		}, []string{"status"}),

		reservationConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_conflicts_total",
			Help:        "Rejected reservation writes due to slot conflicts",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		reservationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_status_transitions_total",
			Help:        "Applied reservation status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),

		featureFlagCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "feature_flag_cache_requests_total",
			Help:        "Feature flag cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.txRetries,
		m.reservationsCreated,
		m.reservationConflicts,
		m.reservationTransitions,
		m.featureFlagCache,
	)

	return m
}

// Handler возвращает HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает выполнение операции с БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

// IncTxRetry учитывает повтор сериализуемой транзакции
func (m *Metrics) IncTxRetry() {
	if m == nil {
		return
	}
	m.txRetries.Inc()
}

// IncReservationCreated учитывает созданное бронирование
func (m *Metrics) IncReservationCreated(status string) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(status).Inc()
}

// IncReservationConflict учитывает отказ из-за пересечения слотов
func (m *Metrics) IncReservationConflict(operation string) {
	if m == nil {
		return
	}
	m.reservationConflicts.WithLabelValues(operation).Inc()
}

// IncStatusTransition учитывает смену статуса бронирования
func (m *Metrics) IncStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.reservationTransitions.WithLabelValues(from, to).Inc()
}

// IncFeatureFlagCache учитывает обращение к кэшу флагов (hit, miss, error)
func (m *Metrics) IncFeatureFlagCache(result string) {
	if m == nil {
		return
	}
	m.featureFlagCache.WithLabelValues(result).Inc()
}
