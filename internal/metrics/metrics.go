package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Ledger Metrics
	BalanceMutations    *prometheus.CounterVec
	MutationErrors      *prometheus.CounterVec
	TransactionsCreated *prometheus.CounterVec
	TransactionErrors   *prometheus.CounterVec
	CurrentUserBalances *prometheus.GaugeVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec

	// System Metrics
	ServiceUptime    prometheus.Gauge
	Goroutines       prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec

	// Validation Metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppobledger_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ppobledger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ppobledger_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		BalanceMutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppobledger_balance_mutations_total",
				Help: "Total number of committed balance mutations",
			},
			[]string{"type", "direction"},
		),
		MutationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppobledger_balance_mutation_errors_total",
				Help: "Total number of rejected or failed balance mutations",
			},
			[]string{"type"},
		),
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppobledger_transactions_created_total",
				Help: "Total number of transactions created by settlement outcome",
			},
			[]string{"status"},
		),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppobledger_transaction_errors_total",
				Help: "Total number of transaction operation errors",
			},
			[]string{"operation", "error_code"},
		),
		CurrentUserBalances: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ppobledger_current_user_balances",
				Help: "Last observed balance per user",
			},
			[]string{"user_id"},
		),

		DBConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ppobledger_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ppobledger_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ppobledger_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppobledger_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),

		ServiceUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ppobledger_service_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ppobledger_goroutines",
				Help: "Number of goroutines currently running",
			},
		),
		MemoryUsageBytes: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ppobledger_memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
			[]string{"type"},
		),

		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppobledger_validation_errors_total",
				Help: "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
		ValidationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ppobledger_validation_duration_seconds",
				Help:    "Duration of validation operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"endpoint"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordBalanceMutation(logType, direction string) {
	m.BalanceMutations.WithLabelValues(logType, direction).Inc()
}

func (m *Metrics) RecordMutationError(logType string) {
	m.MutationErrors.WithLabelValues(logType).Inc()
}

func (m *Metrics) RecordTransactionCreated(status string) {
	m.TransactionsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordTransactionError(operation, errorCode string) {
	m.TransactionErrors.WithLabelValues(operation, errorCode).Inc()
}

func (m *Metrics) UpdateUserBalance(userID string, balance int64) {
	m.CurrentUserBalances.WithLabelValues(userID).Set(float64(balance))
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) RecordValidationDuration(endpoint string, duration time.Duration) {
	m.ValidationDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// UpdateSystemMetrics updates uptime, goroutine and memory gauges.
func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))

	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	m.MemoryUsageBytes.WithLabelValues("heap_sys").Set(float64(memStats.HeapSys))
}
