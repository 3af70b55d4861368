package prometheus

import (
	"strconv"
	"time"

	"github.com/SscSPs/finn_ledger/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements MetricsCollector for Prometheus.
type PrometheusCollector struct {
	namespace string

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	repoCalls   *prometheus.CounterVec
	repoLatency *prometheus.HistogramVec
	repoRetries *prometheus.CounterVec

	circuitOpens *prometheus.CounterVec
	circuitState *prometheus.GaugeVec

	transactions *prometheus.CounterVec
	eventPublish *prometheus.CounterVec
}

// NewPrometheusCollector creates a new Prometheus metrics collector.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		namespace: namespace,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		repoCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "repository_calls_total",
				Help:      "Total number of repository calls by store, operation and outcome",
			},
			[]string{"store", "operation", "outcome"},
		),
		repoLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "repository_call_duration_seconds",
				Help:      "Repository call latency, including retries",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~6s
			},
			[]string{"store", "operation"},
		),
		repoRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "repository_retries_total",
				Help:      "Total number of repository call retries",
			},
			[]string{"store", "operation"},
		),
		circuitOpens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_opens_total",
				Help:      "Total number of circuit breaker opens per store",
			},
			[]string{"store"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_state",
				Help:      "Current circuit breaker state per store (0=closed, 1=open, 2=half-open)",
			},
			[]string{"store"},
		),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Total number of transactions by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		eventPublish: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_publish_total",
				Help:      "Total number of ledger event publish attempts",
			},
			[]string{"event", "status"},
		),
	}
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		pc.httpRequests,
		pc.httpLatency,
		pc.repoCalls,
		pc.repoLatency,
		pc.repoRetries,
		pc.circuitOpens,
		pc.circuitState,
		pc.transactions,
		pc.eventPublish,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordHTTPRequest records a served HTTP request.
func (pc *PrometheusCollector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	pc.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	pc.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRepositoryCall records a finished repository call.
func (pc *PrometheusCollector) RecordRepositoryCall(store, operation string, outcome metrics.Outcome, duration time.Duration) {
	pc.repoCalls.WithLabelValues(store, operation, string(outcome)).Inc()
	pc.repoLatency.WithLabelValues(store, operation).Observe(duration.Seconds())
}

// RecordRetry records one retry of a repository call.
func (pc *PrometheusCollector) RecordRetry(store, operation string) {
	pc.repoRetries.WithLabelValues(store, operation).Inc()
}

// RecordCircuitState records the current circuit breaker state.
func (pc *PrometheusCollector) RecordCircuitState(store string, state metrics.CircuitState) {
	pc.circuitState.WithLabelValues(store).Set(float64(state))
	if state == metrics.CircuitOpen {
		pc.circuitOpens.WithLabelValues(store).Inc()
	}
}

// RecordTransaction records the outcome of a create-transaction request.
func (pc *PrometheusCollector) RecordTransaction(transactionType string, outcome metrics.Outcome) {
	pc.transactions.WithLabelValues(transactionType, string(outcome)).Inc()
}

// RecordEventPublish records one publish attempt.
func (pc *PrometheusCollector) RecordEventPublish(eventType string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	pc.eventPublish.WithLabelValues(eventType, status).Inc()
}

var _ metrics.MetricsCollector = (*PrometheusCollector)(nil)
