// Package metrics defines what the ledger reports about itself, independent of the backend that stores it.
package metrics

import (
	"time"
)

// MetricsCollector defines the interface for collecting service metrics.
// Implementations can export metrics to various backends (Prometheus, in-memory for tests, etc.).
type MetricsCollector interface {
	// HTTP
	RecordHTTPRequest(method, route string, status int, duration time.Duration)

	// Repository calls made through the resilience executor
	RecordRepositoryCall(store, operation string, outcome Outcome, duration time.Duration)
	RecordRetry(store, operation string)

	// Circuit breaker
	RecordCircuitState(store string, state CircuitState)

	// Ledger
	RecordTransaction(transactionType string, outcome Outcome)
	RecordEventPublish(eventType string, success bool)
}

// Outcome classifies how an operation ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeRejected is a business failure such as validation, not-found or insufficient funds.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnavailable is a timeout or an open circuit.
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeError       Outcome = "error"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed means the circuit breaker is allowing requests through.
	CircuitClosed CircuitState = iota
	// CircuitOpen means the circuit breaker is blocking requests.
	CircuitOpen
	// CircuitHalfOpen means the circuit breaker is testing if the store has recovered.
	CircuitHalfOpen
)

// String returns the string representation of the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoOpCollector is a no-op implementation of MetricsCollector.
// It's used as the default collector when metrics are not needed.
type NoOpCollector struct{}

func (NoOpCollector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {}

func (NoOpCollector) RecordRepositoryCall(store, operation string, outcome Outcome, duration time.Duration) {
}

func (NoOpCollector) RecordRetry(store, operation string) {}

func (NoOpCollector) RecordCircuitState(store string, state CircuitState) {}

func (NoOpCollector) RecordTransaction(transactionType string, outcome Outcome) {}

func (NoOpCollector) RecordEventPublish(eventType string, success bool) {}
