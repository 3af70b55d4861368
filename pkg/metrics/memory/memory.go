// Package memory records metrics in process memory so tests can assert on them.
package memory

import (
	"sync"
	"time"

	"github.com/SscSPs/finn_ledger/pkg/metrics"
)

// MemoryCollector implements MetricsCollector for in-memory testing.
type MemoryCollector struct {
	mu sync.RWMutex

	httpRequests  map[string]int64
	repoOutcomes  map[string]map[metrics.Outcome]int64
	retries       map[string]int64
	circuitStates map[string]metrics.CircuitState
	transactions  map[string]map[metrics.Outcome]int64
	published     map[string]int64
	publishErrors map[string]int64
}

// NewMemoryCollector creates a new in-memory metrics collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		httpRequests:  make(map[string]int64),
		repoOutcomes:  make(map[string]map[metrics.Outcome]int64),
		retries:       make(map[string]int64),
		circuitStates: make(map[string]metrics.CircuitState),
		transactions:  make(map[string]map[metrics.Outcome]int64),
		published:     make(map[string]int64),
		publishErrors: make(map[string]int64),
	}
}

func (mc *MemoryCollector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.httpRequests[method+" "+route]++
}

func (mc *MemoryCollector) RecordRepositoryCall(store, operation string, outcome metrics.Outcome, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	key := store + "." + operation
	if mc.repoOutcomes[key] == nil {
		mc.repoOutcomes[key] = make(map[metrics.Outcome]int64)
	}
	mc.repoOutcomes[key][outcome]++
}

func (mc *MemoryCollector) RecordRetry(store, operation string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.retries[store+"."+operation]++
}

func (mc *MemoryCollector) RecordCircuitState(store string, state metrics.CircuitState) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.circuitStates[store] = state
}

func (mc *MemoryCollector) RecordTransaction(transactionType string, outcome metrics.Outcome) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.transactions[transactionType] == nil {
		mc.transactions[transactionType] = make(map[metrics.Outcome]int64)
	}
	mc.transactions[transactionType][outcome]++
}

func (mc *MemoryCollector) RecordEventPublish(eventType string, success bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if success {
		mc.published[eventType]++
	} else {
		mc.publishErrors[eventType]++
	}
}

// HTTPRequests returns how many requests were recorded for method and route.
func (mc *MemoryCollector) HTTPRequests(method, route string) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.httpRequests[method+" "+route]
}

// RepositoryCalls returns how many calls of store.operation ended with outcome.
func (mc *MemoryCollector) RepositoryCalls(store, operation string, outcome metrics.Outcome) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.repoOutcomes[store+"."+operation][outcome]
}

// Retries returns how many retries were recorded for store.operation.
func (mc *MemoryCollector) Retries(store, operation string) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.retries[store+"."+operation]
}

// CircuitState returns the last recorded state, CircuitClosed if none was recorded.
func (mc *MemoryCollector) CircuitState(store string) metrics.CircuitState {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.circuitStates[store]
}

// Transactions returns how many transactions of the given type ended with outcome.
func (mc *MemoryCollector) Transactions(transactionType string, outcome metrics.Outcome) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.transactions[transactionType][outcome]
}

// Published returns the successful and failed publish counts for eventType.
func (mc *MemoryCollector) Published(eventType string) (ok int64, failed int64) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.published[eventType], mc.publishErrors[eventType]
}

var _ metrics.MetricsCollector = (*MemoryCollector)(nil)
