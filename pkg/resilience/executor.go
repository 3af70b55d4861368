// Package resilience bounds every store call with a timeout, a circuit breaker and a retry on unavailability.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/pkg/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

// permanentErrors are business outcomes. They are returned as-is, never retried, and do not trip the breaker.
var permanentErrors = []error{
	apperrors.ErrNotFound,
	apperrors.ErrValidation,
	apperrors.ErrDuplicate,
	apperrors.ErrConflict,
	apperrors.ErrCorruptedData,
	apperrors.ErrInvalidAmount,
	apperrors.ErrInvalidFactor,
	apperrors.ErrInvalidAccountType,
	apperrors.ErrInvalidTransactionType,
	apperrors.ErrMissingAccount,
	apperrors.ErrInsufficientFunds,
}

// Executor runs store operations with timeout, circuit breaking and bounded retry.
// One executor guards one store, so every repository on that store shares its breaker.
type Executor struct {
	name            string
	cb              *gobreaker.CircuitBreaker
	timeout         time.Duration
	maxRetries      int
	initialInterval time.Duration
	metrics         metrics.MetricsCollector
	logger          *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics sets the collector the executor reports to.
func WithMetrics(collector metrics.MetricsCollector) Option {
	return func(e *Executor) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

// WithLogger sets the logger used for breaker transitions and retries.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an executor for the named store.
func NewExecutor(name string, config Config, opts ...Option) *Executor {
	e := &Executor{
		name:            name,
		timeout:         config.Timeout,
		maxRetries:      config.MaxRetries,
		initialInterval: config.RetryInitialInterval,
		metrics:         metrics.NoOpCollector{},
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxRetries < 0 {
		e.maxRetries = 0
	}
	if e.initialInterval <= 0 {
		e.initialInterval = 50 * time.Millisecond
	}

	tripFn := config.readyToTrip()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: config.CircuitBreaker.MaxRequests,
		Interval:    config.CircuitBreaker.Interval,
		Timeout:     config.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return tripFn(Counts{
				Requests:             counts.Requests,
				TotalSuccesses:       counts.TotalSuccesses,
				TotalFailures:        counts.TotalFailures,
				ConsecutiveSuccesses: counts.ConsecutiveSuccesses,
				ConsecutiveFailures:  counts.ConsecutiveFailures,
			})
		},
		IsSuccessful: func(err error) bool {
			// A caller that gave up says nothing about the store's health.
			return err == nil || isPermanent(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			e.logger.Warn("circuit breaker state changed",
				slog.String("store", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			e.metrics.RecordCircuitState(name, toCircuitState(to))
		},
	}
	e.cb = gobreaker.NewCircuitBreaker(settings)

	return e
}

// Name returns the store name the executor guards.
func (e *Executor) Name() string {
	return e.name
}

// State returns the current circuit breaker state.
func (e *Executor) State() metrics.CircuitState {
	return toCircuitState(e.cb.State())
}

// Do runs fn. Each attempt gets its own timeout. Only ErrRepositoryUnavailable is retried,
// at most MaxRetries times with exponential backoff. Cancellation of ctx stops the retries.
func (e *Executor) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	start := time.Now()
	attempts := 0

	op := func() error {
		if attempts > 0 {
			e.metrics.RecordRetry(e.name, operation)
		}
		attempts++

		err := e.attempt(ctx, operation, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrRepositoryUnavailable) && ctx.Err() == nil {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.initialInterval
	b.MaxElapsedTime = 0 // bounded by retry count only

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.maxRetries)), ctx),
		func(err error, wait time.Duration) {
			e.logger.DebugContext(ctx, "retrying repository call",
				slog.String("store", e.name),
				slog.String("operation", operation),
				slog.Duration("wait", wait),
				slog.String("error", err.Error()))
		})

	e.metrics.RecordRepositoryCall(e.name, operation, outcomeOf(err), time.Since(start))
	return err
}

func (e *Executor) attempt(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	_, err := e.cb.Execute(func() (interface{}, error) {
		return nil, fn(callCtx)
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s circuit is open", apperrors.ErrRepositoryUnavailable, e.name)
	}
	if ctx.Err() != nil {
		// The caller went away; that is not the store's fault.
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s.%s timed out after %s", apperrors.ErrRepositoryUnavailable, e.name, operation, e.timeout)
	}
	return err
}

func isPermanent(err error) bool {
	for _, target := range permanentErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperrors.ErrRepositoryUnavailable):
		return metrics.OutcomeUnavailable
	case isPermanent(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func toCircuitState(state gobreaker.State) metrics.CircuitState {
	switch state {
	case gobreaker.StateOpen:
		return metrics.CircuitOpen
	case gobreaker.StateHalfOpen:
		return metrics.CircuitHalfOpen
	default:
		return metrics.CircuitClosed
	}
}
