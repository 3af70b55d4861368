package resilience

import "time"

// Config holds configuration for the resilience executor that wraps every repository call.
type Config struct {
	// Timeout for each attempt (default: 3s)
	Timeout time.Duration

	// MaxRetries bounds how often an unavailable store is retried after the first attempt (default: 2).
	MaxRetries int

	// RetryInitialInterval is the first backoff delay; later delays grow exponentially (default: 50ms).
	RetryInitialInterval time.Duration

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	// MaxRequests allowed in half-open state (default: 1)
	MaxRequests uint32

	// Interval to clear counts in closed state (default: 60s)
	Interval time.Duration

	// Timeout before transitioning from open to half-open (default: 30s)
	Timeout time.Duration

	// FailureThreshold is the number of consecutive infrastructure failures that opens the circuit (default: 5).
	// Business errors such as not-found or insufficient funds never count.
	FailureThreshold uint32

	// ReadyToTrip overrides FailureThreshold when set.
	ReadyToTrip func(counts Counts) bool
}

// Counts holds circuit breaker statistics.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:              3 * time.Second,
		MaxRetries:           2,
		RetryInitialInterval: 50 * time.Millisecond,
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      1,
			Interval:         60 * time.Second,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// WithTimeout returns a copy of the config with a different per-attempt timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}

// WithMaxRetries returns a copy of the config with a different retry bound.
func (c Config) WithMaxRetries(n int) Config {
	c.MaxRetries = n
	return c
}

func (c Config) readyToTrip() func(Counts) bool {
	if c.CircuitBreaker.ReadyToTrip != nil {
		return c.CircuitBreaker.ReadyToTrip
	}
	threshold := c.CircuitBreaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return func(counts Counts) bool {
		return counts.ConsecutiveFailures >= threshold
	}
}
