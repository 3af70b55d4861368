package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finn_ledger/internal/utils/accounting"
	"github.com/SscSPs/finn_ledger/pkg/resilience"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers selectable through STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	StorageDriver  string
	DatabaseURL    string
	EnableDBCheck  bool
	MigrationsPath string

	// Repository resilience
	RepositoryTimeout              time.Duration
	RepositoryMaxRetries           int
	RepositoryRetryInitialInterval time.Duration
	BreakerMaxRequests             uint32
	BreakerInterval                time.Duration
	BreakerTimeout                 time.Duration
	BreakerFailureThreshold        uint32

	NegativeBalancePolicy string
	CashBalanceFloor      string // decimal, e.g. "-100.00"

	RateLimit          string // ulule format, e.g. "100-M"
	RedisURL           string
	CORSAllowedOrigins []string

	AuthEnabled bool
	JWTSecret   string

	AMQPURL        string
	EventsExchange string

	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	defaults := resilience.DefaultConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_DRIVER", StorageMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REPOSITORY_TIMEOUT", defaults.Timeout.String())
	viper.SetDefault("REPOSITORY_MAX_RETRIES", defaults.MaxRetries)
	viper.SetDefault("REPOSITORY_RETRY_INITIAL_INTERVAL", defaults.RetryInitialInterval.String())
	viper.SetDefault("BREAKER_MAX_REQUESTS", defaults.CircuitBreaker.MaxRequests)
	viper.SetDefault("BREAKER_INTERVAL", defaults.CircuitBreaker.Interval.String())
	viper.SetDefault("BREAKER_TIMEOUT", defaults.CircuitBreaker.Timeout.String())
	viper.SetDefault("BREAKER_FAILURE_THRESHOLD", defaults.CircuitBreaker.FailureThreshold)
	viper.SetDefault("NEGATIVE_BALANCE_POLICY", string(accounting.RejectBelowFloor))
	viper.SetDefault("CASH_BALANCE_FLOOR", "0")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("EVENTS_EXCHANGE", "ledger_events")
	viper.SetDefault("METRICS_NAMESPACE", "finn")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                           viper.GetString("PORT"),
		IsProduction:                   viper.GetBool("IS_PRODUCTION"),
		LogLevel:                       parseLogLevel(viper.GetString("LOG_LEVEL")),
		StorageDriver:                  strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_DRIVER"))),
		DatabaseURL:                    viper.GetString("PGSQL_URL"),
		EnableDBCheck:                  viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:                 viper.GetString("MIGRATIONS_PATH"),
		RepositoryTimeout:              durationOr("REPOSITORY_TIMEOUT", defaults.Timeout),
		RepositoryMaxRetries:           viper.GetInt("REPOSITORY_MAX_RETRIES"),
		RepositoryRetryInitialInterval: durationOr("REPOSITORY_RETRY_INITIAL_INTERVAL", defaults.RetryInitialInterval),
		BreakerMaxRequests:             viper.GetUint32("BREAKER_MAX_REQUESTS"),
		BreakerInterval:                durationOr("BREAKER_INTERVAL", defaults.CircuitBreaker.Interval),
		BreakerTimeout:                 durationOr("BREAKER_TIMEOUT", defaults.CircuitBreaker.Timeout),
		BreakerFailureThreshold:        viper.GetUint32("BREAKER_FAILURE_THRESHOLD"),
		NegativeBalancePolicy:          viper.GetString("NEGATIVE_BALANCE_POLICY"),
		CashBalanceFloor:               viper.GetString("CASH_BALANCE_FLOOR"),
		RateLimit:                      viper.GetString("RATE_LIMIT"),
		RedisURL:                       viper.GetString("REDIS_URL"),
		CORSAllowedOrigins:             splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		AuthEnabled:                    viper.GetBool("AUTH_ENABLED"),
		JWTSecret:                      viper.GetString("JWT_SECRET"),
		AMQPURL:                        viper.GetString("AMQP_URL"),
		EventsExchange:                 viper.GetString("EVENTS_EXCHANGE"),
		MetricsNamespace:               viper.GetString("METRICS_NAMESPACE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: STORAGE_DRIVER is postgres but PGSQL_URL environment variable not set.")
		}
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StorageMemory)
		cfg.StorageDriver = StorageMemory
	}

	if cfg.RepositoryMaxRetries < 0 {
		log.Printf("Warning: Negative REPOSITORY_MAX_RETRIES (%d). Defaulting to %d.\n", cfg.RepositoryMaxRetries, defaults.MaxRetries)
		cfg.RepositoryMaxRetries = defaults.MaxRetries
	}
	if cfg.BreakerFailureThreshold == 0 {
		log.Printf("Warning: BREAKER_FAILURE_THRESHOLD must be positive. Defaulting to %d.\n", defaults.CircuitBreaker.FailureThreshold)
		cfg.BreakerFailureThreshold = defaults.CircuitBreaker.FailureThreshold
	}

	if cfg.AuthEnabled && cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: AUTH_ENABLED is set but JWT_SECRET uses the default insecure key.")
	}

	return cfg, nil
}

// ResilienceConfig returns the executor settings for repository calls.
func (c *Config) ResilienceConfig() resilience.Config {
	rc := resilience.DefaultConfig()
	rc.Timeout = c.RepositoryTimeout
	rc.MaxRetries = c.RepositoryMaxRetries
	rc.RetryInitialInterval = c.RepositoryRetryInitialInterval
	rc.CircuitBreaker.MaxRequests = c.BreakerMaxRequests
	rc.CircuitBreaker.Interval = c.BreakerInterval
	rc.CircuitBreaker.Timeout = c.BreakerTimeout
	rc.CircuitBreaker.FailureThreshold = c.BreakerFailureThreshold
	return rc
}

// BalancePolicy parses the configured negative-balance policy.
func (c *Config) BalancePolicy() (accounting.BalancePolicy, error) {
	return accounting.NewBalancePolicy(c.NegativeBalancePolicy, c.CashBalanceFloor)
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", s)
		return slog.LevelInfo
	}
	return level
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
