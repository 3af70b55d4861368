package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/SscSPs/finn_ledger/internal/adapters/messaging/rabbitmq"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finn_ledger/internal/core/services"
	"github.com/SscSPs/finn_ledger/internal/handlers"
	"github.com/SscSPs/finn_ledger/internal/middleware"
	"github.com/SscSPs/finn_ledger/internal/platform/config"
	"github.com/SscSPs/finn_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/finn_ledger/internal/repositories/memory"
	"github.com/SscSPs/finn_ledger/internal/repositories/resilient"
	"github.com/SscSPs/finn_ledger/pkg/database"
	prommetrics "github.com/SscSPs/finn_ledger/pkg/metrics/prometheus"
	"github.com/SscSPs/finn_ledger/pkg/resilience"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// @title Finn Ledger API
// @version 1.0
// @description Accounts and transactions for a personal ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Only enforced when AUTH_ENABLED is set.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := prommetrics.NewPrometheusCollector(cfg.MetricsNamespace)
	if err := collector.Register(registry); err != nil {
		logger.Error("Failed to register metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Storage ---
	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)

		logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	default:
		logger.Warn("Using in-memory storage; data is lost on restart")
		repos = memory.NewStore().Repositories()
	}

	executor := resilience.NewExecutor(cfg.StorageDriver, cfg.ResilienceConfig(),
		resilience.WithMetrics(collector),
		resilience.WithLogger(logger),
	)
	repos = resilient.NewRepositoryProvider(repos, executor)

	// --- Events ---
	var publisher portsrepo.EventPublisher = rabbitmq.NewEventProducerFallback(logger)
	if cfg.AMQPURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.AMQPURL, cfg.EventsExchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, transaction events will not be published", slog.String("error", err.Error()))
		} else {
			publisher = producer
		}
	}
	defer publisher.Close()

	// --- Services ---
	policy, err := cfg.BalancePolicy()
	if err != nil {
		logger.Error("Invalid balance policy", slog.String("error", err.Error()))
		os.Exit(1)
	}
	serviceContainer := services.NewServiceContainer(repos,
		services.WithBalancePolicy(policy),
		services.WithEventPublisher(publisher),
		services.WithMetrics(collector),
	)

	// --- HTTP ---
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	r.Use(middleware.Metrics(collector))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, newRedisClient(cfg.RedisURL, logger))
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("storage", cfg.StorageDriver),
		slog.Bool("auth_enabled", cfg.AuthEnabled),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// newRedisClient returns nil, selecting the in-memory limiter store, when url is empty or Redis is unreachable.
func newRedisClient(url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("Invalid REDIS_URL, using in-memory rate limiting", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, using in-memory rate limiting", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	logger.Info("Rate limiting backed by Redis", slog.String("addr", opts.Addr))
	return client
}
