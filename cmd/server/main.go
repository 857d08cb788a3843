package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/traveldesk/cashbox/internal/adapter/http"
	"github.com/traveldesk/cashbox/internal/adapter/http/handler"
	"github.com/traveldesk/cashbox/internal/adapter/http/middleware"
	postgresRepo "github.com/traveldesk/cashbox/internal/adapter/repository/postgres"
	redisRepo "github.com/traveldesk/cashbox/internal/adapter/repository/redis"
	"github.com/traveldesk/cashbox/internal/infrastructure/auth"
	"github.com/traveldesk/cashbox/internal/infrastructure/config"
	"github.com/traveldesk/cashbox/internal/infrastructure/logger"
	"github.com/traveldesk/cashbox/internal/infrastructure/metrics"
	"github.com/traveldesk/cashbox/internal/infrastructure/postgres"
	"github.com/traveldesk/cashbox/internal/infrastructure/redis"
	"github.com/traveldesk/cashbox/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	zerolog.DefaultContextLogger = &log.Logger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	cashBoxRepo := postgresRepo.NewCashBoxRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	advanceRepo := postgresRepo.NewAdvanceRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	retrier := postgresRepo.NewRetrier(log.Logger)
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	locker := redisRepo.NewEmployeeLocker(redisClient)

	appMetrics := metrics.New()

	// Initialize use cases
	cascadeUC := usecase.NewCascadeUseCase(txManager, cashBoxRepo, entryRepo, advanceRepo, auditRepo, locker, retrier, idGen, appMetrics)
	reconcileUC := usecase.NewReconcileUseCase(txManager, cashBoxRepo, entryRepo, auditRepo, locker, idGen, appMetrics)
	cashBoxUC := usecase.NewCashBoxUseCase(cashBoxRepo, entryRepo, advanceRepo)
	advanceUC := usecase.NewAdvanceUseCase(advanceRepo, cashBoxRepo, auditRepo, appMetrics)

	// Initialize handlers
	balanceHandler := handler.NewBalanceHandler(cascadeUC)
	cashBoxHandler := handler.NewCashBoxHandler(cashBoxUC, reconcileUC)
	advanceHandler := handler.NewAdvanceHandler(advanceUC)
	auditHandler := handler.NewAuditHandler(auditRepo)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BalanceHandler:   balanceHandler,
		CashBoxHandler:   cashBoxHandler,
		AdvanceHandler:   advanceHandler,
		AuditHandler:     auditHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		JWTManager:       jwtManager,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:           log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
