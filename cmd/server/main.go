package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/walletledger/internal/adapter/http"
	"github.com/iho/walletledger/internal/adapter/http/handler"
	"github.com/iho/walletledger/internal/adapter/http/middleware"
	"github.com/iho/walletledger/internal/adapter/pdf"
	postgresRepo "github.com/iho/walletledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/walletledger/internal/adapter/repository/redis"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/config"
	"github.com/iho/walletledger/internal/infrastructure/logger"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/infrastructure/postgres"
	"github.com/iho/walletledger/internal/infrastructure/redis"
	"github.com/iho/walletledger/internal/usecase"
)

const (
	serviceName = "walletledger"

	// Idle per-client rate limiters are dropped after this long.
	limiterIdleTimeout = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Connect to PostgreSQL
	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.MigrateOnStart {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	policy, err := config.LoadChargePolicy(cfg.ChargeSchedulePath)
	if err != nil {
		return fmt.Errorf("load charge schedule: %w", err)
	}

	// Redis is optional: without it there is no HTTP idempotency cache and
	// reconciliation runs are not serialized across instances.
	var (
		redisClient      *goredis.Client
		idempotencyStore usecase.IdempotencyStore
		locker           usecase.Locker
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClientWithConfig(ctx, redis.ClientConfig{
			URL:      cfg.RedisURL,
			PoolSize: cfg.RedisPoolSize,
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		if cfg.ReconciliationLock {
			locker = redisRepo.NewLocker(redisClient)
		}
	} else {
		log.Warn().Msg("redis disabled: idempotency keys and reconciliation lock are off")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	walletRepo := postgresRepo.NewWalletTransactionRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrierWithPolicy(postgresRepo.RetryPolicy{
		MaxRetries:     cfg.DatabaseMaxRetries,
		MaxElapsedTime: cfg.DatabaseRetryMaxWait,
	}, log)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, log)
	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, journalRepo, idGen, retrier, m, log)
	reportUC := usecase.NewReportUseCase(accountRepo, journalRepo, pdf.NewStatementRenderer("Walletledger"), m, log)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)
	reconcileUC := usecase.NewWalletReconciliationUseCase(walletRepo, postingUC, policy, locker, accountCodes(cfg.Accounts), m, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler().WithCheck("postgres", pool.Ping)
	if redisClient != nil {
		healthHandler.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		JournalHandler:     handler.NewJournalHandler(postingUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		ChargeHandler:      handler.NewChargeHandler(policy),
		MaintenanceHandler: handler.NewMaintenanceHandler(reconcileUC, ledgerUC),
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		Gatherer:           prometheus.DefaultGatherer,
		Logger:             log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go runPeriodically(ctx, limiterIdleTimeout, func(context.Context) {
		if n := rateLimiter.CleanupLimiters(limiterIdleTimeout); n > 0 {
			log.Debug().Int("removed", n).Msg("dropped idle rate limiters")
		}
	})

	if cfg.ReconcileInterval > 0 {
		go runPeriodically(ctx, cfg.ReconcileInterval, func(ctx context.Context) {
			reconcileOnce(ctx, reconcileUC, cfg.ReconcileLookback, log)
		})
		log.Info().
			Dur("interval", cfg.ReconcileInterval).
			Dur("lookback", cfg.ReconcileLookback).
			Msg("scheduled wallet reconciliation")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// accountCodes converts the configured account codes into posting roles.
func accountCodes(c config.AccountCodes) usecase.AccountCodes {
	return usecase.AccountCodes{
		Cash:                c.Cash,
		Wallet:              c.Wallet,
		CommissionIncome:    c.CommissionIncome,
		SMSIncome:           c.SMSIncome,
		WithdrawalFeeIncome: c.WithdrawalFeeIncome,
		PSPFeeExpense:       c.PSPFeeExpense,
	}
}

// reconcileWindow returns the range a scheduled run covers.
func reconcileWindow(now time.Time, lookback time.Duration) (time.Time, time.Time) {
	now = now.UTC()
	return now.Add(-lookback), now
}

type walletReconciler interface {
	Notify(ctx context.Context, from, to time.Time) (*usecase.ReconciliationResult, error)
}

func reconcileOnce(ctx context.Context, uc walletReconciler, lookback time.Duration, log zerolog.Logger) {
	from, to := reconcileWindow(time.Now(), lookback)

	result, err := uc.Notify(ctx, from, to)
	if errors.Is(err, domain.ErrReconciliationRunning) {
		log.Info().Msg("wallet reconciliation already running elsewhere, skipping")
		return
	}
	if err != nil && result == nil {
		log.Error().Err(err).Msg("scheduled wallet reconciliation failed")
		return
	}

	event := log.Info()
	if result.Failed > 0 || err != nil {
		event = log.Warn().Err(err)
	}
	event.
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("scheduled wallet reconciliation finished")
}

// runPeriodically calls fn every interval until ctx is done.
func runPeriodically(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
