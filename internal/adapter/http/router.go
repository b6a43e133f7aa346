package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/adapter/http/handler"
	"github.com/iho/walletledger/internal/adapter/http/middleware"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	JournalHandler     *handler.JournalHandler
	ReportHandler      *handler.ReportHandler
	ChargeHandler      *handler.ChargeHandler
	MaintenanceHandler *handler.MaintenanceHandler
	HealthHandler      *handler.HealthHandler

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Metrics)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Post("/{code}/activate", cfg.AccountHandler.Activate)
			r.Post("/{code}/deactivate", cfg.AccountHandler.Deactivate)
		})

		// Journal
		r.Route("/journal-entries", func(r chi.Router) {
			r.Post("/", cfg.JournalHandler.Post)
			r.Get("/{id}", cfg.JournalHandler.Get)
		})
		r.Get("/wallets/{id}/balance", cfg.JournalHandler.WalletBalance)

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/accounts/{code}/statement", cfg.ReportHandler.Statement)
			r.Get("/accounts/{code}/statement.pdf", cfg.ReportHandler.StatementPDF)
			r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/balance-sheet", cfg.ReportHandler.BalanceSheet)
			r.Get("/profit", cfg.ReportHandler.Profit)
		})

		r.Get("/charges/{kind}", cfg.ChargeHandler.Preview)

		// Operator endpoints
		r.Post("/maintenance/wallet-reconciliation", cfg.MaintenanceHandler.Reconcile)
		r.Get("/ledger/consistency", cfg.MaintenanceHandler.Consistency)
	})

	return r
}
