package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "walletledger"

// Metrics holds all Prometheus metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	// Posting metrics
	EntriesPosted   *prometheus.CounterVec
	EntriesReplayed *prometheus.CounterVec
	EntriesRejected *prometheus.CounterVec
	PostingDuration *prometheus.HistogramVec

	// Reconciliation metrics
	ReconciliationTransactions *prometheus.CounterVec
	ReconciliationRuns         *prometheus.CounterVec
	ReconciliationDuration     prometheus.Histogram

	// Report metrics
	BalanceSheetImbalances prometheus.Counter

	// API metrics
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	HTTPInFlight       prometheus.Gauge
	RateLimitHits      prometheus.Counter
	IdempotencyReplays prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		EntriesPosted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "journal_entries_posted_total",
				Help:      "Journal entries appended to the ledger",
			},
			[]string{"source_type"},
		),
		EntriesReplayed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "journal_entries_replayed_total",
				Help:      "Posts that matched an existing correlation id",
			},
			[]string{"source_type"},
		),
		EntriesRejected: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "journal_entries_rejected_total",
				Help:      "Posts rejected by validation",
			},
			[]string{"reason"},
		),
		PostingDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "journal_posting_duration_seconds",
				Help:      "Time to append a journal entry",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source_type"},
		),

		ReconciliationTransactions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wallet_reconciliation_transactions_total",
				Help:      "Wallet transactions seen by reconciliation, by outcome",
			},
			[]string{"outcome"},
		),
		ReconciliationRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wallet_reconciliation_runs_total",
				Help:      "Wallet reconciliation runs, by final status",
			},
			[]string{"status"},
		),
		ReconciliationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wallet_reconciliation_duration_seconds",
			Help:      "Duration of wallet reconciliation runs",
			Buckets:   []float64{.05, .1, .5, 1, 5, 15, 30, 60, 300, 900},
		}),

		BalanceSheetImbalances: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_sheet_imbalances_total",
			Help:      "Balance sheets produced where assets did not equal liabilities plus equity",
		}),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		IdempotencyReplays: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotency_replays_total",
			Help:      "Responses served from the idempotency store",
		}),
	}
}

// EntryPosted records a newly appended entry.
func (m *Metrics) EntryPosted(sourceType string, duration time.Duration) {
	m.EntriesPosted.WithLabelValues(sourceType).Inc()
	m.PostingDuration.WithLabelValues(sourceType).Observe(duration.Seconds())
}

func (m *Metrics) EntryReplayed(sourceType string) {
	m.EntriesReplayed.WithLabelValues(sourceType).Inc()
}

func (m *Metrics) EntryRejected(reason string) {
	m.EntriesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ReconciliationOutcome(outcome string) {
	m.ReconciliationTransactions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ReconciliationRun(status string, duration time.Duration) {
	m.ReconciliationRuns.WithLabelValues(status).Inc()
	m.ReconciliationDuration.Observe(duration.Seconds())
}

func (m *Metrics) BalanceSheetImbalance() {
	m.BalanceSheetImbalances.Inc()
}

// ObserveHTTPRequest records one served request under its route pattern.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
