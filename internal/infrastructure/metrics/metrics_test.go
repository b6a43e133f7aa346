package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/walletledger/internal/usecase"
)

var _ usecase.MetricsRecorder = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)
	m.EntryPosted("MANUAL", time.Millisecond)
	m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestNewTwiceOnSeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}

func TestRecorderMethods(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EntryPosted("WALLET_DEPOSIT", 10*time.Millisecond)
	m.EntryPosted("WALLET_DEPOSIT", 20*time.Millisecond)
	m.EntryReplayed("WALLET_DEPOSIT")
	m.EntryRejected("unbalanced")
	m.ReconciliationOutcome("posted")
	m.ReconciliationOutcome("failed")
	m.ReconciliationRun("completed", time.Second)
	m.BalanceSheetImbalance()

	tests := []struct {
		name      string
		collector prometheus.Collector
		want      float64
	}{
		{"posted", m.EntriesPosted.WithLabelValues("WALLET_DEPOSIT"), 2},
		{"replayed", m.EntriesReplayed.WithLabelValues("WALLET_DEPOSIT"), 1},
		{"rejected", m.EntriesRejected.WithLabelValues("unbalanced"), 1},
		{"reconciled posted", m.ReconciliationTransactions.WithLabelValues("posted"), 1},
		{"reconciled failed", m.ReconciliationTransactions.WithLabelValues("failed"), 1},
		{"runs", m.ReconciliationRuns.WithLabelValues("completed"), 1},
		{"imbalances", m.BalanceSheetImbalances, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.collector); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
