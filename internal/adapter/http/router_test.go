package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/walletledger/internal/adapter/http/middleware"
	"github.com/iho/walletledger/internal/adapter/repository/memory"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/usecase"
)

type counterIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *counterIDGen) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("ID%06d", g.n)
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

// newRouterConfig wires the real use cases over the in-memory store.
func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) (RouterConfig, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	logger := zerolog.Nop()

	accountUC := usecase.NewAccountUseCase(store.Accounts(), logger)
	if _, err := accountUC.SeedChart(context.Background(), usecase.DefaultChart()); err != nil {
		t.Fatalf("seed chart: %v", err)
	}

	policy, err := domain.NewChargePolicy([]domain.ChargeRule{{
		Kind:      domain.ChargeKindDeposit,
		Channel:   domain.ChannelAny,
		MinAmount: decimal.Zero,
		Components: map[string]domain.Rate{
			domain.ComponentPSPFee:     {},
			domain.ComponentSMSCharge:  {Flat: decimal.NewFromInt(50)},
			domain.ComponentCommission: {},
		},
	}})
	if err != nil {
		t.Fatalf("charge policy: %v", err)
	}

	postingUC := usecase.NewPostingUseCase(store, store.Accounts(), store.Journal(), &counterIDGen{}, nil, nil, logger)
	reportUC := usecase.NewReportUseCase(store.Accounts(), store.Journal(), nil, nil, logger)
	reconcileUC := usecase.NewWalletReconciliationUseCase(store.WalletTransactions(), postingUC, policy, nil, usecase.DefaultAccountCodes(), nil, logger)
	ledgerUC := usecase.NewLedgerUseCase(store.Ledger())

	cfg := RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		JournalHandler:     handler.NewJournalHandler(postingUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		ChargeHandler:      handler.NewChargeHandler(policy),
		MaintenanceHandler: handler.NewMaintenanceHandler(reconcileUC, ledgerUC),
		HealthHandler:      handler.NewHealthHandler(),
		Logger:             logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, store
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	cfg, _ := newRouterConfig(t)
	router := NewRouter(cfg)

	if rec := do(t, router, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg, _ := newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.Metrics = metrics.New(reg)
		cfg.Gatherer = reg
	})
	router := NewRouter(cfg)

	do(t, router, http.MethodGet, "/api/v1/accounts/1000", "")

	rec := do(t, router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/v1/accounts/{code}"`) {
		t.Fatalf("expected route pattern label in metrics output")
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	cfg, _ := newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	})
	router := NewRouter(cfg)

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	cfg, _ := newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	})
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(`{"code":"1010","name":"Bank","type":"ASSET"}`))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	cfg, _ := newRouterConfig(t)
	router := NewRouter(cfg)

	chiRoutes, ok := router.(chi.Routes)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	want := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/accounts/"},
		{http.MethodGet, "/api/v1/accounts/{code}"},
		{http.MethodPost, "/api/v1/accounts/{code}/deactivate"},
		{http.MethodPost, "/api/v1/journal-entries/"},
		{http.MethodGet, "/api/v1/journal-entries/{id}"},
		{http.MethodGet, "/api/v1/wallets/{id}/balance"},
		{http.MethodGet, "/api/v1/reports/accounts/{code}/statement.pdf"},
		{http.MethodGet, "/api/v1/reports/balance-sheet"},
		{http.MethodGet, "/api/v1/charges/{kind}"},
		{http.MethodPost, "/api/v1/maintenance/wallet-reconciliation"},
		{http.MethodGet, "/api/v1/ledger/consistency"},
	}

	registered := make(map[string]bool)
	_ = chi.Walk(chiRoutes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})

	for _, w := range want {
		if !registered[w.method+" "+w.path] {
			t.Errorf("route %s %s not registered", w.method, w.path)
		}
	}
}

func TestNewRouter_PostingAndReportsEndToEnd(t *testing.T) {
	cfg, store := newRouterConfig(t)
	router := NewRouter(cfg)

	body := `{
		"correlation_id": "TXN-1",
		"entry_date": "2024-03-02T10:00:00Z",
		"lines": [
			{"account_code": "1000", "debit": "10000"},
			{"account_code": "2000", "credit": "10000", "wallet_id": "W-1"}
		]
	}`

	if rec := do(t, router, http.MethodPost, "/api/v1/journal-entries", body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/journal-entries", body); rec.Code != http.StatusOK {
		t.Fatalf("expected replay to return 200, got %d", rec.Code)
	}

	unbalanced := strings.Replace(body, `"credit": "10000"`, `"credit": "9999"`, 1)
	unbalanced = strings.Replace(unbalanced, "TXN-1", "TXN-2", 1)
	if rec := do(t, router, http.MethodPost, "/api/v1/journal-entries", unbalanced); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unbalanced entry to be rejected, got %d", rec.Code)
	}

	rec := do(t, router, http.MethodGet, "/api/v1/wallets/W-1/balance", "")
	var balance dto.WalletBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &balance); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if balance.Balance != "10000.00" {
		t.Fatalf("expected wallet balance 10000.00, got %s", balance.Balance)
	}

	store.WalletTransactions().Add(&domain.WalletTransaction{
		ID:        "TX-9",
		WalletID:  "W-1",
		Type:      domain.WalletDeposit,
		Channel:   domain.ChannelMTN,
		Amount:    decimal.NewFromInt(1000),
		CreatedAt: time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC),
	})

	rec = do(t, router, http.MethodPost, "/api/v1/maintenance/wallet-reconciliation", `{"from":"2024-03-01","to":"2024-03-31"}`)
	var run dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode reconciliation: %v", err)
	}
	if rec.Code != http.StatusOK || run.Processed != 1 {
		t.Fatalf("unexpected reconciliation %d %+v", rec.Code, run)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/reports/trial-balance?from=2024-03-01&to=2024-03-31", "")
	var tb dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tb); err != nil {
		t.Fatalf("decode trial balance: %v", err)
	}
	if !tb.Balanced || tb.TotalDebit != "11050.00" {
		t.Fatalf("unexpected trial balance %+v", tb)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/reports/profit?from=2024-03-01&to=2024-03-31", "")
	var profit dto.ProfitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &profit); err != nil {
		t.Fatalf("decode profit: %v", err)
	}
	if profit.NetProfit != "50.00" {
		t.Fatalf("expected 50.00 sms income, got %s", profit.NetProfit)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/reports/balance-sheet?as_of=2024-03-31", "")
	var bs dto.BalanceSheetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &bs); err != nil {
		t.Fatalf("decode balance sheet: %v", err)
	}
	if !bs.Balanced {
		t.Fatalf("expected balanced sheet %+v", bs)
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/ledger/consistency", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected consistent ledger, got %d", rec.Code)
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/reports/accounts/1000/statement.pdf?from=2024-03-01&to=2024-03-31", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without renderer, got %d", rec.Code)
	}
}
