package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/walletledger/internal/adapter/repository/memory"
	"github.com/iho/walletledger/internal/usecase"
)

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("ID%010d", g.n)
}

type testLedger struct {
	store    *memory.Store
	accounts *usecase.AccountUseCase
	posting  *usecase.PostingUseCase
	reports  *usecase.ReportUseCase
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()

	store := memory.NewStore()
	accounts := usecase.NewAccountUseCase(store.Accounts(), zerolog.Nop())

	_, err := accounts.SeedChart(context.Background(), usecase.DefaultChart())
	require.NoError(t, err)

	return &testLedger{
		store:    store,
		accounts: accounts,
		posting:  usecase.NewPostingUseCase(store, store.Accounts(), store.Journal(), &seqIDGen{}, nil, nil, zerolog.Nop()),
		reports:  usecase.NewReportUseCase(store.Accounts(), store.Journal(), nil, nil, zerolog.Nop()),
	}
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func at(day, hour int) *time.Time {
	t := time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func debit(code, amt string) usecase.PostLineInput {
	return usecase.PostLineInput{AccountCode: code, Debit: amount(amt)}
}

func credit(code, amt string) usecase.PostLineInput {
	return usecase.PostLineInput{AccountCode: code, Credit: amount(amt)}
}

func walletCredit(code, amt, walletID string) usecase.PostLineInput {
	l := credit(code, amt)
	l.WalletID = strPtr(walletID)
	return l
}

func walletDebit(code, amt, walletID string) usecase.PostLineInput {
	l := debit(code, amt)
	l.WalletID = strPtr(walletID)
	return l
}
