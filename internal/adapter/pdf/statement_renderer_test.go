package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

var _ usecase.StatementRenderer = (*StatementRenderer)(nil)

func statement(lines int) *domain.AccountStatement {
	s := &domain.AccountStatement{
		Account:        &domain.Account{Code: "2000", Name: "Wallet Liability", Type: domain.AccountTypeLiability},
		From:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		OpeningBalance: decimal.NewFromInt(500),
	}

	balance := s.OpeningBalance
	for i := 0; i < lines; i++ {
		amount := decimal.NewFromInt(int64(100 + i))
		balance = balance.Add(amount)
		memo := "deposit"
		s.Lines = append(s.Lines, domain.StatementLine{
			LedgerLine: domain.LedgerLine{
				JournalLine:   domain.JournalLine{Credit: amount, Memo: &memo},
				EntryDate:     s.From.AddDate(0, 0, i%28),
				CorrelationID: fmt.Sprintf("TX-%04d", i),
				Description:   "Wallet deposit via MTN",
			},
			Balance: balance,
		})
		s.TotalCredit = s.TotalCredit.Add(amount)
	}
	s.ClosingBalance = balance

	return s
}

func newTestRenderer() *StatementRenderer {
	r := NewStatementRenderer("Walletledger")
	r.now = func() time.Time { return time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC) }
	return r
}

func TestStatementRenderer_RenderStatement(t *testing.T) {
	tests := []struct {
		name  string
		lines int
	}{
		{"empty period", 0},
		{"single page", 5},
		{"spans pages", 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := newTestRenderer().RenderStatement(&buf, statement(tt.lines))
			require.NoError(t, err)

			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
			assert.True(t, bytes.Contains(buf.Bytes(), []byte("%%EOF")))
		})
	}
}

func TestStatementRenderer_LongerStatementIsLarger(t *testing.T) {
	var small, large bytes.Buffer
	require.NoError(t, newTestRenderer().RenderStatement(&small, statement(1)))
	require.NoError(t, newTestRenderer().RenderStatement(&large, statement(120)))

	assert.Greater(t, large.Len(), small.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStatementRenderer_PropagatesWriteErrors(t *testing.T) {
	err := newTestRenderer().RenderStatement(failingWriter{}, statement(1))
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"999.5", "999.50"},
		{"1000", "1,000.00"},
		{"1234567.891", "1,234,567.89"},
		{"-25000", "-25,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestTrimTo(t *testing.T) {
	assert.Equal(t, "short", trimTo("  short ", 10))
	assert.Equal(t, "abcdefg...", trimTo("abcdefghijklmnop", 10))
}
