package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency sums every journal line in the ledger.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalDebit decimal.Decimal, totalCredit decimal.Decimal, err error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(result.TotalDebit), numericToDecimal(result.TotalCredit), nil
}

// UnbalancedEntries lists up to limit entry ids whose lines do not balance.
func (r *LedgerRepository) UnbalancedEntries(ctx context.Context, limit int) ([]string, error) {
	return r.queries.ListUnbalancedEntries(ctx, int32(limit))
}
