package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

const maxReportedUnbalancedEntries = 100

// ConsistencyReport is the outcome of a ledger-wide balance check.
type ConsistencyReport struct {
	Consistent        bool
	TotalDebit        decimal.Decimal
	TotalCredit       decimal.Decimal
	UnbalancedEntries []string
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that the ledger is balanced.
// It returns ErrInconsistentLedger together with the report when it is not.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalDebit, totalCredit, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	unbalanced, err := uc.ledgerRepo.UnbalancedEntries(ctx, maxReportedUnbalancedEntries)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		TotalDebit:        totalDebit,
		TotalCredit:       totalCredit,
		UnbalancedEntries: unbalanced,
	}

	// Every entry must net to zero on its own, not just the ledger as a whole.
	report.Consistent = totalDebit.Equal(totalCredit) && len(unbalanced) == 0
	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
