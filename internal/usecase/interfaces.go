package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	// GetByCodes returns the accounts that exist among codes. Missing codes are not an error.
	GetByCodes(ctx context.Context, tx Transaction, codes []string) ([]*domain.Account, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	SetActive(ctx context.Context, code string, active bool, updatedAt time.Time) error
}

// JournalRepository defines data access for journal entries and their lines.
type JournalRepository interface {
	// Create appends a balanced entry with its lines inside tx.
	// Returns domain.ErrDuplicateCorrelationID when the correlation id was already posted.
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	GetByCorrelationID(ctx context.Context, correlationID string) (*domain.JournalEntry, error)
	// ListLines returns matching lines ordered by entry date, entry id, then line number.
	ListLines(ctx context.Context, filter domain.LineFilter) ([]*domain.LedgerLine, error)
	// SumByAccount aggregates matching lines per account. Accounts without lines are omitted.
	SumByAccount(ctx context.Context, filter domain.LineFilter) ([]*domain.AccountTotal, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalDebit, totalCredit decimal.Decimal, err error)
	// UnbalancedEntries returns ids of entries whose lines do not net to zero.
	UnbalancedEntries(ctx context.Context, limit int) ([]string, error)
}

// WalletTransactionRepository reads completed wallet movements.
type WalletTransactionRepository interface {
	// ListCompleted returns transactions created in [from, to], ordered by creation time then id.
	ListCompleted(ctx context.Context, from, to time.Time) ([]*domain.WalletTransaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Locker provides a distributed mutual-exclusion lock.
type Locker interface {
	// Acquire returns ok=false when the lock is held by someone else.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// ChargeCalculator prices wallet transactions.
type ChargeCalculator interface {
	DepositCharges(tx *domain.WalletTransaction) (*domain.DepositCharges, error)
	WithdrawalCharges(tx *domain.WalletTransaction) (*domain.WithdrawalCharges, error)
}

// MetricsRecorder receives business events for instrumentation.
type MetricsRecorder interface {
	EntryPosted(sourceType string, duration time.Duration)
	EntryReplayed(sourceType string)
	EntryRejected(reason string)
	ReconciliationOutcome(outcome string)
	ReconciliationRun(status string, duration time.Duration)
	BalanceSheetImbalance()
}

type nopMetrics struct{}

func (nopMetrics) EntryPosted(string, time.Duration)       {}
func (nopMetrics) EntryReplayed(string)                    {}
func (nopMetrics) EntryRejected(string)                    {}
func (nopMetrics) ReconciliationOutcome(string)            {}
func (nopMetrics) ReconciliationRun(string, time.Duration) {}
func (nopMetrics) BalanceSheetImbalance()                  {}

// NopMetrics returns a MetricsRecorder that discards everything.
func NopMetrics() MetricsRecorder {
	return nopMetrics{}
}
