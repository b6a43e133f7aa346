package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
)

// EntryPoster posts journal entries idempotently by correlation id.
type EntryPoster interface {
	Post(ctx context.Context, input PostEntryInput) (*PostResult, error)
	GetEntryByCorrelationID(ctx context.Context, correlationID string) (*domain.JournalEntry, error)
}

// AccountCodes maps wallet posting roles to chart-of-accounts codes.
type AccountCodes struct {
	Cash                string
	Wallet              string
	CommissionIncome    string
	SMSIncome           string
	WithdrawalFeeIncome string
	PSPFeeExpense       string
}

// DefaultAccountCodes matches DefaultChart.
func DefaultAccountCodes() AccountCodes {
	return AccountCodes{
		Cash:                "1000",
		Wallet:              "2000",
		CommissionIncome:    "4000",
		SMSIncome:           "4100",
		WithdrawalFeeIncome: "4200",
		PSPFeeExpense:       "5000",
	}
}

// Outcome is what happened to one wallet transaction during a run.
type Outcome string

const (
	OutcomePosted  Outcome = "posted"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// TransactionOutcome records the result for a single wallet transaction.
type TransactionOutcome struct {
	TransactionID string
	Outcome       Outcome
	EntryID       string
	Error         string
}

// ReconciliationResult summarises a run. Processed counts newly posted entries.
type ReconciliationResult struct {
	From      time.Time
	To        time.Time
	Processed int
	Skipped   int
	Failed    int
	Outcomes  []TransactionOutcome
}

// FailedTransactionIDs returns the ids a caller should retry.
func (r *ReconciliationResult) FailedTransactionIDs() []string {
	var ids []string
	for _, o := range r.Outcomes {
		if o.Outcome == OutcomeFailed {
			ids = append(ids, o.TransactionID)
		}
	}
	return ids
}

func (r *ReconciliationResult) record(o TransactionOutcome) {
	switch o.Outcome {
	case OutcomePosted:
		r.Processed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// WalletReconciliationUseCase makes sure every completed wallet transaction has a journal entry.
type WalletReconciliationUseCase struct {
	walletRepo WalletTransactionRepository
	poster     EntryPoster
	charges    ChargeCalculator
	locker     Locker
	codes      AccountCodes
	metrics    MetricsRecorder
	logger     zerolog.Logger
}

// NewWalletReconciliationUseCase creates a new WalletReconciliationUseCase.
// locker may be nil, in which case runs are not serialized.
func NewWalletReconciliationUseCase(
	walletRepo WalletTransactionRepository,
	poster EntryPoster,
	charges ChargeCalculator,
	locker Locker,
	codes AccountCodes,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *WalletReconciliationUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}

	return &WalletReconciliationUseCase{
		walletRepo: walletRepo,
		poster:     poster,
		charges:    charges,
		locker:     locker,
		codes:      codes,
		metrics:    metrics,
		logger:     logger.With().Str("component", "wallet_reconciliation").Logger(),
	}
}

// Notify posts entries for wallet transactions in [from, to] that have none yet.
// A failure on one transaction is recorded and the run continues. If ctx is
// cancelled the run stops between transactions and returns the partial result.
func (uc *WalletReconciliationUseCase) Notify(ctx context.Context, from, to time.Time) (*ReconciliationResult, error) {
	start := time.Now()

	from, to = from.UTC(), to.UTC()
	if err := domain.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	if uc.locker != nil {
		token, ok, err := uc.locker.Acquire(ctx, ReconciliationLockKey, ReconciliationLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire reconciliation lock: %w", err)
		}
		if !ok {
			uc.metrics.ReconciliationRun("locked", time.Since(start))
			return nil, domain.ErrReconciliationRunning
		}
		defer func() {
			if err := uc.locker.Release(context.WithoutCancel(ctx), ReconciliationLockKey, token); err != nil {
				uc.logger.Warn().Err(err).Msg("failed to release reconciliation lock")
			}
		}()
	}

	txs, err := uc.walletRepo.ListCompleted(ctx, from, to)
	if err != nil {
		uc.metrics.ReconciliationRun("error", time.Since(start))
		return nil, err
	}

	result := &ReconciliationResult{From: from, To: to, Outcomes: make([]TransactionOutcome, 0, len(txs))}

	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			uc.metrics.ReconciliationRun("cancelled", time.Since(start))
			uc.logger.Warn().
				Int("processed", result.Processed).
				Int("remaining", len(txs)-len(result.Outcomes)).
				Msg("wallet reconciliation interrupted")
			return result, err
		}

		outcome := uc.reconcile(ctx, tx)
		uc.metrics.ReconciliationOutcome(string(outcome.Outcome))
		result.record(outcome)
	}

	uc.metrics.ReconciliationRun("completed", time.Since(start))
	uc.logger.Info().
		Time("from", from).
		Time("to", to).
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", time.Since(start)).
		Msg("wallet reconciliation finished")

	return result, nil
}

func (uc *WalletReconciliationUseCase) reconcile(ctx context.Context, tx *domain.WalletTransaction) TransactionOutcome {
	outcome := TransactionOutcome{TransactionID: tx.ID}

	existing, err := uc.poster.GetEntryByCorrelationID(ctx, tx.ID)
	switch {
	case err == nil:
		outcome.Outcome = OutcomeSkipped
		outcome.EntryID = existing.ID
		return outcome
	case !errors.Is(err, domain.ErrNotFound):
		return uc.fail(tx, outcome, err)
	}

	input, err := uc.BuildEntry(tx)
	if err != nil {
		return uc.fail(tx, outcome, err)
	}

	res, err := uc.poster.Post(ctx, *input)
	if err != nil {
		return uc.fail(tx, outcome, err)
	}

	outcome.EntryID = res.Entry.ID
	if res.Created {
		outcome.Outcome = OutcomePosted
	} else {
		outcome.Outcome = OutcomeSkipped
	}

	return outcome
}

func (uc *WalletReconciliationUseCase) fail(tx *domain.WalletTransaction, outcome TransactionOutcome, err error) TransactionOutcome {
	uc.logger.Error().
		Err(err).
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Str("channel", string(tx.Channel)).
		Msg("failed to post wallet transaction")

	outcome.Outcome = OutcomeFailed
	outcome.Error = err.Error()
	return outcome
}

// BuildEntry derives the journal entry for a wallet transaction, charges included.
func (uc *WalletReconciliationUseCase) BuildEntry(tx *domain.WalletTransaction) (*PostEntryInput, error) {
	sourceType, err := tx.SourceType()
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	if err := domain.ValidateAmount(tx.Amount); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	b := lineBuilder{tx: tx}

	switch tx.Type {
	case domain.WalletDeposit:
		charges, err := uc.charges.DepositCharges(tx)
		if err != nil {
			return nil, err
		}

		b.pair(uc.codes.Cash, uc.codes.Wallet, tx.Amount, "deposit")
		b.pair(uc.codes.Wallet, uc.codes.SMSIncome, charges.SMSChargeToWallet, "sms charge")
		b.pair(uc.codes.Wallet, uc.codes.CommissionIncome, charges.CommissionToWallet, "commission")
		b.pair(uc.codes.PSPFeeExpense, uc.codes.Cash, charges.PSPFee, "psp fee")

	case domain.WalletWithdrawal:
		charges, err := uc.charges.WithdrawalCharges(tx)
		if err != nil {
			return nil, err
		}

		b.pair(uc.codes.Wallet, uc.codes.Cash, tx.Amount, "withdrawal")
		b.pair(uc.codes.Wallet, uc.codes.WithdrawalFeeIncome, charges.CompanyFeeToWallet, "withdrawal fee")
		b.pair(uc.codes.PSPFeeExpense, uc.codes.Cash, charges.PSPFeeExpense, "psp fee")
	}

	entryDate := tx.CreatedAt
	description := fmt.Sprintf("Wallet %s via %s", lowerType(tx.Type), tx.Channel)
	if tx.Reference != "" {
		description += " ref " + tx.Reference
	}

	return &PostEntryInput{
		CorrelationID: tx.ID,
		SourceType:    sourceType,
		SourceID:      tx.ID,
		Description:   description,
		EntryDate:     &entryDate,
		Lines:         b.lines,
	}, nil
}

type lineBuilder struct {
	tx    *domain.WalletTransaction
	lines []PostLineInput
}

// pair appends a debit and a matching credit. Zero amounts add nothing.
func (b *lineBuilder) pair(debitCode, creditCode string, amount decimal.Decimal, memo string) {
	if amount.IsZero() {
		return
	}

	m := memo
	b.lines = append(b.lines,
		PostLineInput{
			AccountCode: debitCode,
			Debit:       amount,
			WalletID:    &b.tx.WalletID,
			LandlordID:  b.tx.LandlordID,
			TenantID:    b.tx.TenantID,
			Memo:        &m,
		},
		PostLineInput{
			AccountCode: creditCode,
			Credit:      amount,
			WalletID:    &b.tx.WalletID,
			LandlordID:  b.tx.LandlordID,
			TenantID:    b.tx.TenantID,
			Memo:        &m,
		},
	)
}

func lowerType(t domain.WalletTransactionType) string {
	if t == domain.WalletWithdrawal {
		return "withdrawal"
	}
	return "deposit"
}
