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

// PostingUseCase records balanced journal entries.
type PostingUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	journalRepo JournalRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     MetricsRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewPostingUseCase creates a new PostingUseCase. retrier and metrics may be nil.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *PostingUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}

	return &PostingUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
		logger:      logger.With().Str("component", "posting").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// PostLineInput is one debit or credit of a posting request.
type PostLineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	WalletID    *string
	LandlordID  *string
	TenantID    *string
	Memo        *string
}

// PostEntryInput represents input for posting a journal entry.
type PostEntryInput struct {
	CorrelationID string
	SourceType    string
	SourceID      string
	Description   string
	EntryDate     *time.Time
	Lines         []PostLineInput
}

// PostResult is the entry stored for a correlation id.
// Created is false when the entry already existed and was returned unchanged.
type PostResult struct {
	Entry   *domain.JournalEntry
	Created bool
}

// Post validates and appends a journal entry. Posting the same correlation id
// twice returns the first entry without creating a new one.
func (uc *PostingUseCase) Post(ctx context.Context, input PostEntryInput) (*PostResult, error) {
	start := time.Now()

	entry := uc.buildEntry(input)

	if err := entry.Validate(); err != nil {
		return uc.replayOrReject(ctx, entry, err)
	}

	err := uc.retry(ctx, func() error {
		return uc.append(ctx, entry)
	})

	switch {
	case err == nil:
		uc.metrics.EntryPosted(entry.SourceType, time.Since(start))
		uc.logger.Info().
			Str("entry_id", entry.ID).
			Str("correlation_id", entry.CorrelationID).
			Str("source_type", entry.SourceType).
			Int("lines", len(entry.Lines)).
			Msg("journal entry posted")

		return &PostResult{Entry: entry, Created: true}, nil

	case errors.Is(err, domain.ErrDuplicateCorrelationID):
		existing, getErr := uc.journalRepo.GetByCorrelationID(ctx, entry.CorrelationID)
		if getErr != nil {
			return nil, fmt.Errorf("load existing entry %s: %w", entry.CorrelationID, getErr)
		}
		return uc.replayed(existing), nil

	case errors.Is(err, domain.ErrValidation):
		return uc.replayOrReject(ctx, entry, err)

	default:
		return nil, err
	}
}

// replayOrReject returns the entry already posted under the correlation id, if any.
// Otherwise the entry is rejected with validationErr.
func (uc *PostingUseCase) replayOrReject(ctx context.Context, entry *domain.JournalEntry, validationErr error) (*PostResult, error) {
	if entry.CorrelationID != "" {
		existing, err := uc.journalRepo.GetByCorrelationID(ctx, entry.CorrelationID)
		switch {
		case err == nil:
			return uc.replayed(existing), nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("load existing entry %s: %w", entry.CorrelationID, err)
		}
	}

	uc.reject(entry, validationErr)
	return nil, validationErr
}

func (uc *PostingUseCase) replayed(existing *domain.JournalEntry) *PostResult {
	uc.metrics.EntryReplayed(existing.SourceType)
	uc.logger.Debug().
		Str("entry_id", existing.ID).
		Str("correlation_id", existing.CorrelationID).
		Msg("correlation id already posted")

	return &PostResult{Entry: existing, Created: false}
}

func (uc *PostingUseCase) buildEntry(input PostEntryInput) *domain.JournalEntry {
	now := uc.now()

	entryDate := now
	if input.EntryDate != nil {
		entryDate = input.EntryDate.UTC()
	}

	sourceType := input.SourceType
	if sourceType == "" {
		sourceType = domain.SourceTypeManual
	}

	entry := &domain.JournalEntry{
		ID:            uc.idGen.Generate(),
		EntryDate:     entryDate,
		Description:   input.Description,
		CorrelationID: input.CorrelationID,
		SourceType:    sourceType,
		SourceID:      input.SourceID,
		CreatedAt:     now,
		Lines:         make([]domain.JournalLine, 0, len(input.Lines)),
	}

	for i, l := range input.Lines {
		entry.Lines = append(entry.Lines, domain.JournalLine{
			ID:          uc.idGen.Generate(),
			EntryID:     entry.ID,
			LineNo:      i + 1,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			WalletID:    l.WalletID,
			LandlordID:  l.LandlordID,
			TenantID:    l.TenantID,
			Memo:        l.Memo,
		})
	}

	return entry
}

func (uc *PostingUseCase) append(ctx context.Context, entry *domain.JournalEntry) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.checkAccounts(ctx, tx, entry); err != nil {
		return err
	}

	if err := uc.journalRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *PostingUseCase) checkAccounts(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error {
	codes := entry.AccountCodes()

	accounts, err := uc.accountRepo.GetByCodes(ctx, tx, codes)
	if err != nil {
		return err
	}

	byCode := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}

	for _, code := range codes {
		account, ok := byCode[code]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownAccount, code)
		}
		if err := account.CanPost(); err != nil {
			return fmt.Errorf("%w: %s", err, code)
		}
	}

	return nil
}

func (uc *PostingUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *PostingUseCase) reject(entry *domain.JournalEntry, err error) {
	uc.metrics.EntryRejected(rejectReason(err))
	uc.logger.Warn().
		Err(err).
		Str("correlation_id", entry.CorrelationID).
		Str("source_type", entry.SourceType).
		Msg("journal entry rejected")
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnbalancedEntry):
		return "unbalanced"
	case errors.Is(err, domain.ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive_account"
	case errors.Is(err, domain.ErrAmountPrecision):
		return "precision"
	default:
		return "invalid"
	}
}

// GetEntry retrieves a journal entry by ID.
func (uc *PostingUseCase) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByID(ctx, id)
}

// GetEntryByCorrelationID retrieves the entry posted for a correlation id.
func (uc *PostingUseCase) GetEntryByCorrelationID(ctx context.Context, correlationID string) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByCorrelationID(ctx, correlationID)
}

// GetWalletBalance returns credits minus debits over liability lines tagged with walletID.
func (uc *PostingUseCase) GetWalletBalance(ctx context.Context, walletID string) (decimal.Decimal, error) {
	liability := domain.AccountTypeLiability

	totals, err := uc.journalRepo.SumByAccount(ctx, domain.LineFilter{
		AccountType: &liability,
		WalletID:    &walletID,
	})
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, t := range totals {
		balance = balance.Add(t.Credit.Sub(t.Debit))
	}

	return balance, nil
}
