package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
	"github.com/iho/walletledger/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db generated.DBTX) *JournalRepository {
	return &JournalRepository{
		db:      db,
		queries: generated.New(db),
	}
}

// Create inserts the entry header and all of its lines inside tx.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	queries, err := queriesFor(tx, r.db)
	if err != nil {
		return err
	}

	err = queries.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:            entry.ID,
		EntryDate:     timeToPgTimestamptz(entry.EntryDate),
		Description:   entry.Description,
		CorrelationID: entry.CorrelationID,
		SourceType:    entry.SourceType,
		SourceID:      entry.SourceID,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		if isUniqueViolation(err, journalCorrelationIDUniqueKey) {
			return domain.ErrDuplicateCorrelationID
		}
		return fmt.Errorf("insert journal entry: %w", err)
	}

	for _, line := range entry.Lines {
		err := queries.CreateJournalLine(ctx, generated.CreateJournalLineParams{
			ID:          line.ID,
			EntryID:     entry.ID,
			LineNo:      int32(line.LineNo),
			AccountCode: line.AccountCode,
			Debit:       decimalToNumeric(line.Debit),
			Credit:      decimalToNumeric(line.Credit),
			WalletID:    optionalText(line.WalletID),
			LandlordID:  optionalText(line.LandlordID),
			TenantID:    optionalText(line.TenantID),
			Memo:        optionalText(line.Memo),
		})
		if err != nil {
			return fmt.Errorf("insert journal line %d: %w", line.LineNo, err)
		}
	}

	return nil
}

// GetByID retrieves an entry with its lines.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row, err := r.queries.GetJournalEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return r.withLines(ctx, row)
}

// GetByCorrelationID retrieves the entry posted for a correlation id.
func (r *JournalRepository) GetByCorrelationID(ctx context.Context, correlationID string) (*domain.JournalEntry, error) {
	row, err := r.queries.GetJournalEntryByCorrelationID(ctx, correlationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return r.withLines(ctx, row)
}

// ListLines returns ledger lines matching filter.
func (r *JournalRepository) ListLines(ctx context.Context, filter domain.LineFilter) ([]*domain.LedgerLine, error) {
	rows, err := r.queries.ListLedgerLines(ctx, lineFilterParams(filter))
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.LedgerLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, &domain.LedgerLine{
			JournalLine: domain.JournalLine{
				ID:          row.ID,
				EntryID:     row.EntryID,
				LineNo:      int(row.LineNo),
				AccountCode: row.AccountCode,
				Debit:       numericToDecimal(row.Debit),
				Credit:      numericToDecimal(row.Credit),
				WalletID:    textToPtr(row.WalletID),
				LandlordID:  textToPtr(row.LandlordID),
				TenantID:    textToPtr(row.TenantID),
				Memo:        textToPtr(row.Memo),
			},
			EntryDate:     row.EntryDate.Time,
			Description:   row.Description,
			CorrelationID: row.CorrelationID,
			SourceType:    row.SourceType,
			SourceID:      row.SourceID,
			AccountName:   row.AccountName,
			AccountType:   domain.AccountType(row.AccountType),
		})
	}

	return lines, nil
}

// SumByAccount aggregates debit and credit per account.
func (r *JournalRepository) SumByAccount(ctx context.Context, filter domain.LineFilter) ([]*domain.AccountTotal, error) {
	rows, err := r.queries.SumLedgerLinesByAccount(ctx, generated.SumLedgerLinesByAccountParams(lineFilterParams(filter)))
	if err != nil {
		return nil, err
	}

	totals := make([]*domain.AccountTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, &domain.AccountTotal{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: domain.AccountType(row.AccountType),
			Active:      row.AccountActive,
			Debit:       numericToDecimal(row.TotalDebit),
			Credit:      numericToDecimal(row.TotalCredit),
		})
	}

	return totals, nil
}

func (r *JournalRepository) withLines(ctx context.Context, row generated.JournalEntry) (*domain.JournalEntry, error) {
	lineRows, err := r.queries.ListJournalLinesByEntry(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	entry := &domain.JournalEntry{
		ID:            row.ID,
		EntryDate:     row.EntryDate.Time,
		Description:   row.Description,
		CorrelationID: row.CorrelationID,
		SourceType:    row.SourceType,
		SourceID:      row.SourceID,
		CreatedAt:     row.CreatedAt.Time,
		Lines:         make([]domain.JournalLine, 0, len(lineRows)),
	}

	for _, l := range lineRows {
		entry.Lines = append(entry.Lines, domain.JournalLine{
			ID:          l.ID,
			EntryID:     l.EntryID,
			LineNo:      int(l.LineNo),
			AccountCode: l.AccountCode,
			Debit:       numericToDecimal(l.Debit),
			Credit:      numericToDecimal(l.Credit),
			WalletID:    textToPtr(l.WalletID),
			LandlordID:  textToPtr(l.LandlordID),
			TenantID:    textToPtr(l.TenantID),
			Memo:        textToPtr(l.Memo),
		})
	}

	return entry, nil
}

func lineFilterParams(f domain.LineFilter) generated.ListLedgerLinesParams {
	params := generated.ListLedgerLinesParams{
		AccountCode: textOrNull(f.AccountCode),
		FromDate:    optionalTimestamptz(f.From),
		ToDate:      optionalTimestamptz(f.To),
		BeforeDate:  optionalTimestamptz(f.Before),
		WalletID:    optionalText(f.WalletID),
		LandlordID:  optionalText(f.LandlordID),
		TenantID:    optionalText(f.TenantID),
	}
	if f.AccountType != nil {
		params.AccountType = textOrNull(string(*f.AccountType))
	}

	return params
}
