package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
	"github.com/iho/walletledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		db:      db,
		queries: generated.New(db),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		Code:      account.Code,
		Name:      account.Name,
		Type:      string(account.Type),
		Active:    account.Active,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
	if isUniqueViolation(err, accountsPrimaryKey) {
		return domain.ErrDuplicateAccountCode
	}

	return err
}

// GetByCode retrieves an account by code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByCodes retrieves the accounts among codes, share-locked when tx is set.
func (r *AccountRepository) GetByCodes(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	queries, err := queriesFor(tx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := queries.GetAccountsByCodesForShare(ctx, codes)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// List lists accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	params := generated.ListAccountsParams{
		Limit:  int32(filter.Limit),
		Offset: int32(filter.Offset),
	}
	if filter.Type != nil {
		params.Type = pgtype.Text{String: string(*filter.Type), Valid: true}
	}
	if filter.Active != nil {
		params.Active = pgtype.Bool{Bool: *filter.Active, Valid: true}
	}

	rows, err := r.queries.ListAccounts(ctx, params)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// SetActive flips the active flag of an account.
func (r *AccountRepository) SetActive(ctx context.Context, code string, active bool, updatedAt time.Time) error {
	n, err := r.queries.SetAccountActive(ctx, generated.SetAccountActiveParams{
		Code:      code,
		Active:    active,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		Code:      row.Code,
		Name:      row.Name,
		Type:      domain.AccountType(row.Type),
		Active:    row.Active,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
