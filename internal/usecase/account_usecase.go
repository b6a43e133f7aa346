package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/domain"
)

// AccountUseCase handles chart-of-accounts business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, logger zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		logger:      logger.With().Str("component", "accounts").Logger(),
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Code string
	Name string
	Type domain.AccountType
}

// CreateAccount creates a new active account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(input.Code); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidAccountType
	}

	now := time.Now().UTC()

	account := &domain.Account{
		Code:      input.Code,
		Name:      strings.TrimSpace(input.Name),
		Type:      input.Type,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("code", account.Code).Str("type", string(account.Type)).Msg("account created")

	return account, nil
}

// GetAccount retrieves an account by code.
func (uc *AccountUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Type   *domain.AccountType
	Active *bool
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Type != nil && !input.Type.IsValid() {
		return nil, domain.ErrInvalidAccountType
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.List(ctx, domain.AccountFilter{
		Type:   input.Type,
		Active: input.Active,
		Limit:  limit,
		Offset: offset,
	})
}

// SetActive activates or deactivates an account. Posted history is unaffected.
func (uc *AccountUseCase) SetActive(ctx context.Context, code string, active bool) (*domain.Account, error) {
	if err := uc.accountRepo.SetActive(ctx, code, active, time.Now().UTC()); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("code", code).Bool("active", active).Msg("account status changed")

	return uc.accountRepo.GetByCode(ctx, code)
}

// DefaultChart is the chart of accounts the wallet postings rely on.
func DefaultChart() []CreateAccountInput {
	return []CreateAccountInput{
		{Code: "1000", Name: "Cash at PSP", Type: domain.AccountTypeAsset},
		{Code: "2000", Name: "Wallet Liability", Type: domain.AccountTypeLiability},
		{Code: "3000", Name: "Owner Equity", Type: domain.AccountTypeEquity},
		{Code: "4000", Name: "Commission Income", Type: domain.AccountTypeIncome},
		{Code: "4100", Name: "SMS Income", Type: domain.AccountTypeIncome},
		{Code: "4200", Name: "Withdrawal Fee Income", Type: domain.AccountTypeIncome},
		{Code: "5000", Name: "PSP Fee Expense", Type: domain.AccountTypeExpense},
	}
}

// SeedChart creates any of the given accounts that do not exist yet and
// returns the codes it created. Existing accounts are left untouched.
func (uc *AccountUseCase) SeedChart(ctx context.Context, chart []CreateAccountInput) ([]string, error) {
	var created []string

	for _, input := range chart {
		_, err := uc.CreateAccount(ctx, input)
		if errors.Is(err, domain.ErrDuplicateAccountCode) {
			continue
		}
		if err != nil {
			return created, err
		}
		created = append(created, input.Code)
	}

	return created, nil
}
