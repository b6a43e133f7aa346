package dto

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// MaxLinesPerEntry caps how many lines a single posted entry may carry.
const MaxLinesPerEntry = 200

var accountTypes = []any{
	string(domain.AccountTypeAsset),
	string(domain.AccountTypeLiability),
	string(domain.AccountTypeEquity),
	string(domain.AccountTypeIncome),
	string(domain.AccountTypeExpense),
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Validate checks the request shape. Domain rules are enforced again by the use case.
func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Type, validation.Required, validation.In(accountTypes...)),
	)
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code: strings.TrimSpace(r.Code),
		Name: strings.TrimSpace(r.Name),
		Type: domain.AccountType(strings.ToUpper(r.Type)),
	}
}

// PostLineRequest is one line of a journal entry request.
type PostLineRequest struct {
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	WalletID    *string         `json:"wallet_id,omitempty"`
	LandlordID  *string         `json:"landlord_id,omitempty"`
	TenantID    *string         `json:"tenant_id,omitempty"`
	Memo        *string         `json:"memo,omitempty"`
}

// Validate checks the line shape.
func (l PostLineRequest) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.AccountCode, validation.Required),
		validation.Field(&l.Memo, validation.NilOrNotEmpty, validation.Length(0, 500)),
	)
}

// PostEntryRequest represents a request to post a journal entry.
type PostEntryRequest struct {
	CorrelationID string            `json:"correlation_id"`
	SourceType    string            `json:"source_type,omitempty"`
	SourceID      string            `json:"source_id,omitempty"`
	Description   string            `json:"description,omitempty"`
	EntryDate     *time.Time        `json:"entry_date,omitempty"`
	Lines         []PostLineRequest `json:"lines"`
}

// Validate checks the request shape. Balance and precision are checked by the posting service.
func (r PostEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CorrelationID, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.SourceType, validation.Length(0, 64)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Lines, validation.Required, validation.Length(1, MaxLinesPerEntry)),
	)
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput() usecase.PostEntryInput {
	lines := make([]usecase.PostLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.PostLineInput{
			AccountCode: strings.TrimSpace(l.AccountCode),
			Debit:       l.Debit,
			Credit:      l.Credit,
			WalletID:    l.WalletID,
			LandlordID:  l.LandlordID,
			TenantID:    l.TenantID,
			Memo:        l.Memo,
		}
	}

	return usecase.PostEntryInput{
		CorrelationID: strings.TrimSpace(r.CorrelationID),
		SourceType:    strings.ToUpper(strings.TrimSpace(r.SourceType)),
		SourceID:      r.SourceID,
		Description:   r.Description,
		EntryDate:     r.EntryDate,
		Lines:         lines,
	}
}

// ReconcileRequest asks for a wallet reconciliation run over [from, to].
// Dates are RFC3339 or YYYY-MM-DD.
type ReconcileRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate checks that both bounds are present.
func (r ReconcileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.From, validation.Required),
		validation.Field(&r.To, validation.Required),
	)
}
