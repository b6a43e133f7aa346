package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the accounting class of an account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Side is the debit or credit side of a posting.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// NormalSide returns the side on which the account type increases.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// SignedBalance nets debit and credit totals according to the normal side.
func (t AccountType) SignedBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if t.NormalSide() == SideDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Account is a chart-of-accounts entry. Code never changes once created.
type Account struct {
	Code      string
	Name      string
	Type      AccountType
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanPost reports whether journal lines may reference this account.
func (a *Account) CanPost() error {
	if !a.Active {
		return ErrAccountInactive
	}
	return nil
}

// AccountFilter narrows account listings. Nil fields are not applied.
type AccountFilter struct {
	Type   *AccountType
	Active *bool
	Limit  int
	Offset int
}
