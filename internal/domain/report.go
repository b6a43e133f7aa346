package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one posting in an account statement with the balance after it.
type StatementLine struct {
	LedgerLine
	Balance decimal.Decimal
}

// AccountStatement lists an account's activity over a period with a running balance.
type AccountStatement struct {
	Account        *Account
	From           time.Time
	To             time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	Lines          []StatementLine
}

// TrialBalanceRow holds one account's activity totals.
type TrialBalanceRow struct {
	AccountCode string
	AccountName string
	AccountType AccountType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// TrialBalance lists debit and credit activity per account over a period.
type TrialBalance struct {
	From        time.Time
	To          time.Time
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Balanced reports whether the debit and credit columns agree.
func (tb *TrialBalance) Balanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}

// AccountAmount is a report row carrying a signed balance.
type AccountAmount struct {
	AccountCode string
	AccountName string
	Amount      decimal.Decimal
}

// CurrentEarningsName labels the synthetic equity row for unclosed income and expense.
const CurrentEarningsName = "Current earnings"

// BalanceSheet is the position of asset, liability and equity accounts at a point in time.
type BalanceSheet struct {
	AsOf             time.Time
	Assets           []AccountAmount
	Liabilities      []AccountAmount
	Equity           []AccountAmount
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal
}

// Difference returns assets minus liabilities and equity. Zero on a sound ledger.
func (bs *BalanceSheet) Difference() decimal.Decimal {
	return bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity))
}

// Balanced reports whether the accounting equation holds.
func (bs *BalanceSheet) Balanced() bool {
	return bs.Difference().IsZero()
}

// ProfitRow is one income or expense account's contribution to profit.
type ProfitRow struct {
	AccountCode string
	AccountName string
	AccountType AccountType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Net         decimal.Decimal
}

// ProfitReport summarises income and expense over a period.
type ProfitReport struct {
	From         time.Time
	To           time.Time
	Income       []ProfitRow
	Expenses     []ProfitRow
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetProfit    decimal.Decimal
}
