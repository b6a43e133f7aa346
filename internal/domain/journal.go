package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Source types for journal entries created by the system.
const (
	SourceTypeWalletDeposit    = "WALLET_DEPOSIT"
	SourceTypeWalletWithdrawal = "WALLET_WITHDRAWAL"
	SourceTypeManual           = "MANUAL"
)

// JournalEntry is one atomic, balanced accounting event. Entries are append-only.
type JournalEntry struct {
	ID            string
	EntryDate     time.Time
	Description   string
	CorrelationID string
	SourceType    string
	SourceID      string
	CreatedAt     time.Time
	Lines         []JournalLine
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	ID          string
	EntryID     string
	LineNo      int
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	WalletID    *string
	LandlordID  *string
	TenantID    *string
	Memo        *string
}

// Side returns which side of the ledger the line posts to.
func (l *JournalLine) Side() Side {
	if l.Debit.IsPositive() {
		return SideDebit
	}
	return SideCredit
}

// Amount returns the non-zero side of the line.
func (l *JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// Validate checks the single-side and precision constraints of a line.
func (l *JournalLine) Validate() error {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d", ErrInvalidAmount, l.LineNo)
	}

	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()
	if debitSet == creditSet {
		return fmt.Errorf("%w: line %d", ErrInvalidLine, l.LineNo)
	}

	if err := ValidateAmount(l.Amount()); err != nil {
		return fmt.Errorf("line %d: %w", l.LineNo, err)
	}

	return nil
}

// Totals returns the sum of debits and credits across all lines.
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for i := range e.Lines {
		debit = debit.Add(e.Lines[i].Debit)
		credit = credit.Add(e.Lines[i].Credit)
	}
	return debit, credit
}

// Validate checks that the entry is well formed and balances to zero.
func (e *JournalEntry) Validate() error {
	if err := ValidateCorrelationID(e.CorrelationID); err != nil {
		return err
	}

	if len(e.Lines) == 0 {
		return ErrNoLines
	}

	for i := range e.Lines {
		if err := e.Lines[i].Validate(); err != nil {
			return err
		}
	}

	debit, credit := e.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit=%s credit=%s", ErrUnbalancedEntry, debit.StringFixed(2), credit.StringFixed(2))
	}

	return nil
}

// AccountCodes returns the distinct account codes referenced by the entry, in line order.
func (e *JournalEntry) AccountCodes() []string {
	seen := make(map[string]bool)

	var codes []string
	for _, l := range e.Lines {
		if !seen[l.AccountCode] {
			seen[l.AccountCode] = true
			codes = append(codes, l.AccountCode)
		}
	}

	return codes
}

// LedgerLine is a journal line joined with its entry and account metadata.
type LedgerLine struct {
	JournalLine
	EntryDate     time.Time
	Description   string
	CorrelationID string
	SourceType    string
	SourceID      string
	AccountName   string
	AccountType   AccountType
}

// LineFilter narrows line queries. Zero values are not applied.
// From and To are inclusive; Before is an exclusive upper bound.
type LineFilter struct {
	AccountCode string
	AccountType *AccountType
	From        *time.Time
	To          *time.Time
	Before      *time.Time
	WalletID    *string
	LandlordID  *string
	TenantID    *string
}

// AccountTotal is the aggregate debit and credit activity of one account.
type AccountTotal struct {
	AccountCode string
	AccountName string
	AccountType AccountType
	Active      bool
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Balance returns the total netted on the account's normal side.
func (t *AccountTotal) Balance() decimal.Decimal {
	return t.AccountType.SignedBalance(t.Debit, t.Credit)
}
