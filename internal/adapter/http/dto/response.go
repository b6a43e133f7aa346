package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// Money renders an amount with exactly two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	NormalSide string    `json:"normal_side"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Code:       a.Code,
		Name:       a.Name,
		Type:       string(a.Type),
		NormalSide: string(a.Type.NormalSide()),
		Active:     a.Active,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// JournalLineResponse represents a journal line in API responses.
type JournalLineResponse struct {
	LineNo      int     `json:"line_no"`
	AccountCode string  `json:"account_code"`
	Debit       string  `json:"debit"`
	Credit      string  `json:"credit"`
	WalletID    *string `json:"wallet_id,omitempty"`
	LandlordID  *string `json:"landlord_id,omitempty"`
	TenantID    *string `json:"tenant_id,omitempty"`
	Memo        *string `json:"memo,omitempty"`
}

// JournalEntryResponse represents a journal entry in API responses.
type JournalEntryResponse struct {
	ID            string                `json:"id"`
	CorrelationID string                `json:"correlation_id"`
	EntryDate     time.Time             `json:"entry_date"`
	Description   string                `json:"description,omitempty"`
	SourceType    string                `json:"source_type"`
	SourceID      string                `json:"source_id,omitempty"`
	TotalDebit    string                `json:"total_debit"`
	TotalCredit   string                `json:"total_credit"`
	CreatedAt     time.Time             `json:"created_at"`
	Lines         []JournalLineResponse `json:"lines"`
}

// JournalEntryFromDomain converts a domain entry to response.
func JournalEntryFromDomain(e *domain.JournalEntry) *JournalEntryResponse {
	debit, credit := e.Totals()

	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineNo:      l.LineNo,
			AccountCode: l.AccountCode,
			Debit:       Money(l.Debit),
			Credit:      Money(l.Credit),
			WalletID:    l.WalletID,
			LandlordID:  l.LandlordID,
			TenantID:    l.TenantID,
			Memo:        l.Memo,
		}
	}

	return &JournalEntryResponse{
		ID:            e.ID,
		CorrelationID: e.CorrelationID,
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		SourceType:    e.SourceType,
		SourceID:      e.SourceID,
		TotalDebit:    Money(debit),
		TotalCredit:   Money(credit),
		CreatedAt:     e.CreatedAt,
		Lines:         lines,
	}
}

// WalletBalanceResponse is a wallet's net position in the wallet liability account.
type WalletBalanceResponse struct {
	WalletID string `json:"wallet_id"`
	Balance  string `json:"balance"`
}

// StatementLineResponse is one row of an account statement.
type StatementLineResponse struct {
	EntryID       string    `json:"entry_id"`
	EntryDate     time.Time `json:"entry_date"`
	CorrelationID string    `json:"correlation_id"`
	Description   string    `json:"description,omitempty"`
	Memo          *string   `json:"memo,omitempty"`
	WalletID      *string   `json:"wallet_id,omitempty"`
	Debit         string    `json:"debit"`
	Credit        string    `json:"credit"`
	Balance       string    `json:"balance"`
}

// StatementResponse is an account statement with running balance.
type StatementResponse struct {
	Account        *AccountResponse        `json:"account"`
	From           time.Time               `json:"from"`
	To             time.Time               `json:"to"`
	OpeningBalance string                  `json:"opening_balance"`
	TotalDebit     string                  `json:"total_debit"`
	TotalCredit    string                  `json:"total_credit"`
	ClosingBalance string                  `json:"closing_balance"`
	Lines          []StatementLineResponse `json:"lines"`
}

// StatementFromDomain converts a domain statement to response.
func StatementFromDomain(s *domain.AccountStatement) *StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = StatementLineResponse{
			EntryID:       l.EntryID,
			EntryDate:     l.EntryDate,
			CorrelationID: l.CorrelationID,
			Description:   l.Description,
			Memo:          l.Memo,
			WalletID:      l.WalletID,
			Debit:         Money(l.Debit),
			Credit:        Money(l.Credit),
			Balance:       Money(l.Balance),
		}
	}

	return &StatementResponse{
		Account:        AccountFromDomain(s.Account),
		From:           s.From,
		To:             s.To,
		OpeningBalance: Money(s.OpeningBalance),
		TotalDebit:     Money(s.TotalDebit),
		TotalCredit:    Money(s.TotalCredit),
		ClosingBalance: Money(s.ClosingBalance),
		Lines:          lines,
	}
}

// TrialBalanceRowResponse is one account in a trial balance.
type TrialBalanceRowResponse struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// TrialBalanceResponse is the trial balance over a period.
type TrialBalanceResponse struct {
	From        time.Time                 `json:"from"`
	To          time.Time                 `json:"to"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  string                    `json:"total_debit"`
	TotalCredit string                    `json:"total_credit"`
	Balanced    bool                      `json:"balanced"`
}

// TrialBalanceFromDomain converts a domain trial balance to response.
func TrialBalanceFromDomain(tb *domain.TrialBalance) *TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			Debit:       Money(r.Debit),
			Credit:      Money(r.Credit),
		}
	}

	return &TrialBalanceResponse{
		From:        tb.From,
		To:          tb.To,
		Rows:        rows,
		TotalDebit:  Money(tb.TotalDebit),
		TotalCredit: Money(tb.TotalCredit),
		Balanced:    tb.Balanced(),
	}
}

// AmountRowResponse is an account and its signed balance.
type AmountRowResponse struct {
	AccountCode string `json:"account_code,omitempty"`
	AccountName string `json:"account_name"`
	Amount      string `json:"amount"`
}

func amountRows(rows []domain.AccountAmount) []AmountRowResponse {
	out := make([]AmountRowResponse, len(rows))
	for i, r := range rows {
		out[i] = AmountRowResponse{AccountCode: r.AccountCode, AccountName: r.AccountName, Amount: Money(r.Amount)}
	}
	return out
}

// BalanceSheetResponse is the balance sheet at a point in time.
type BalanceSheetResponse struct {
	AsOf             time.Time           `json:"as_of"`
	Assets           []AmountRowResponse `json:"assets"`
	Liabilities      []AmountRowResponse `json:"liabilities"`
	Equity           []AmountRowResponse `json:"equity"`
	TotalAssets      string              `json:"total_assets"`
	TotalLiabilities string              `json:"total_liabilities"`
	TotalEquity      string              `json:"total_equity"`
	Balanced         bool                `json:"balanced"`
}

// BalanceSheetFromDomain converts a domain balance sheet to response.
func BalanceSheetFromDomain(bs *domain.BalanceSheet) *BalanceSheetResponse {
	return &BalanceSheetResponse{
		AsOf:             bs.AsOf,
		Assets:           amountRows(bs.Assets),
		Liabilities:      amountRows(bs.Liabilities),
		Equity:           amountRows(bs.Equity),
		TotalAssets:      Money(bs.TotalAssets),
		TotalLiabilities: Money(bs.TotalLiabilities),
		TotalEquity:      Money(bs.TotalEquity),
		Balanced:         bs.Balanced(),
	}
}

// ProfitRowResponse is one income or expense account in a profit report.
type ProfitRowResponse struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Net         string `json:"net"`
}

func profitRows(rows []domain.ProfitRow) []ProfitRowResponse {
	out := make([]ProfitRowResponse, len(rows))
	for i, r := range rows {
		out[i] = ProfitRowResponse{
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			Debit:       Money(r.Debit),
			Credit:      Money(r.Credit),
			Net:         Money(r.Net),
		}
	}
	return out
}

// ProfitResponse is income less expense over a period.
type ProfitResponse struct {
	From         time.Time           `json:"from"`
	To           time.Time           `json:"to"`
	Income       []ProfitRowResponse `json:"income"`
	Expenses     []ProfitRowResponse `json:"expenses"`
	TotalIncome  string              `json:"total_income"`
	TotalExpense string              `json:"total_expense"`
	NetProfit    string              `json:"net_profit"`
}

// ProfitFromDomain converts a domain profit report to response.
func ProfitFromDomain(p *domain.ProfitReport) *ProfitResponse {
	return &ProfitResponse{
		From:         p.From,
		To:           p.To,
		Income:       profitRows(p.Income),
		Expenses:     profitRows(p.Expenses),
		TotalIncome:  Money(p.TotalIncome),
		TotalExpense: Money(p.TotalExpense),
		NetProfit:    Money(p.NetProfit),
	}
}

// ChargesResponse is the fee breakdown for a prospective wallet transaction.
type ChargesResponse struct {
	Kind       string            `json:"kind"`
	Channel    string            `json:"channel"`
	Amount     string            `json:"amount"`
	Components map[string]string `json:"components"`
	Total      string            `json:"total"`
}

// DepositChargesResponse converts deposit charges to response.
func DepositChargesResponse(channel domain.Channel, amount decimal.Decimal, c *domain.DepositCharges) *ChargesResponse {
	return &ChargesResponse{
		Kind:    string(domain.ChargeKindDeposit),
		Channel: string(channel),
		Amount:  Money(amount),
		Components: map[string]string{
			domain.ComponentPSPFee:     Money(c.PSPFee),
			domain.ComponentSMSCharge:  Money(c.SMSChargeToWallet),
			domain.ComponentCommission: Money(c.CommissionToWallet),
		},
		Total: Money(c.SMSChargeToWallet.Add(c.CommissionToWallet)),
	}
}

// WithdrawalChargesResponse converts withdrawal charges to response.
func WithdrawalChargesResponse(channel domain.Channel, amount decimal.Decimal, c *domain.WithdrawalCharges) *ChargesResponse {
	return &ChargesResponse{
		Kind:    string(domain.ChargeKindWithdrawal),
		Channel: string(channel),
		Amount:  Money(amount),
		Components: map[string]string{
			domain.ComponentPSPFee:     Money(c.PSPFeeExpense),
			domain.ComponentCompanyFee: Money(c.CompanyFeeToWallet),
		},
		Total: Money(c.CompanyFeeToWallet),
	}
}

// TransactionOutcomeResponse is what a reconciliation run did with one wallet transaction.
type TransactionOutcomeResponse struct {
	TransactionID string `json:"transaction_id"`
	Outcome       string `json:"outcome"`
	EntryID       string `json:"entry_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ReconciliationResponse summarises a reconciliation run.
type ReconciliationResponse struct {
	From      time.Time                    `json:"from"`
	To        time.Time                    `json:"to"`
	Processed int                          `json:"processed"`
	Skipped   int                          `json:"skipped"`
	Failed    int                          `json:"failed"`
	Outcomes  []TransactionOutcomeResponse `json:"outcomes"`
}

// ReconciliationFromResult converts a run result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	outcomes := make([]TransactionOutcomeResponse, len(r.Outcomes))
	for i, o := range r.Outcomes {
		outcomes[i] = TransactionOutcomeResponse{
			TransactionID: o.TransactionID,
			Outcome:       string(o.Outcome),
			EntryID:       o.EntryID,
			Error:         o.Error,
		}
	}

	return &ReconciliationResponse{
		From:      r.From,
		To:        r.To,
		Processed: r.Processed,
		Skipped:   r.Skipped,
		Failed:    r.Failed,
		Outcomes:  outcomes,
	}
}

// ConsistencyResponse reports whether the ledger balances.
type ConsistencyResponse struct {
	Consistent        bool     `json:"consistent"`
	TotalDebit        string   `json:"total_debit"`
	TotalCredit       string   `json:"total_credit"`
	UnbalancedEntries []string `json:"unbalanced_entries,omitempty"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:        r.Consistent,
		TotalDebit:        Money(r.TotalDebit),
		TotalCredit:       Money(r.TotalCredit),
		UnbalancedEntries: r.UnbalancedEntries,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}
