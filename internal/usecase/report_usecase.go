package usecase

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
)

// StatementRenderer writes an account statement in a document format.
type StatementRenderer interface {
	RenderStatement(w io.Writer, statement *domain.AccountStatement) error
}

// ReportUseCase builds read-only accounting reports from journal lines.
type ReportUseCase struct {
	accountRepo AccountRepository
	journalRepo JournalRepository
	renderer    StatementRenderer
	metrics     MetricsRecorder
	logger      zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase. renderer and metrics may be nil.
func NewReportUseCase(
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	renderer StatementRenderer,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *ReportUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}

	return &ReportUseCase{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		renderer:    renderer,
		metrics:     metrics,
		logger:      logger.With().Str("component", "reports").Logger(),
	}
}

// GetAccountStatement lists an account's lines in [from, to] with a running balance.
func (uc *ReportUseCase) GetAccountStatement(ctx context.Context, code string, from, to time.Time) (*domain.AccountStatement, error) {
	from, to = from.UTC(), to.UTC()
	if err := domain.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	before, err := uc.journalRepo.SumByAccount(ctx, domain.LineFilter{AccountCode: code, Before: &from})
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	for _, t := range before {
		opening = opening.Add(account.Type.SignedBalance(t.Debit, t.Credit))
	}

	lines, err := uc.journalRepo.ListLines(ctx, domain.LineFilter{AccountCode: code, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	statement := &domain.AccountStatement{
		Account:        account,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		Lines:          make([]domain.StatementLine, 0, len(lines)),
	}

	running := opening
	for _, l := range lines {
		running = running.Add(account.Type.SignedBalance(l.Debit, l.Credit))
		statement.TotalDebit = statement.TotalDebit.Add(l.Debit)
		statement.TotalCredit = statement.TotalCredit.Add(l.Credit)
		statement.Lines = append(statement.Lines, domain.StatementLine{LedgerLine: *l, Balance: running})
	}
	statement.ClosingBalance = running

	return statement, nil
}

// ExportStatement renders the statement for code over [from, to] into w.
func (uc *ReportUseCase) ExportStatement(ctx context.Context, w io.Writer, code string, from, to time.Time) (*domain.AccountStatement, error) {
	statement, err := uc.GetAccountStatement(ctx, code, from, to)
	if err != nil {
		return nil, err
	}

	if uc.renderer == nil {
		return nil, domain.ErrRendererUnavailable
	}

	if err := uc.renderer.RenderStatement(w, statement); err != nil {
		return nil, err
	}

	return statement, nil
}

// GetTrialBalance aggregates activity per active account in [from, to].
func (uc *ReportUseCase) GetTrialBalance(ctx context.Context, from, to time.Time) (*domain.TrialBalance, error) {
	from, to = from.UTC(), to.UTC()
	if err := domain.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	totals, err := uc.journalRepo.SumByAccount(ctx, domain.LineFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	sortTotals(totals)

	tb := &domain.TrialBalance{
		From:        from,
		To:          to,
		Rows:        make([]domain.TrialBalanceRow, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, t := range totals {
		if !t.Active || (t.Debit.IsZero() && t.Credit.IsZero()) {
			continue
		}

		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountCode: t.AccountCode,
			AccountName: t.AccountName,
			AccountType: t.AccountType,
			Debit:       t.Debit,
			Credit:      t.Credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(t.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(t.Credit)
	}

	if !tb.Balanced() {
		uc.logger.Warn().
			Str("total_debit", tb.TotalDebit.StringFixed(domain.CurrencyPlaces)).
			Str("total_credit", tb.TotalCredit.StringFixed(domain.CurrencyPlaces)).
			Msg("trial balance does not balance")
	}

	return tb, nil
}

// GetBalanceSheet reports cumulative asset, liability and equity balances up to and including asOf.
// Unclosed income and expense appear as a current earnings row under equity.
func (uc *ReportUseCase) GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	asOf = asOf.UTC()

	totals, err := uc.journalRepo.SumByAccount(ctx, domain.LineFilter{To: &asOf})
	if err != nil {
		return nil, err
	}

	accounts, err := uc.allAccounts(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*domain.AccountTotal, len(totals))
	for _, t := range totals {
		byCode[t.AccountCode] = t
	}

	bs := &domain.BalanceSheet{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}

	earnings := decimal.Zero

	for _, a := range accounts {
		balance := decimal.Zero
		if t, ok := byCode[a.Code]; ok {
			balance = a.Type.SignedBalance(t.Debit, t.Credit)
		}

		if !a.Active && balance.IsZero() {
			continue
		}

		row := domain.AccountAmount{AccountCode: a.Code, AccountName: a.Name, Amount: balance}

		switch a.Type {
		case domain.AccountTypeAsset:
			bs.Assets = append(bs.Assets, row)
			bs.TotalAssets = bs.TotalAssets.Add(balance)
		case domain.AccountTypeLiability:
			bs.Liabilities = append(bs.Liabilities, row)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(balance)
		case domain.AccountTypeEquity:
			bs.Equity = append(bs.Equity, row)
			bs.TotalEquity = bs.TotalEquity.Add(balance)
		case domain.AccountTypeIncome:
			earnings = earnings.Add(balance)
		case domain.AccountTypeExpense:
			earnings = earnings.Sub(balance)
		}
	}

	if !earnings.IsZero() {
		bs.Equity = append(bs.Equity, domain.AccountAmount{AccountName: domain.CurrentEarningsName, Amount: earnings})
		bs.TotalEquity = bs.TotalEquity.Add(earnings)
	}

	if !bs.Balanced() {
		uc.metrics.BalanceSheetImbalance()
		uc.logger.Error().
			Time("as_of", asOf).
			Str("difference", bs.Difference().StringFixed(domain.CurrencyPlaces)).
			Msg("balance sheet does not balance")
	}

	return bs, nil
}

// GetProfit reports income and expense activity in [from, to].
func (uc *ReportUseCase) GetProfit(ctx context.Context, from, to time.Time) (*domain.ProfitReport, error) {
	from, to = from.UTC(), to.UTC()
	if err := domain.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	totals, err := uc.journalRepo.SumByAccount(ctx, domain.LineFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	sortTotals(totals)

	report := &domain.ProfitReport{
		From:         from,
		To:           to,
		Income:       []domain.ProfitRow{},
		Expenses:     []domain.ProfitRow{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, t := range totals {
		row := domain.ProfitRow{
			AccountCode: t.AccountCode,
			AccountName: t.AccountName,
			AccountType: t.AccountType,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Net:         t.Balance(),
		}

		switch t.AccountType {
		case domain.AccountTypeIncome:
			report.Income = append(report.Income, row)
			report.TotalIncome = report.TotalIncome.Add(row.Net)
		case domain.AccountTypeExpense:
			report.Expenses = append(report.Expenses, row)
			report.TotalExpense = report.TotalExpense.Add(row.Net)
		}
	}

	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)

	return report, nil
}

const accountPageSize = 1000

func (uc *ReportUseCase) allAccounts(ctx context.Context) ([]*domain.Account, error) {
	var all []*domain.Account

	for offset := 0; ; offset += accountPageSize {
		page, err := uc.accountRepo.List(ctx, domain.AccountFilter{Limit: accountPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < accountPageSize {
			break
		}
	}

	return all, nil
}

func sortTotals(totals []*domain.AccountTotal) {
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].AccountCode < totals[j].AccountCode
	})
}
