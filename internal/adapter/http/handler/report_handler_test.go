package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
)

type reportServiceStub struct {
	statementFn    func(ctx context.Context, code string, from, to time.Time) (*domain.AccountStatement, error)
	exportFn       func(ctx context.Context, w io.Writer, code string, from, to time.Time) (*domain.AccountStatement, error)
	trialBalanceFn func(ctx context.Context, from, to time.Time) (*domain.TrialBalance, error)
	balanceSheetFn func(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
	profitFn       func(ctx context.Context, from, to time.Time) (*domain.ProfitReport, error)
}

func (s *reportServiceStub) GetAccountStatement(ctx context.Context, code string, from, to time.Time) (*domain.AccountStatement, error) {
	return s.statementFn(ctx, code, from, to)
}

func (s *reportServiceStub) ExportStatement(ctx context.Context, w io.Writer, code string, from, to time.Time) (*domain.AccountStatement, error) {
	return s.exportFn(ctx, w, code, from, to)
}

func (s *reportServiceStub) GetTrialBalance(ctx context.Context, from, to time.Time) (*domain.TrialBalance, error) {
	return s.trialBalanceFn(ctx, from, to)
}

func (s *reportServiceStub) GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	return s.balanceSheetFn(ctx, asOf)
}

func (s *reportServiceStub) GetProfit(ctx context.Context, from, to time.Time) (*domain.ProfitReport, error) {
	return s.profitFn(ctx, from, to)
}

func TestReportHandler_Statement(t *testing.T) {
	var gotFrom, gotTo time.Time
	handler := NewReportHandler(&reportServiceStub{
		statementFn: func(ctx context.Context, code string, from, to time.Time) (*domain.AccountStatement, error) {
			gotFrom, gotTo = from, to
			return &domain.AccountStatement{
				Account:        &domain.Account{Code: code, Name: "Wallet", Type: domain.AccountTypeLiability},
				From:           from,
				To:             to,
				OpeningBalance: decimal.NewFromInt(100),
				ClosingBalance: decimal.NewFromInt(150),
				TotalCredit:    decimal.NewFromInt(50),
				Lines: []domain.StatementLine{{
					LedgerLine: domain.LedgerLine{JournalLine: domain.JournalLine{EntryID: "e1", Credit: decimal.NewFromInt(50)}},
					Balance:    decimal.NewFromInt(150),
				}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/accounts/2000/statement?from=2024-03-01&to=2024-03-31", nil)
	rec := httptest.NewRecorder()

	handler.Statement(rec, withURLParams(req, map[string]string{"code": "2000"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) || gotTo.Day() != 31 || gotTo.Hour() != 23 {
		t.Fatalf("unexpected range %v..%v", gotFrom, gotTo)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OpeningBalance != "100.00" || resp.ClosingBalance != "150.00" || resp.Lines[0].Balance != "150.00" {
		t.Fatalf("unexpected statement %+v", resp)
	}
}

func TestReportHandler_Statement_BadRange(t *testing.T) {
	handler := NewReportHandler(&reportServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/reports/accounts/2000/statement?from=yesterday&to=2024-03-31", nil)
	rec := httptest.NewRecorder()

	handler.Statement(rec, withURLParams(req, map[string]string{"code": "2000"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReportHandler_StatementPDF(t *testing.T) {
	t.Run("writes document", func(t *testing.T) {
		handler := NewReportHandler(&reportServiceStub{
			exportFn: func(ctx context.Context, w io.Writer, code string, from, to time.Time) (*domain.AccountStatement, error) {
				_, err := io.WriteString(w, "%PDF-1.3")
				return &domain.AccountStatement{}, err
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/reports/accounts/1000/statement.pdf?from=2024-03-01&to=2024-03-31", nil)
		rec := httptest.NewRecorder()

		handler.StatementPDF(rec, withURLParams(req, map[string]string{"code": "1000"}))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Fatalf("unexpected content type %s", ct)
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), "statement-1000-2024-03-01-2024-03-31.pdf") {
			t.Fatalf("unexpected disposition %s", rec.Header().Get("Content-Disposition"))
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF") {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("renderer missing", func(t *testing.T) {
		handler := NewReportHandler(&reportServiceStub{
			exportFn: func(ctx context.Context, w io.Writer, code string, from, to time.Time) (*domain.AccountStatement, error) {
				_, _ = io.WriteString(w, "partial")
				return nil, domain.ErrRendererUnavailable
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/reports/accounts/1000/statement.pdf?from=2024-03-01&to=2024-03-31", nil)
		rec := httptest.NewRecorder()

		handler.StatementPDF(rec, withURLParams(req, map[string]string{"code": "1000"}))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "partial") {
			t.Fatalf("partial document leaked into error response")
		}
	})
}

func TestReportHandler_TrialBalance(t *testing.T) {
	handler := NewReportHandler(&reportServiceStub{
		trialBalanceFn: func(ctx context.Context, from, to time.Time) (*domain.TrialBalance, error) {
			return &domain.TrialBalance{
				Rows: []domain.TrialBalanceRow{
					{AccountCode: "1000", AccountType: domain.AccountTypeAsset, Debit: decimal.NewFromInt(10)},
					{AccountCode: "2000", AccountType: domain.AccountTypeLiability, Credit: decimal.NewFromInt(10)},
				},
				TotalDebit:  decimal.NewFromInt(10),
				TotalCredit: decimal.NewFromInt(10),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/trial-balance?from=2024-01-01&to=2024-12-31", nil)
	rec := httptest.NewRecorder()

	handler.TrialBalance(rec, req)

	var resp dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balanced || len(resp.Rows) != 2 || resp.TotalDebit != "10.00" {
		t.Fatalf("unexpected trial balance %+v", resp)
	}
}

func TestReportHandler_TrialBalance_InvertedRange(t *testing.T) {
	handler := NewReportHandler(&reportServiceStub{
		trialBalanceFn: func(ctx context.Context, from, to time.Time) (*domain.TrialBalance, error) {
			return nil, domain.ErrInvalidDateRange
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/trial-balance?from=2024-12-31&to=2024-01-01", nil)
	rec := httptest.NewRecorder()

	handler.TrialBalance(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReportHandler_BalanceSheet(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	var gotAsOf time.Time
	handler := NewReportHandler(&reportServiceStub{
		balanceSheetFn: func(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
			gotAsOf = asOf
			return &domain.BalanceSheet{
				AsOf:        asOf,
				Assets:      []domain.AccountAmount{{AccountCode: "1000", Amount: decimal.NewFromInt(9900)}},
				Liabilities: []domain.AccountAmount{{AccountCode: "2000", Amount: decimal.NewFromInt(9800)}},
				Equity:      []domain.AccountAmount{{AccountName: domain.CurrentEarningsName, Amount: decimal.NewFromInt(100)}},
				TotalAssets: decimal.NewFromInt(9900), TotalLiabilities: decimal.NewFromInt(9800), TotalEquity: decimal.NewFromInt(100),
			}, nil
		},
	})
	handler.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	handler.BalanceSheet(rec, httptest.NewRequest(http.MethodGet, "/reports/balance-sheet", nil))

	if !gotAsOf.Equal(now) {
		t.Fatalf("expected as_of to default to now, got %v", gotAsOf)
	}

	var resp dto.BalanceSheetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balanced || resp.Equity[0].AccountName != domain.CurrentEarningsName {
		t.Fatalf("unexpected balance sheet %+v", resp)
	}

	rec = httptest.NewRecorder()
	handler.BalanceSheet(rec, httptest.NewRequest(http.MethodGet, "/reports/balance-sheet?as_of=2024-03-31", nil))
	if gotAsOf.Month() != time.March || gotAsOf.Hour() != 23 {
		t.Fatalf("expected end of day for date-only as_of, got %v", gotAsOf)
	}
}

func TestReportHandler_Profit(t *testing.T) {
	handler := NewReportHandler(&reportServiceStub{
		profitFn: func(ctx context.Context, from, to time.Time) (*domain.ProfitReport, error) {
			return &domain.ProfitReport{
				Income:       []domain.ProfitRow{{AccountCode: "4000", Net: decimal.NewFromInt(650)}},
				Expenses:     []domain.ProfitRow{{AccountCode: "5000", Net: decimal.NewFromInt(300)}},
				TotalIncome:  decimal.NewFromInt(650),
				TotalExpense: decimal.NewFromInt(300),
				NetProfit:    decimal.NewFromInt(350),
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Profit(rec, httptest.NewRequest(http.MethodGet, "/reports/profit?from=2024-03-01&to=2024-03-31", nil))

	var resp dto.ProfitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.NetProfit != "350.00" || resp.Income[0].Net != "650.00" {
		t.Fatalf("unexpected profit %+v", resp)
	}
}
