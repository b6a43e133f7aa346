package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
)

// ReportService is the subset of the report use case the handler needs.
type ReportService interface {
	GetAccountStatement(ctx context.Context, code string, from, to time.Time) (*domain.AccountStatement, error)
	ExportStatement(ctx context.Context, w io.Writer, code string, from, to time.Time) (*domain.AccountStatement, error)
	GetTrialBalance(ctx context.Context, from, to time.Time) (*domain.TrialBalance, error)
	GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
	GetProfit(ctx context.Context, from, to time.Time) (*domain.ProfitReport, error)
}

// ReportHandler serves accounting reports.
type ReportHandler struct {
	reportUC ReportService
	now      func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, now: time.Now}
}

// Statement handles GET /api/v1/reports/accounts/{code}/statement?from&to.
func (h *ReportHandler) Statement(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	statement, err := h.reportUC.GetAccountStatement(r.Context(), chi.URLParam(r, "code"), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}

// StatementPDF handles GET /api/v1/reports/accounts/{code}/statement.pdf?from&to.
// The document is rendered in memory so a failure still yields a JSON error.
func (h *ReportHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	code := chi.URLParam(r, "code")

	var buf bytes.Buffer
	if _, err := h.reportUC.ExportStatement(r.Context(), &buf, code, from, to); err != nil {
		writeDomainError(w, err)
		return
	}

	filename := fmt.Sprintf("statement-%s-%s-%s.pdf", code, from.Format(dateOnlyLayout), to.Format(dateOnlyLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// TrialBalance handles GET /api/v1/reports/trial-balance?from&to.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	tb, err := h.reportUC.GetTrialBalance(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(tb))
}

// BalanceSheet handles GET /api/v1/reports/balance-sheet?as_of.
// as_of defaults to now.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf := h.now().UTC()
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := parseDate(v, true)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request", "as_of: "+err.Error())
			return
		}
		asOf = t
	}

	bs, err := h.reportUC.GetBalanceSheet(r.Context(), asOf)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(bs))
}

// Profit handles GET /api/v1/reports/profit?from&to.
func (h *ReportHandler) Profit(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	profit, err := h.reportUC.GetProfit(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfitFromDomain(profit))
}
