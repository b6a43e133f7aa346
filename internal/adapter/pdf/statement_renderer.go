// Package pdf renders account statements as PDF documents.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
)

const (
	pageBreakY = 270
	rowHeight  = 7
	maxMemo    = 60
)

var columnWidths = []float64{24, 22, 64, 24, 24, 24}

var columnHeaders = []string{"DATE", "REF", "DESCRIPTION", "DEBIT", "CREDIT", "BALANCE"}

// StatementRenderer implements usecase.StatementRenderer with gofpdf.
type StatementRenderer struct {
	title string
	now   func() time.Time
}

// NewStatementRenderer creates a renderer whose documents carry title in the header.
func NewStatementRenderer(title string) *StatementRenderer {
	return &StatementRenderer{title: title, now: time.Now}
}

// RenderStatement writes s to w as a single PDF document.
func (r *StatementRenderer) RenderStatement(w io.Writer, s *domain.AccountStatement) error {
	generated := r.now().UTC()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetCreationDate(generated)
	pdf.SetTitle(fmt.Sprintf("%s statement %s", r.title, s.Account.Code), false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Generated %s - page %d", generated.Format(time.RFC3339), pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.title+" Account Statement")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("Account: %s %s (%s)", s.Account.Code, s.Account.Name, s.Account.Type))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", s.From.Format("2006-01-02"), s.To.Format("2006-01-02")))
	pdf.Ln(9)

	summary(pdf, s)
	pdf.Ln(6)

	header(pdf)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(30, 30, 30)

	for _, l := range s.Lines {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			header(pdf)
			pdf.SetFont("Helvetica", "", 8)
		}

		cells := []string{
			l.EntryDate.Format("2006-01-02"),
			trimTo(l.CorrelationID, 14),
			trimTo(description(l), maxMemo),
			amountOrBlank(l.Debit),
			amountOrBlank(l.Credit),
			formatMoney(l.Balance),
		}
		for i, c := range cells {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[i], rowHeight, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(s.Lines) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, rowHeight, "No activity in this period", "1", 1, "C", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build statement pdf: %w", err)
	}
	return pdf.Output(w)
}

func summary(pdf *gofpdf.Fpdf, s *domain.AccountStatement) {
	w := []float64{45.5, 45.5, 45.5, 45.5}
	labels := []string{"Opening", "Debits", "Credits", "Closing"}
	values := []decimal.Decimal{s.OpeningBalance, s.TotalDebit, s.TotalCredit, s.ClosingBalance}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 10)
	for i, label := range labels {
		ln := 0
		if i == len(labels)-1 {
			ln = 1
		}
		pdf.CellFormat(w[i], 9, label, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	for i, v := range values {
		ln := 0
		if i == len(values)-1 {
			ln = 1
		}
		pdf.CellFormat(w[i], 9, formatMoney(v), "1", ln, "C", false, 0, "")
	}
}

func header(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	for i, h := range columnHeaders {
		pdf.CellFormat(columnWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func description(l domain.StatementLine) string {
	if l.Memo != nil && *l.Memo != "" {
		if l.Description == "" {
			return *l.Memo
		}
		return l.Description + " / " + *l.Memo
	}
	return l.Description
}

func amountOrBlank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return formatMoney(d)
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// formatMoney renders d with two decimals and thousands separators.
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
