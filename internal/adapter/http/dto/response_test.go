package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		Code:      "2000",
		Name:      "Wallet Liability",
		Type:      domain.AccountTypeLiability,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := AccountFromDomain(account)
	if resp.Code != "2000" || resp.Type != "LIABILITY" || resp.NormalSide != "CREDIT" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].Code != account.Code {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestJournalEntryFromDomain(t *testing.T) {
	wallet := "W-1"
	entry := &domain.JournalEntry{
		ID:            "e1",
		CorrelationID: "TX-1",
		SourceType:    domain.SourceTypeWalletDeposit,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountCode: "1000", Debit: decimal.RequireFromString("99.5")},
			{LineNo: 2, AccountCode: "2000", Credit: decimal.RequireFromString("99.5"), WalletID: &wallet},
		},
	}

	resp := JournalEntryFromDomain(entry)
	if resp.TotalDebit != "99.50" || resp.TotalCredit != "99.50" {
		t.Fatalf("unexpected totals %+v", resp)
	}
	if resp.Lines[0].Credit != "0.00" || resp.Lines[1].WalletID == nil {
		t.Fatalf("unexpected lines %+v", resp.Lines)
	}
}

func TestChargesResponses(t *testing.T) {
	deposit := DepositChargesResponse(domain.ChannelMTN, decimal.NewFromInt(10000), &domain.DepositCharges{
		PSPFee:             decimal.NewFromInt(100),
		SMSChargeToWallet:  decimal.NewFromInt(50),
		CommissionToWallet: decimal.NewFromInt(100),
	})
	if deposit.Total != "150.00" || deposit.Components[domain.ComponentPSPFee] != "100.00" {
		t.Fatalf("unexpected deposit charges %+v", deposit)
	}

	withdrawal := WithdrawalChargesResponse(domain.ChannelMTN, decimal.NewFromInt(3000), &domain.WithdrawalCharges{
		PSPFeeExpense:      decimal.NewFromInt(200),
		CompanyFeeToWallet: decimal.NewFromInt(500),
	})
	if withdrawal.Total != "500.00" || withdrawal.Kind != "withdrawal" {
		t.Fatalf("unexpected withdrawal charges %+v", withdrawal)
	}
}

func TestReconciliationFromResult(t *testing.T) {
	resp := ReconciliationFromResult(&usecase.ReconciliationResult{
		Processed: 1,
		Skipped:   1,
		Outcomes: []usecase.TransactionOutcome{
			{TransactionID: "TX-1", Outcome: usecase.OutcomePosted, EntryID: "e1"},
			{TransactionID: "TX-2", Outcome: usecase.OutcomeSkipped, EntryID: "e0"},
		},
	})

	if resp.Processed != 1 || resp.Skipped != 1 || resp.Outcomes[1].Outcome != "skipped" {
		t.Fatalf("unexpected reconciliation response %+v", resp)
	}
}

func TestBalanceSheetFromDomain(t *testing.T) {
	resp := BalanceSheetFromDomain(&domain.BalanceSheet{
		Assets:           []domain.AccountAmount{{AccountCode: "1000", Amount: decimal.NewFromInt(10)}},
		Equity:           []domain.AccountAmount{{AccountName: domain.CurrentEarningsName, Amount: decimal.NewFromInt(3)}},
		TotalAssets:      decimal.NewFromInt(10),
		TotalLiabilities: decimal.NewFromInt(7),
		TotalEquity:      decimal.NewFromInt(3),
	})

	if !resp.Balanced || resp.Equity[0].AccountCode != "" || resp.TotalAssets != "10.00" {
		t.Fatalf("unexpected balance sheet %+v", resp)
	}
}
