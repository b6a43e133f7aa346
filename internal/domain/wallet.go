package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransactionType distinguishes money entering and leaving a wallet.
type WalletTransactionType string

const (
	WalletDeposit    WalletTransactionType = "DEPOSIT"
	WalletWithdrawal WalletTransactionType = "WITHDRAWAL"
)

// Channel is the payment gateway a wallet transaction went through.
type Channel string

const (
	ChannelMTN      Channel = "MTN"
	ChannelAirtel   Channel = "AIRTEL"
	ChannelStanbic  Channel = "STANBIC"
	ChannelFlexipay Channel = "FLEXIPAY"
	ChannelCollecto Channel = "COLLECTO"

	// ChannelAny matches any channel in a charge rule.
	ChannelAny Channel = "*"
)

// WalletTransaction is a completed gateway movement recorded against a wallet.
// Its ID doubles as the correlation id of the journal entry that accounts for it.
type WalletTransaction struct {
	ID         string
	WalletID   string
	LandlordID *string
	TenantID   *string
	Type       WalletTransactionType
	Channel    Channel
	Amount     decimal.Decimal
	Reference  string
	CreatedAt  time.Time
}

// SourceType returns the journal source type used when posting the transaction.
func (t *WalletTransaction) SourceType() (string, error) {
	switch t.Type {
	case WalletDeposit:
		return SourceTypeWalletDeposit, nil
	case WalletWithdrawal:
		return SourceTypeWalletWithdrawal, nil
	default:
		return "", ErrUnknownTransactionType
	}
}

// WalletStatusCompleted marks a wallet transaction the gateway has settled.
// Only completed transactions are accounted for.
const WalletStatusCompleted = "COMPLETED"
