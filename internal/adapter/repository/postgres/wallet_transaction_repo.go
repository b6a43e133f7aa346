package postgres

import (
	"context"
	"time"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
)

// WalletTransactionRepository implements usecase.WalletTransactionRepository.
type WalletTransactionRepository struct {
	queries *generated.Queries
}

// NewWalletTransactionRepository creates a new WalletTransactionRepository.
func NewWalletTransactionRepository(db generated.DBTX) *WalletTransactionRepository {
	return &WalletTransactionRepository{queries: generated.New(db)}
}

// Record stores a wallet transaction with the given gateway status.
func (r *WalletTransactionRepository) Record(ctx context.Context, tx *domain.WalletTransaction, status string) error {
	return r.queries.CreateWalletTransaction(ctx, generated.CreateWalletTransactionParams{
		ID:         tx.ID,
		WalletID:   tx.WalletID,
		LandlordID: optionalText(tx.LandlordID),
		TenantID:   optionalText(tx.TenantID),
		Type:       string(tx.Type),
		Channel:    string(tx.Channel),
		Amount:     decimalToNumeric(tx.Amount),
		Reference:  tx.Reference,
		Status:     status,
		CreatedAt:  timeToPgTimestamptz(tx.CreatedAt),
	})
}

// ListCompleted returns completed transactions created in [from, to].
func (r *WalletTransactionRepository) ListCompleted(ctx context.Context, from, to time.Time) ([]*domain.WalletTransaction, error) {
	rows, err := r.queries.ListCompletedWalletTransactions(ctx, generated.ListCompletedWalletTransactionsParams{
		FromDate: timeToPgTimestamptz(from),
		ToDate:   timeToPgTimestamptz(to),
	})
	if err != nil {
		return nil, err
	}

	txs := make([]*domain.WalletTransaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, &domain.WalletTransaction{
			ID:         row.ID,
			WalletID:   row.WalletID,
			LandlordID: textToPtr(row.LandlordID),
			TenantID:   textToPtr(row.TenantID),
			Type:       domain.WalletTransactionType(row.Type),
			Channel:    domain.Channel(row.Channel),
			Amount:     numericToDecimal(row.Amount),
			Reference:  row.Reference,
			CreatedAt:  row.CreatedAt.Time,
		})
	}

	return txs, nil
}
