package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// PostingService is the subset of the posting use case the handler needs.
type PostingService interface {
	Post(ctx context.Context, input usecase.PostEntryInput) (*usecase.PostResult, error)
	GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	GetWalletBalance(ctx context.Context, walletID string) (decimal.Decimal, error)
}

// JournalHandler handles journal entry and wallet balance requests.
type JournalHandler struct {
	postingUC PostingService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(postingUC PostingService) *JournalHandler {
	return &JournalHandler{postingUC: postingUC}
}

// Post handles POST /api/v1/journal-entries.
// Replaying a correlation id returns the stored entry with 200 instead of 201.
func (h *JournalHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.postingUC.Post(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.JournalEntryFromDomain(result.Entry))
}

// Get handles GET /api/v1/journal-entries/{id}.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.postingUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// WalletBalance handles GET /api/v1/wallets/{id}/balance.
func (h *JournalHandler) WalletBalance(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	balance, err := h.postingUC.GetWalletBalance(r.Context(), walletID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletBalanceResponse{
		WalletID: walletID,
		Balance:  dto.Money(balance),
	})
}
