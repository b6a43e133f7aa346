package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// ChargeHandler previews wallet fees without posting anything.
type ChargeHandler struct {
	charges usecase.ChargeCalculator
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(charges usecase.ChargeCalculator) *ChargeHandler {
	return &ChargeHandler{charges: charges}
}

// Preview handles GET /api/v1/charges/{kind}?amount&channel.
func (h *ChargeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	kind := domain.ChargeKind(strings.ToLower(chi.URLParam(r, "kind")))
	channel := domain.Channel(strings.ToUpper(r.URL.Query().Get("channel")))

	if channel == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "channel is required")
		return
	}

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "amount must be a decimal number")
		return
	}
	if err := domain.ValidateAmount(amount); err != nil {
		writeDomainError(w, err)
		return
	}

	tx := &domain.WalletTransaction{Channel: channel, Amount: amount}

	switch kind {
	case domain.ChargeKindDeposit:
		tx.Type = domain.WalletDeposit
		c, err := h.charges.DepositCharges(tx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.DepositChargesResponse(channel, amount, c))

	case domain.ChargeKindWithdrawal:
		tx.Type = domain.WalletWithdrawal
		c, err := h.charges.WithdrawalCharges(tx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.WithdrawalChargesResponse(channel, amount, c))

	default:
		writeError(w, http.StatusNotFound, "not found", "unknown charge kind "+string(kind))
	}
}
