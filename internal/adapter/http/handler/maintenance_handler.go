package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/usecase"
)

// ReconciliationService runs wallet reconciliation.
type ReconciliationService interface {
	Notify(ctx context.Context, from, to time.Time) (*usecase.ReconciliationResult, error)
}

// ConsistencyService checks ledger-wide balance.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// MaintenanceHandler exposes operator endpoints.
type MaintenanceHandler struct {
	reconciler  ReconciliationService
	consistency ConsistencyService
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(reconciler ReconciliationService, consistency ConsistencyService) *MaintenanceHandler {
	return &MaintenanceHandler{reconciler: reconciler, consistency: consistency}
}

// Reconcile handles POST /api/v1/maintenance/wallet-reconciliation.
// A run interrupted by the client still reports what it managed to post.
func (h *MaintenanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req dto.ReconcileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	from, err := parseDate(req.From, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "from: "+err.Error())
		return
	}
	to, err := parseDate(req.To, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "to: "+err.Error())
		return
	}

	result, err := h.reconciler.Notify(r.Context(), from, to)
	if err != nil {
		if result != nil && errors.Is(err, context.Canceled) {
			writeJSON(w, http.StatusAccepted, dto.ReconciliationFromResult(result))
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// Consistency handles GET /api/v1/ledger/consistency.
// An unbalanced ledger answers 409 with the report.
func (h *MaintenanceHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistency.CheckConsistency(r.Context())
	if err != nil {
		if report != nil && errors.Is(err, usecase.ErrInconsistentLedger) {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromReport(report))
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
