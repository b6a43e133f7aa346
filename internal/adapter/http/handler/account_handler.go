package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// AccountService is the subset of the account use case the handler needs.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	SetActive(ctx context.Context, code string, active bool) (*domain.Account, error)
}

// AccountHandler handles chart-of-accounts HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get handles GET /api/v1/accounts/{code}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	account, err := h.accountUC.GetAccount(r.Context(), code)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List handles GET /api/v1/accounts?type=&active=&limit=&offset=.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	offset, err := parseIntQuery(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	input := usecase.ListAccountsInput{Limit: limit, Offset: offset}

	if t := r.URL.Query().Get("type"); t != "" {
		accountType := domain.AccountType(t)
		if !accountType.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid request", "unknown account type "+t)
			return
		}
		input.Type = &accountType
	}

	active, err := parseBoolQuery(r, "active")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	input.Active = active

	accounts, err := h.accountUC.ListAccounts(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Activate handles POST /api/v1/accounts/{code}/activate.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate handles POST /api/v1/accounts/{code}/deactivate.
// Existing lines stay; new postings to the account are rejected.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AccountHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	account, err := h.accountUC.SetActive(r.Context(), chi.URLParam(r, "code"), active)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
