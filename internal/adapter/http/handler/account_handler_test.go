package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

type accountServiceStub struct {
	createFn    func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn       func(ctx context.Context, code string) (*domain.Account, error)
	listFn      func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	setActiveFn func(ctx context.Context, code string, active bool) (*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return s.getFn(ctx, code)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) SetActive(ctx context.Context, code string, active bool) (*domain.Account, error) {
	return s.setActiveFn(ctx, code, active)
}

// withURLParams attaches chi route params to a request built outside a router.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{Code: input.Code, Name: input.Name, Type: input.Type, Active: true}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Code: "1010", Name: "Bank", Type: "ASSET"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Code != "1010" || captured.Type != domain.AccountTypeAsset {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "1010" || resp.NormalSide != string(domain.SideDebit) || !resp.Active {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{invalid json"},
		{"missing code", `{"name":"Bank","type":"ASSET"}`},
		{"unknown type", `{"code":"1010","name":"Bank","type":"REVENUE"}`},
		{"unknown field", `{"code":"1010","name":"Bank","type":"ASSET","currency":"UGX"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
					t.Fatal("CreateAccount should not be called for invalid payload")
					return nil, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAccountHandler_Create_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate", domain.ErrDuplicateAccountCode, http.StatusConflict},
		{"storage", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.CreateAccountRequest{Code: "1000", Name: "Cash", Type: "ASSET"})
			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, code string) (*domain.Account, error) {
			if code != "9999" {
				t.Fatalf("unexpected code %s", code)
			}
			return nil, domain.ErrAccountNotFound
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/9999", nil), map[string]string{"code": "9999"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List_Filters(t *testing.T) {
	var captured usecase.ListAccountsInput
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			captured = input
			return []*domain.Account{{Code: "4000", Type: domain.AccountTypeIncome, Active: false}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts?type=INCOME&active=false&limit=5", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Type == nil || *captured.Type != domain.AccountTypeIncome {
		t.Fatalf("type filter not applied: %+v", captured)
	}
	if captured.Active == nil || *captured.Active {
		t.Fatalf("active filter not applied: %+v", captured)
	}
	if captured.Limit != 5 {
		t.Fatalf("expected limit 5, got %d", captured.Limit)
	}

	var resp []dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].NormalSide != string(domain.SideCredit) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_List_RejectsBadFilters(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			t.Fatal("ListAccounts should not be called")
			return nil, nil
		},
	})

	for _, query := range []string{"type=REVENUE", "active=maybe", "limit=ten", "offset=-5"} {
		req := httptest.NewRequest(http.MethodGet, "/accounts?"+query, nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestAccountHandler_Deactivate(t *testing.T) {
	var gotActive *bool
	handler := NewAccountHandler(&accountServiceStub{
		setActiveFn: func(ctx context.Context, code string, active bool) (*domain.Account, error) {
			gotActive = &active
			return &domain.Account{Code: code, Type: domain.AccountTypeIncome, Active: active}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/accounts/4100/deactivate", nil), map[string]string{"code": "4100"})
	rec := httptest.NewRecorder()

	handler.Deactivate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotActive == nil || *gotActive {
		t.Fatalf("expected SetActive(false)")
	}
}
