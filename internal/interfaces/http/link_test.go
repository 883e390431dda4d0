package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"copilot/internal/domain/item"
	"copilot/internal/domain/user"
	"copilot/internal/infrastructure/plaidapi"
)

func TestHandleCreateToken(t *testing.T) {
	client := &MockClient{
		LinkTokenCreateFunc: func(ctx context.Context, clientUserID string) (*plaidapi.LinkTokenCreateResponse, error) {
			return &plaidapi.LinkTokenCreateResponse{LinkToken: "link-token-123"}, nil
		},
	}
	handler := NewLinkHandler(client, &MockUserRepo{}, &MockItemRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/link/token", nil)
	rr := httptest.NewRecorder()

	handler.HandleCreateToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "link-token-123") {
		t.Errorf("response missing link token: %s", rr.Body.String())
	}
}

func TestHandleCreateTokenProviderError(t *testing.T) {
	client := &MockClient{
		LinkTokenCreateFunc: func(ctx context.Context, clientUserID string) (*plaidapi.LinkTokenCreateResponse, error) {
			return nil, errors.New("INVALID_API_KEYS")
		},
	}
	handler := NewLinkHandler(client, &MockUserRepo{}, &MockItemRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/link/token", nil)
	rr := httptest.NewRecorder()

	handler.HandleCreateToken(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rr.Code)
	}
}

func TestHandleExchange(t *testing.T) {
	client := &MockClient{
		ExchangePublicTokenFunc: func(ctx context.Context, publicToken string) (*plaidapi.ExchangeResponse, error) {
			if publicToken != "public-123" {
				t.Errorf("exchanged token = %q, want public-123", publicToken)
			}
			return &plaidapi.ExchangeResponse{AccessToken: "access-456", ItemID: "provider-item"}, nil
		},
	}

	ensured := false
	users := &MockUserRepo{}
	users.EnsureFunc = func(ctx context.Context, id string) (*user.User, error) {
		ensured = true
		return &user.User{ID: id}, nil
	}

	var storedToken string
	items := &MockItemRepo{
		CreateFunc: func(ctx context.Context, userID, accessToken, institutionName string) (*item.Item, error) {
			storedToken = accessToken
			return &item.Item{ID: 9, UserID: userID, InstitutionName: institutionName}, nil
		},
	}

	handler := NewLinkHandler(client, users, items)

	body := strings.NewReader(`{"public_token":"public-123","institution_name":"First Bank"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/link/exchange", body)
	rr := httptest.NewRecorder()

	handler.HandleExchange(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !ensured {
		t.Errorf("user was not ensured before storing the item")
	}
	if storedToken != "access-456" {
		t.Errorf("stored token = %q, want access-456", storedToken)
	}

	var resp exchangeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Item == nil || resp.Item.ID != 9 {
		t.Errorf("response item = %+v", resp.Item)
	}
	if strings.Contains(rr.Body.String(), "access-456") {
		t.Errorf("response leaks the access token: %s", rr.Body.String())
	}
}

func TestHandleExchangeMissingToken(t *testing.T) {
	handler := NewLinkHandler(&MockClient{}, &MockUserRepo{}, &MockItemRepo{})

	body := strings.NewReader(`{"institution_name":"First Bank"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/link/exchange", body)
	rr := httptest.NewRecorder()

	handler.HandleExchange(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}
