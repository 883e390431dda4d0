// Package plaidapi is the HTTP client for the transaction aggregation
// provider. Every call posts JSON with the client credentials in the body
// and decodes either the typed response or the provider's error shape.
package plaidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 60 * time.Second

	linkTokenPath     = "/link/token/create"
	exchangePath      = "/item/public_token/exchange"
	accountsPath      = "/accounts/get"
	transactionsPath  = "/transactions/sync"
	investmentsPath   = "/investments/holdings/get"
)

var environments = map[string]string{
	"sandbox":    "https://sandbox.plaid.com",
	"production": "https://production.plaid.com",
}

// ErrMissingCredentials is returned before any network call when the
// client id or secret is not configured.
var ErrMissingCredentials = errors.New("aggregation API credentials are not configured")

// Client handles communication with the aggregation provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

var _ ClientInterface = (*Client)(nil)

// NewClient validates the credentials eagerly so misconfiguration is a
// distinct error surfaced at startup, not a failed network call later.
func NewClient(clientID, secret, environment string) (*Client, error) {
	if clientID == "" || secret == "" {
		return nil, ErrMissingCredentials
	}

	baseURL, ok := environments[environment]
	if !ok {
		return nil, fmt.Errorf("unknown aggregation environment %q", environment)
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
	}, nil
}

// ErrorResponse is the provider's error shape.
type ErrorResponse struct {
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
}

// LinkTokenCreateResponse carries the short-lived token the web client
// uses to open the link flow.
type LinkTokenCreateResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
}

// ExchangeResponse is the result of trading a public token for the
// long-lived access token that gets stored with the item.
type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// Balances holds an account's balance snapshot. Available and Current are
// pointers because the provider omits whichever it cannot determine.
type Balances struct {
	Available              *float64 `json:"available"`
	Current                *float64 `json:"current"`
	ISOCurrencyCode        string   `json:"iso_currency_code"`
	UnofficialCurrencyCode *string  `json:"unofficial_currency_code"`
}

// Account is one account as reported by the provider.
type Account struct {
	AccountID    string   `json:"account_id"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	Mask         string   `json:"mask"`
	Balances     Balances `json:"balances"`
}

// AccountsGetResponse is the full current account list for one item.
type AccountsGetResponse struct {
	Accounts []Account `json:"accounts"`
}

// PersonalFinanceCategory is the provider's fine-grained category taxonomy.
type PersonalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

// Transaction is one added or modified record in the delta feed. Amounts
// are signed: positive means money leaving the account.
type Transaction struct {
	TransactionID           string                   `json:"transaction_id"`
	AccountID               string                   `json:"account_id"`
	Amount                  float64                  `json:"amount"`
	ISOCurrencyCode         string                   `json:"iso_currency_code"`
	DateString              string                   `json:"date"`            // "2006-01-02"
	AuthorizedDateString    string                   `json:"authorized_date"` // "2006-01-02", may be empty
	Name                    string                   `json:"name"`
	MerchantName            string                   `json:"merchant_name"`
	Category                []string                 `json:"category"` // legacy taxonomy
	PersonalFinanceCategory *PersonalFinanceCategory `json:"personal_finance_category"`
	Pending                 bool                     `json:"pending"`
}

// GetDate parses the transaction date.
func (t *Transaction) GetDate() (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", t.DateString)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date '%s': %w", t.DateString, err)
	}
	return parsed, nil
}

// GetAuthorizedDate parses the authorized date when present.
func (t *Transaction) GetAuthorizedDate() (*time.Time, error) {
	if t.AuthorizedDateString == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", t.AuthorizedDateString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorized_date '%s': %w", t.AuthorizedDateString, err)
	}
	return &parsed, nil
}

// RemovedTransaction is a tombstone in the delta feed.
type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// TransactionsSyncResponse is one page of the incremental delta feed.
type TransactionsSyncResponse struct {
	Added      []Transaction        `json:"added"`
	Modified   []Transaction        `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
}

// Security is provider-wide investment reference data.
type Security struct {
	SecurityID           string   `json:"security_id"`
	TickerSymbol         *string  `json:"ticker_symbol"`
	Name                 string   `json:"name"`
	Type                 string   `json:"type"`
	ClosePrice           *float64 `json:"close_price"`
	ClosePriceAsOfString string   `json:"close_price_as_of"` // "2006-01-02", may be empty
	ISOCurrencyCode      string   `json:"iso_currency_code"`
}

// GetClosePriceAsOf parses the close price date when present.
func (s *Security) GetClosePriceAsOf() (*time.Time, error) {
	if s.ClosePriceAsOfString == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", s.ClosePriceAsOfString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse close_price_as_of '%s': %w", s.ClosePriceAsOfString, err)
	}
	return &parsed, nil
}

// Holding is one position snapshot for an item.
type Holding struct {
	AccountID        string   `json:"account_id"`
	SecurityID       string   `json:"security_id"`
	Quantity         float64  `json:"quantity"`
	InstitutionValue *float64 `json:"institution_value"`
	CostBasis        *float64 `json:"cost_basis"`
	ISOCurrencyCode  string   `json:"iso_currency_code"`
}

// InvestmentsHoldingsGetResponse pairs an item's holdings with the
// securities they reference.
type InvestmentsHoldingsGetResponse struct {
	Holdings   []Holding  `json:"holdings"`
	Securities []Security `json:"securities"`
}

// LinkTokenCreate requests a link token for the given end user.
func (c *Client) LinkTokenCreate(ctx context.Context, clientUserID string) (*LinkTokenCreateResponse, error) {
	body := map[string]any{
		"user":          map[string]string{"client_user_id": clientUserID},
		"client_name":   "Personal Finance Copilot",
		"products":      []string{"transactions", "investments"},
		"country_codes": []string{"US"},
		"language":      "en",
	}

	var resp LinkTokenCreateResponse
	if err := c.post(ctx, linkTokenPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExchangePublicToken trades a public token for an access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	var resp ExchangeResponse
	if err := c.post(ctx, exchangePath, map[string]any{"public_token": publicToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AccountsGet fetches the full current account list for an item.
func (c *Client) AccountsGet(ctx context.Context, accessToken string) (*AccountsGetResponse, error) {
	var resp AccountsGetResponse
	if err := c.post(ctx, accountsPath, map[string]any{"access_token": accessToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TransactionsSync fetches one page of the delta feed. An empty cursor
// means the start of history.
func (c *Client) TransactionsSync(ctx context.Context, accessToken, cursor string) (*TransactionsSyncResponse, error) {
	body := map[string]any{"access_token": accessToken}
	if cursor != "" {
		body["cursor"] = cursor
	}

	var resp TransactionsSyncResponse
	if err := c.post(ctx, transactionsPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InvestmentsHoldingsGet fetches the current holdings and securities for
// an item.
func (c *Client) InvestmentsHoldingsGet(ctx context.Context, accessToken string) (*InvestmentsHoldingsGetResponse, error) {
	var resp InvestmentsHoldingsGetResponse
	if err := c.post(ctx, investmentsPath, map[string]any{"access_token": accessToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(data, &errResp); err != nil {
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("API error (status %d): %s - %s", resp.StatusCode, errResp.ErrorCode, errResp.ErrorMessage)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
