package investment

import "time"

// Security is provider-wide reference data shared across items and users.
// Last write wins on every investment sync.
type Security struct {
	SecurityID      string     `json:"securityId"`
	Ticker          *string    `json:"ticker"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	ClosePrice      *float64   `json:"closePrice"`
	ClosePriceAsOf  *time.Time `json:"closePriceAsOf"`
	ISOCurrencyCode string     `json:"isoCurrencyCode"`
}

// Holding is one position snapshot for an item. Holdings are fully
// replaced on every investment sync, not merged.
type Holding struct {
	ID               int64    `json:"id"`
	ItemID           int64    `json:"itemId"`
	AccountID        string   `json:"accountId"`
	SecurityID       string   `json:"securityId"`
	Quantity         float64  `json:"quantity"`
	InstitutionValue *float64 `json:"institutionValue"`
	CostBasis        *float64 `json:"costBasis"`
	ISOCurrencyCode  string   `json:"isoCurrencyCode"`
}

// HoldingWithSecurity joins a holding with its security reference data for
// API responses, ordered by institution value.
type HoldingWithSecurity struct {
	Holding
	Ticker       *string  `json:"ticker"`
	SecurityName string   `json:"securityName"`
	SecurityType string   `json:"securityType"`
	ClosePrice   *float64 `json:"closePrice"`
}
