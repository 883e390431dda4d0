package account

import "time"

// Liability account types subtract from net worth instead of adding to it.
const TypeCredit = "credit"

// Account is a financial account belonging to an item. Accounts are
// upserted by the provider's account_id on every sync and never deleted.
type Account struct {
	ID                     int64     `json:"id"`
	ItemID                 int64     `json:"itemId"`
	AccountID              string    `json:"accountId"`
	Name                   string    `json:"name"`
	OfficialName           string    `json:"officialName"`
	Type                   string    `json:"type"`
	Subtype                string    `json:"subtype"`
	Mask                   string    `json:"mask"`
	Available              *float64  `json:"available"`
	Current                *float64  `json:"current"`
	ISOCurrencyCode        string    `json:"isoCurrencyCode"`
	UnofficialCurrencyCode *string   `json:"unofficialCurrencyCode"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Balance returns the preferred balance: current first, then available,
// then zero when the provider reported neither.
func (a *Account) Balance() float64 {
	if a.Current != nil {
		return *a.Current
	}
	if a.Available != nil {
		return *a.Available
	}
	return 0
}

// IsLiability reports whether the account balance counts against net worth.
func (a *Account) IsLiability() bool {
	return a.Type == TypeCredit
}

// UpsertParams carries the provider snapshot for an insert-or-update keyed
// by AccountID.
type UpsertParams struct {
	ItemID                 int64
	AccountID              string
	Name                   string
	OfficialName           string
	Type                   string
	Subtype                string
	Mask                   string
	Available              *float64
	Current                *float64
	ISOCurrencyCode        string
	UnofficialCurrencyCode *string
}
