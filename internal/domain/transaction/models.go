package transaction

import "time"

// DefaultCategory is the bucket for transactions the provider reports
// without any category.
const DefaultCategory = "Other"

// Transaction is an immutable financial event once inserted. The amount
// keeps the provider's sign convention: positive means money leaving the
// account, negative means an inflow. Income and spend interpretations are
// always derived from that one convention.
type Transaction struct {
	ID              int64      `json:"id"`
	ItemID          int64      `json:"itemId"`
	AccountID       string     `json:"accountId"`
	TransactionID   string     `json:"transactionId"`
	Amount          float64    `json:"amount"`
	ISOCurrencyCode string     `json:"isoCurrencyCode"`
	Date            time.Time  `json:"date"`
	AuthorizedDate  *time.Time `json:"authorizedDate"`
	Name            string     `json:"name"`
	MerchantName    string     `json:"merchantName"`
	Category        string     `json:"category"`
	Pending         bool       `json:"pending"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Merchant returns the grouping key for recurrence detection: the merchant
// name when the provider supplied one, otherwise the raw transaction name.
func (t *Transaction) Merchant() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Name
}

// WithInstitution augments a transaction with the institution of its item
// for API listings.
type WithInstitution struct {
	Transaction
	InstitutionName string `json:"institutionName"`
}

// UpsertParams carries one normalized provider record. The same shape
// serves inserts (added deltas) and in-place updates (modified deltas).
type UpsertParams struct {
	ItemID          int64
	AccountID       string
	TransactionID   string
	Amount          float64
	ISOCurrencyCode string
	Date            time.Time
	AuthorizedDate  *time.Time
	Name            string
	MerchantName    string
	Category        string
	Pending         bool
}

// ListQuery filters the paginated transaction listing.
type ListQuery struct {
	UserID string
	Month  string // 'YYYY-MM', empty for all
	Search string // substring over name, merchant and category
	Limit  int
	Offset int
}
