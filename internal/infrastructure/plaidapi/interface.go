package plaidapi

import "context"

// ClientInterface defines the methods required from the aggregation API
// client.
type ClientInterface interface {
	LinkTokenCreate(ctx context.Context, clientUserID string) (*LinkTokenCreateResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	AccountsGet(ctx context.Context, accessToken string) (*AccountsGetResponse, error)
	TransactionsSync(ctx context.Context, accessToken, cursor string) (*TransactionsSyncResponse, error)
	InvestmentsHoldingsGet(ctx context.Context, accessToken string) (*InvestmentsHoldingsGetResponse, error)
}
