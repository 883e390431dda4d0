// Package sync pulls data from the aggregation provider into the local
// store: incremental transaction deltas, full account snapshots and full
// investment-holding replacements. All three operations isolate per-item
// failures: one broken item is reported in its result entry and the loop
// moves on to the next item.
package sync

import (
	"context"

	"copilot/internal/domain/account"
	"copilot/internal/domain/investment"
	"copilot/internal/domain/item"
	"copilot/internal/domain/transaction"
	"copilot/internal/infrastructure/plaidapi"
)

// Item result statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ItemResult reports the outcome of syncing one item.
type ItemResult struct {
	ItemID   int64  `json:"itemId"`
	Status   string `json:"status"`
	Added    int    `json:"added,omitempty"`
	Modified int    `json:"modified,omitempty"`
	Removed  int    `json:"removed,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Service is the sync engine over all linked items.
type Service struct {
	client       plaidapi.ClientInterface
	items        item.Repository
	accounts     account.Repository
	transactions transaction.Repository
	investments  investment.Repository
	locks        *itemLocks
}

func NewService(
	client plaidapi.ClientInterface,
	items item.Repository,
	accounts account.Repository,
	transactions transaction.Repository,
	investments investment.Repository,
) *Service {
	return &Service{
		client:       client,
		items:        items,
		accounts:     accounts,
		transactions: transactions,
		investments:  investments,
		locks:        newItemLocks(),
	}
}

func (s *Service) listItems(ctx context.Context) ([]*item.Item, error) {
	return s.items.List(ctx)
}

// normalizeCategory prefers the fine-grained personal finance category,
// falls back to the first element of the legacy list, then to "Other".
func normalizeCategory(t *plaidapi.Transaction) string {
	if t.PersonalFinanceCategory != nil && t.PersonalFinanceCategory.Primary != "" {
		return t.PersonalFinanceCategory.Primary
	}
	if len(t.Category) > 0 && t.Category[0] != "" {
		return t.Category[0]
	}
	return transaction.DefaultCategory
}

func upsertParams(itemID int64, t *plaidapi.Transaction) (transaction.UpsertParams, error) {
	date, err := t.GetDate()
	if err != nil {
		return transaction.UpsertParams{}, err
	}
	authorized, err := t.GetAuthorizedDate()
	if err != nil {
		return transaction.UpsertParams{}, err
	}

	return transaction.UpsertParams{
		ItemID:          itemID,
		AccountID:       t.AccountID,
		TransactionID:   t.TransactionID,
		Amount:          t.Amount,
		ISOCurrencyCode: t.ISOCurrencyCode,
		Date:            date,
		AuthorizedDate:  authorized,
		Name:            t.Name,
		MerchantName:    t.MerchantName,
		Category:        normalizeCategory(t),
		Pending:         t.Pending,
	}, nil
}
