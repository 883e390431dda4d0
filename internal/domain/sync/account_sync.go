package sync

import (
	"context"
	"fmt"
	"log"

	"copilot/internal/domain/account"
	"copilot/internal/domain/item"
)

// AccountSyncResult aggregates the account snapshot sync across all items.
type AccountSyncResult struct {
	Items    []ItemResult `json:"items"`
	Upserted int          `json:"upserted"`
}

// SyncAccounts fetches the full current account list for every item and
// upserts each account by its provider id. Accounts the provider stops
// reporting are left in place.
func (s *Service) SyncAccounts(ctx context.Context) (*AccountSyncResult, error) {
	items, err := s.listItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	log.Printf("Account sync: %d items", len(items))

	result := &AccountSyncResult{Items: []ItemResult{}}
	for _, it := range items {
		upserted, err := s.syncItemAccounts(ctx, it)
		if err != nil {
			log.Printf("Account sync failed for item %d: %v", it.ID, err)
			result.Items = append(result.Items, ItemResult{
				ItemID: it.ID,
				Status: StatusError,
				Error:  err.Error(),
			})
			continue
		}

		result.Upserted += upserted
		result.Items = append(result.Items, ItemResult{
			ItemID: it.ID,
			Status: StatusOK,
			Added:  upserted,
		})
	}

	log.Printf("Account sync complete: upserted=%d", result.Upserted)
	return result, nil
}

func (s *Service) syncItemAccounts(ctx context.Context, it *item.Item) (int, error) {
	unlock := s.locks.lock(it.ID)
	defer unlock()

	resp, err := s.client.AccountsGet(ctx, it.AccessToken)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, acc := range resp.Accounts {
		params := account.UpsertParams{
			ItemID:                 it.ID,
			AccountID:              acc.AccountID,
			Name:                   acc.Name,
			OfficialName:           acc.OfficialName,
			Type:                   acc.Type,
			Subtype:                acc.Subtype,
			Mask:                   acc.Mask,
			Available:              acc.Balances.Available,
			Current:                acc.Balances.Current,
			ISOCurrencyCode:        acc.Balances.ISOCurrencyCode,
			UnofficialCurrencyCode: acc.Balances.UnofficialCurrencyCode,
		}
		if err := s.accounts.Upsert(ctx, params); err != nil {
			return 0, fmt.Errorf("failed to upsert account %s: %w", acc.AccountID, err)
		}
	}

	return len(resp.Accounts), nil
}
