package sync

import (
	"context"
	"fmt"
	"log"

	"copilot/internal/domain/item"
)

// TransactionSyncResult aggregates the incremental sync across all items.
type TransactionSyncResult struct {
	Items    []ItemResult `json:"items"`
	Added    int          `json:"added"`
	Modified int          `json:"modified"`
	Removed  int          `json:"removed"`
}

// SyncTransactions walks every linked item through its incremental delta
// feed and applies added, modified and removed records. Each item's final
// cursor is persisted only after its feed is exhausted, so a failed item
// repeats the same pages on the next run instead of losing data.
func (s *Service) SyncTransactions(ctx context.Context) (*TransactionSyncResult, error) {
	items, err := s.listItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	log.Printf("Transaction sync: %d items", len(items))

	result := &TransactionSyncResult{Items: []ItemResult{}}
	for _, it := range items {
		added, modified, removed, err := s.syncItemTransactions(ctx, it)
		if err != nil {
			log.Printf("Transaction sync failed for item %d: %v", it.ID, err)
			result.Items = append(result.Items, ItemResult{
				ItemID: it.ID,
				Status: StatusError,
				Error:  err.Error(),
			})
			continue
		}

		result.Added += added
		result.Modified += modified
		result.Removed += removed
		result.Items = append(result.Items, ItemResult{
			ItemID:   it.ID,
			Status:   StatusOK,
			Added:    added,
			Modified: modified,
			Removed:  removed,
		})
	}

	log.Printf("Transaction sync complete: added=%d, modified=%d, removed=%d",
		result.Added, result.Modified, result.Removed)
	return result, nil
}

func (s *Service) syncItemTransactions(ctx context.Context, it *item.Item) (added, modified, removed int, err error) {
	unlock := s.locks.lock(it.ID)
	defer unlock()

	cursor := ""
	stored, err := s.items.GetCursor(ctx, it.ID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to load cursor: %w", err)
	}
	if stored != nil {
		cursor = stored.Value
	}

	hasMore := true
	for hasMore {
		page, err := s.client.TransactionsSync(ctx, it.AccessToken, cursor)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("failed to fetch transaction page: %w", err)
		}

		for i := range page.Added {
			params, err := upsertParams(it.ID, &page.Added[i])
			if err != nil {
				return 0, 0, 0, fmt.Errorf("bad added record %s: %w", page.Added[i].TransactionID, err)
			}
			inserted, err := s.transactions.InsertIgnore(ctx, params)
			if err != nil {
				return 0, 0, 0, err
			}
			if inserted {
				added++
			}
		}

		for i := range page.Modified {
			params, err := upsertParams(it.ID, &page.Modified[i])
			if err != nil {
				return 0, 0, 0, fmt.Errorf("bad modified record %s: %w", page.Modified[i].TransactionID, err)
			}
			updated, err := s.transactions.UpdateByTransactionID(ctx, params)
			if err != nil {
				return 0, 0, 0, err
			}
			if updated {
				modified++
			}
		}

		if len(page.Removed) > 0 {
			ids := make([]string, len(page.Removed))
			for i, r := range page.Removed {
				ids[i] = r.TransactionID
			}
			n, err := s.transactions.DeleteByTransactionIDs(ctx, ids)
			if err != nil {
				return 0, 0, 0, err
			}
			removed += int(n)
		}

		cursor = page.NextCursor
		hasMore = page.HasMore
	}

	if cursor != "" {
		if err := s.items.SaveCursor(ctx, it.ID, cursor); err != nil {
			return 0, 0, 0, fmt.Errorf("failed to save cursor: %w", err)
		}
	}

	return added, modified, removed, nil
}
