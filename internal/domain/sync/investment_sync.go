package sync

import (
	"context"
	"fmt"
	"log"

	"copilot/internal/domain/investment"
	"copilot/internal/domain/item"
)

// InvestmentSyncResult aggregates the holdings sync across all items.
type InvestmentSyncResult struct {
	Items    []ItemResult `json:"items"`
	Holdings int          `json:"holdings"`
}

// SyncInvestments replaces each item's holding snapshot with the provider's
// current one and upserts the shared securities table. Items without
// investment products simply fail their own entry and the loop continues.
func (s *Service) SyncInvestments(ctx context.Context) (*InvestmentSyncResult, error) {
	items, err := s.listItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	log.Printf("Investment sync: %d items", len(items))

	result := &InvestmentSyncResult{Items: []ItemResult{}}
	for _, it := range items {
		count, err := s.syncItemInvestments(ctx, it)
		if err != nil {
			log.Printf("Investment sync failed for item %d: %v", it.ID, err)
			result.Items = append(result.Items, ItemResult{
				ItemID: it.ID,
				Status: StatusError,
				Error:  err.Error(),
			})
			continue
		}

		result.Holdings += count
		result.Items = append(result.Items, ItemResult{
			ItemID: it.ID,
			Status: StatusOK,
			Added:  count,
		})
	}

	log.Printf("Investment sync complete: holdings=%d", result.Holdings)
	return result, nil
}

func (s *Service) syncItemInvestments(ctx context.Context, it *item.Item) (int, error) {
	unlock := s.locks.lock(it.ID)
	defer unlock()

	resp, err := s.client.InvestmentsHoldingsGet(ctx, it.AccessToken)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch holdings: %w", err)
	}

	securities := make([]*investment.Security, 0, len(resp.Securities))
	for i := range resp.Securities {
		sec := &resp.Securities[i]
		asOf, err := sec.GetClosePriceAsOf()
		if err != nil {
			return 0, fmt.Errorf("bad security %s: %w", sec.SecurityID, err)
		}
		securities = append(securities, &investment.Security{
			SecurityID:      sec.SecurityID,
			Ticker:          sec.TickerSymbol,
			Name:            sec.Name,
			Type:            sec.Type,
			ClosePrice:      sec.ClosePrice,
			ClosePriceAsOf:  asOf,
			ISOCurrencyCode: sec.ISOCurrencyCode,
		})
	}

	holdings := make([]*investment.Holding, 0, len(resp.Holdings))
	for _, h := range resp.Holdings {
		holdings = append(holdings, &investment.Holding{
			ItemID:           it.ID,
			AccountID:        h.AccountID,
			SecurityID:       h.SecurityID,
			Quantity:         h.Quantity,
			InstitutionValue: h.InstitutionValue,
			CostBasis:        h.CostBasis,
			ISOCurrencyCode:  h.ISOCurrencyCode,
		})
	}

	if err := s.investments.ReplaceItemHoldings(ctx, it.ID, securities, holdings); err != nil {
		return 0, err
	}

	return len(holdings), nil
}
