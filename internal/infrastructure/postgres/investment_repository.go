package postgres

import (
	"context"
	"fmt"

	"copilot/internal/domain/investment"
)

type InvestmentRepository struct {
	db *DB
}

func NewInvestmentRepository(db *DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

var _ investment.Repository = (*InvestmentRepository)(nil)

// ReplaceItemHoldings runs the securities upsert and the item's
// delete-then-insert holdings swap inside one transaction, so a failure
// midway never leaves the item with half a snapshot.
func (r *InvestmentRepository) ReplaceItemHoldings(ctx context.Context, itemID int64, securities []*investment.Security, holdings []*investment.Holding) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsertSecurity := `
		INSERT INTO securities (security_id, ticker, name, type, close_price, close_price_as_of, iso_currency_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (security_id) DO UPDATE SET
		    ticker = EXCLUDED.ticker,
		    name = EXCLUDED.name,
		    type = EXCLUDED.type,
		    close_price = EXCLUDED.close_price,
		    close_price_as_of = EXCLUDED.close_price_as_of,
		    iso_currency_code = EXCLUDED.iso_currency_code
	`
	for _, s := range securities {
		_, err := tx.ExecContext(ctx, upsertSecurity,
			s.SecurityID, s.Ticker, s.Name, s.Type, s.ClosePrice, s.ClosePriceAsOf, s.ISOCurrencyCode,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert security %s: %w", s.SecurityID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM holdings WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to clear holdings for item %d: %w", itemID, err)
	}

	insertHolding := `
		INSERT INTO holdings (item_id, account_id, security_id, quantity, institution_value, cost_basis, iso_currency_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, h := range holdings {
		_, err := tx.ExecContext(ctx, insertHolding,
			itemID, h.AccountID, h.SecurityID, h.Quantity, h.InstitutionValue, h.CostBasis, h.ISOCurrencyCode,
		)
		if err != nil {
			return fmt.Errorf("failed to insert holding for security %s: %w", h.SecurityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit holdings replacement: %w", err)
	}
	return nil
}

func (r *InvestmentRepository) ListByUserID(ctx context.Context, userID string) ([]*investment.HoldingWithSecurity, error) {
	query := `
		SELECT h.id, h.item_id, h.account_id, h.security_id, h.quantity,
		       h.institution_value, h.cost_basis, h.iso_currency_code,
		       s.ticker, s.name, s.type, s.close_price
		FROM holdings h
		JOIN securities s ON h.security_id = s.security_id
		JOIN items i ON h.item_id = i.id
		WHERE i.user_id = $1
		ORDER BY h.institution_value DESC NULLS LAST
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*investment.HoldingWithSecurity
	for rows.Next() {
		var h investment.HoldingWithSecurity
		err := rows.Scan(
			&h.ID, &h.ItemID, &h.AccountID, &h.SecurityID, &h.Quantity,
			&h.InstitutionValue, &h.CostBasis, &h.ISOCurrencyCode,
			&h.Ticker, &h.SecurityName, &h.SecurityType, &h.ClosePrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}
	return holdings, nil
}
