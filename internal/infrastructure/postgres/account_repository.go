package postgres

import (
	"context"
	"fmt"

	"copilot/internal/domain/account"
)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ account.Repository = (*AccountRepository)(nil)

// Upsert inserts or updates an account by the provider's account_id,
// overwriting every mutable field and touching updated_at. Accounts no
// longer reported by the provider are kept.
func (r *AccountRepository) Upsert(ctx context.Context, params account.UpsertParams) error {
	query := `
		INSERT INTO accounts (item_id, account_id, name, official_name, type, subtype, mask,
		                      available, current, iso_currency_code, unofficial_currency_code, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (account_id) DO UPDATE SET
		    name = EXCLUDED.name,
		    official_name = EXCLUDED.official_name,
		    type = EXCLUDED.type,
		    subtype = EXCLUDED.subtype,
		    mask = EXCLUDED.mask,
		    available = EXCLUDED.available,
		    current = EXCLUDED.current,
		    iso_currency_code = EXCLUDED.iso_currency_code,
		    unofficial_currency_code = EXCLUDED.unofficial_currency_code,
		    updated_at = now()
	`

	_, err := r.db.ExecContext(
		ctx, query,
		params.ItemID, params.AccountID, params.Name, params.OfficialName,
		params.Type, params.Subtype, params.Mask,
		params.Available, params.Current,
		params.ISOCurrencyCode, params.UnofficialCurrencyCode,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	query := `
		SELECT a.id, a.item_id, a.account_id, a.name, a.official_name, a.type, a.subtype, a.mask,
		       a.available, a.current, a.iso_currency_code, a.unofficial_currency_code, a.updated_at
		FROM accounts a
		JOIN items i ON a.item_id = i.id
		WHERE i.user_id = $1
		ORDER BY a.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var a account.Account
		err := rows.Scan(
			&a.ID, &a.ItemID, &a.AccountID, &a.Name, &a.OfficialName, &a.Type, &a.Subtype, &a.Mask,
			&a.Available, &a.Current, &a.ISOCurrencyCode, &a.UnofficialCurrencyCode, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}
