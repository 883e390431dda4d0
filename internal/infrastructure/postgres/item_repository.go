package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"copilot/internal/domain/item"
	"copilot/internal/infrastructure/crypto"
)

// ItemRepository persists items and their sync cursors. Access tokens are
// encrypted at rest and transparently decrypted on read.
type ItemRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

func NewItemRepository(db *DB, encryptor *crypto.Encryptor) *ItemRepository {
	return &ItemRepository{db: db, encryptor: encryptor}
}

var _ item.Repository = (*ItemRepository)(nil)

func (r *ItemRepository) Create(ctx context.Context, userID, accessToken, institutionName string) (*item.Item, error) {
	encrypted, err := r.encryptor.Encrypt(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO items (user_id, access_token, institution_name)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, institution_name, created_at
	`

	var it item.Item
	err = r.db.QueryRowContext(ctx, query, userID, encrypted, institutionName).Scan(
		&it.ID, &it.UserID, &it.InstitutionName, &it.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	it.AccessToken = accessToken
	return &it, nil
}

func (r *ItemRepository) List(ctx context.Context) ([]*item.Item, error) {
	query := `
		SELECT id, user_id, access_token, institution_name, created_at
		FROM items
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return r.scanItems(rows)
}

func (r *ItemRepository) ListByUserID(ctx context.Context, userID string) ([]*item.Item, error) {
	query := `
		SELECT id, user_id, access_token, institution_name, created_at
		FROM items
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for user: %w", err)
	}
	defer rows.Close()

	return r.scanItems(rows)
}

func (r *ItemRepository) scanItems(rows *sql.Rows) ([]*item.Item, error) {
	var items []*item.Item
	for rows.Next() {
		var it item.Item
		var encrypted string
		if err := rows.Scan(&it.ID, &it.UserID, &encrypted, &it.InstitutionName, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		token, err := r.encryptor.Decrypt(encrypted)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt access token for item %d: %w", it.ID, err)
		}
		it.AccessToken = token

		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) GetCursor(ctx context.Context, itemID int64) (*item.Cursor, error) {
	query := `
		SELECT id, item_id, cursor, created_at, updated_at
		FROM cursors
		WHERE item_id = $1
	`

	var c item.Cursor
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&c.ID, &c.ItemID, &c.Value, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // first sync for this item
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cursor: %w", err)
	}

	return &c, nil
}

func (r *ItemRepository) SaveCursor(ctx context.Context, itemID int64, value string) error {
	query := `
		INSERT INTO cursors (item_id, cursor)
		VALUES ($1, $2)
		ON CONFLICT (item_id) DO UPDATE SET
		    cursor = EXCLUDED.cursor,
		    updated_at = now()
	`

	if _, err := r.db.ExecContext(ctx, query, itemID, value); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}
