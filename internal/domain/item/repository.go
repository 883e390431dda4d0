package item

import "context"

// Repository defines persistence operations for items and their cursors.
type Repository interface {
	Create(ctx context.Context, userID, accessToken, institutionName string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	ListByUserID(ctx context.Context, userID string) ([]*Item, error)

	// GetCursor returns nil when the item has never completed a sync.
	GetCursor(ctx context.Context, itemID int64) (*Cursor, error)
	// SaveCursor inserts the cursor on first sync and updates it afterwards.
	SaveCursor(ctx context.Context, itemID int64, value string) error
}
