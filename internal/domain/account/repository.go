package account

import "context"

// Repository defines persistence operations for accounts.
type Repository interface {
	Upsert(ctx context.Context, params UpsertParams) error
	ListByUserID(ctx context.Context, userID string) ([]*Account, error)
}
