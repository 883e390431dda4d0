package investment

import "context"

// Repository defines persistence operations for securities and holdings.
type Repository interface {
	// ReplaceItemHoldings atomically upserts the securities and swaps the
	// item's holdings for the fresh snapshot: the delete-then-insert pair
	// and the security upserts run in one database transaction.
	ReplaceItemHoldings(ctx context.Context, itemID int64, securities []*Security, holdings []*Holding) error

	// ListByUserID returns the user's holdings joined with their
	// securities, largest position first.
	ListByUserID(ctx context.Context, userID string) ([]*HoldingWithSecurity, error)
}
