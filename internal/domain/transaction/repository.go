package transaction

import (
	"context"
	"time"
)

// Repository defines persistence operations for transactions.
type Repository interface {
	// InsertIgnore inserts a transaction keyed by the provider's
	// transaction id and reports whether a row was actually added.
	// Duplicates are silently ignored, never updated.
	InsertIgnore(ctx context.Context, params UpsertParams) (bool, error)

	// UpdateByTransactionID applies a modified delta in place and reports
	// whether a stored row matched.
	UpdateByTransactionID(ctx context.Context, params UpsertParams) (bool, error)

	// DeleteByTransactionIDs removes transactions the provider reported as
	// removed and returns the number of rows deleted.
	DeleteByTransactionIDs(ctx context.Context, transactionIDs []string) (int64, error)

	// ListRecentByUserID returns up to limit transactions for the user,
	// newest first, joined through items.
	ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*Transaction, error)

	// ListSinceByUserID returns the user's transactions dated on or after
	// since, newest first.
	ListSinceByUserID(ctx context.Context, userID string, since time.Time) ([]*Transaction, error)

	// SpendByCategoryForMonth sums positive amounts per category for the
	// given 'YYYY-MM' month.
	SpendByCategoryForMonth(ctx context.Context, userID, month string) (map[string]float64, error)

	// ListPage returns one page of the filtered listing plus the total
	// number of matching rows.
	ListPage(ctx context.Context, q ListQuery) ([]*WithInstitution, int64, error)

	// SearchByKeywords returns transactions where any token substring-matches
	// the name, merchant name or category, newest first, capped at limit.
	SearchByKeywords(ctx context.Context, userID string, tokens []string, limit int) ([]*Transaction, error)
}
