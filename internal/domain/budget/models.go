package budget

import "context"

// Budget is a spending target for one (user, month, category). Rows are
// append-only: posting the same month and category again adds another row
// rather than replacing the previous one.
type Budget struct {
	ID       int64   `json:"id"`
	UserID   string  `json:"userId"`
	Month    string  `json:"month"` // 'YYYY-MM'
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Repository defines persistence operations for budgets.
type Repository interface {
	Create(ctx context.Context, userID, month, category string, amount float64) (*Budget, error)
	ListByUserAndMonth(ctx context.Context, userID, month string) ([]*Budget, error)
}
