package postgres

import (
	"context"
	"fmt"

	"copilot/internal/domain/budget"
)

type BudgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

var _ budget.Repository = (*BudgetRepository)(nil)

// Create appends a budget row. There is deliberately no uniqueness over
// (user, month, category); repeated posts accumulate.
func (r *BudgetRepository) Create(ctx context.Context, userID, month, category string, amount float64) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, month, category, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, month, category, amount
	`

	var b budget.Budget
	err := r.db.QueryRowContext(ctx, query, userID, month, category, amount).Scan(
		&b.ID, &b.UserID, &b.Month, &b.Category, &b.Amount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return &b, nil
}

func (r *BudgetRepository) ListByUserAndMonth(ctx context.Context, userID, month string) ([]*budget.Budget, error) {
	query := `
		SELECT id, user_id, month, category, amount
		FROM budgets
		WHERE user_id = $1 AND month = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		var b budget.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Month, &b.Category, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}
