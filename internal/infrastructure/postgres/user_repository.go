package postgres

import (
	"context"
	"fmt"

	"copilot/internal/domain/user"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Ensure(ctx context.Context, id string) (*user.User, error) {
	query := `
		INSERT INTO users (id)
		VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING id, created_at
	`

	var u user.User
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	return &u, nil
}
