package user

import (
	"context"
	"time"
)

// DefaultUserID identifies the single demo user until real authentication
// is layered on top.
const DefaultUserID = "demo"

// User owns items and budgets. There is no credential material here;
// authentication is handled outside this service.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository defines persistence operations for users.
type Repository interface {
	// Ensure creates the user when it does not exist yet and returns it.
	Ensure(ctx context.Context, id string) (*User, error)
}
