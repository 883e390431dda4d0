package item

import (
	"errors"
	"time"
)

var ErrItemNotFound = errors.New("item not found")

// Item represents a linked institution connection. One item holds the
// provider access token for every account the user linked at that
// institution, and owns at most one sync cursor.
type Item struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"userId"`
	AccessToken     string    `json:"-"`
	InstitutionName string    `json:"institutionName"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Cursor marks the position in an item's incremental transaction feed.
// A missing cursor means the next sync starts from the beginning of history.
type Cursor struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"itemId"`
	Value     string    `json:"cursor"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
