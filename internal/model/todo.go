package model

import "time"

// Todo is a single task owned by exactly one user.
//
// UserID is not serialised: clients only ever see their own todos, so the
// owner is implied by the bearer token, never by the payload.
type Todo struct {
	ID          int64     `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`       // ≤128 chars, non-empty
	Description string    `json:"description" db:"description"` // ≤255 chars, non-empty
	IsCompleted bool      `json:"isCompleted" db:"is_completed"`
	UserID      int64     `json:"-"           db:"user_id"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
