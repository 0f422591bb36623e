// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account. A user owns zero or more todos
// (todos.user_id references users.id).
//
// PasswordHash is the bcrypt digest of the registration password — never
// the password itself — and is excluded from JSON so it can never leak
// through a response, even if a handler serialises the model directly.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"` // unique, used as the login identifier
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
