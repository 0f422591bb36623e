// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/todolist-api/internal/model"
)

// ListOptions carries the pagination window for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in the generated ID. A duplicate
	// email surfaces as apperror.ErrConflict.
	Create(ctx context.Context, user *model.User) error
	// GetByID returns apperror.ErrNotFound for an unknown id.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail returns apperror.ErrNotFound for an unknown email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TodoRepository persists todos. Every operation that addresses a single
// todo takes the owning user's id and matches on both columns, so a todo
// owned by someone else is indistinguishable from a missing one.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	GetByID(ctx context.Context, userID, id int64) (*model.Todo, error)
	List(ctx context.Context, userID int64, opts ListOptions) ([]model.Todo, error)
	// CountByUser returns the user's total number of todos, irrespective of
	// any pagination window.
	CountByUser(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, userID, id int64) error
}
