package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/todolist-api/internal/apperror"
	"github.com/sakif/todolist-api/internal/model"
	"github.com/sakif/todolist-api/internal/repository"
)

// compile-time check that *TodoDB implements repository.TodoRepository
var _ repository.TodoRepository = (*TodoDB)(nil)

// Create inserts a new todo and fills in the generated ID and timestamps.
// The caller sets UserID; the FK constraint rejects an unknown owner.
func (db *TodoDB) Create(ctx context.Context, todo *model.Todo) error {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO todos (title, description, is_completed, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.UserID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting todo for user %d: %w", todo.UserID, err)
	}

	todo.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted todo id: %w", err)
	}

	return nil
}

// GetByID retrieves a single todo, scoped to its owner. The WHERE clause
// matches both id and user_id, so a todo owned by another user returns
// NotFound — callers never learn whether the row exists at all.
func (db *TodoDB) GetByID(ctx context.Context, userID, id int64) (*model.Todo, error) {
	var t model.Todo

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, is_completed, user_id, created_at, updated_at
		 FROM todos
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.IsCompleted,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("todo", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting todo %d: %w", id, err)
	}

	return &t, nil
}

// List returns a page of the user's todos in primary-key order (insertion
// order), which keeps pagination stable across requests.
func (db *TodoDB) List(ctx context.Context, userID int64, opts repository.ListOptions) ([]model.Todo, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, is_completed, user_id, created_at, updated_at
		 FROM todos
		 WHERE user_id = ?
		 ORDER BY id ASC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing todos for user %d: %w", userID, err)
	}
	defer rows.Close()

	todos := make([]model.Todo, 0, limit)
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.IsCompleted,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating todos: %w", err)
	}

	return todos, nil
}

// CountByUser returns the user's total todo count, independent of any
// pagination window.
func (db *TodoDB) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting todos for user %d: %w", userID, err)
	}
	return count, nil
}

// Update writes the todo's mutable fields (title, description, completion
// flag) back to its row inside an explicit transaction — the tail end of
// the service layer's read-modify-write. The WHERE clause is ownership-
// scoped like GetByID; zero rows affected means the todo vanished (or was
// never the caller's) between read and write, reported as NotFound.
func (db *TodoDB) Update(ctx context.Context, todo *model.Todo) error {
	todo.UpdatedAt = time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning todo update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE todos
		 SET title = ?, description = ?, is_completed = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating todo %d: %w", todo.ID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("todo", strconv.FormatInt(todo.ID, 10))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing todo update: %w", err)
	}

	return nil
}

// Delete removes the todo if it belongs to the user; zero rows affected is
// NotFound, same as the other ownership-scoped operations.
func (db *TodoDB) Delete(ctx context.Context, userID, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting todo %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("todo", strconv.FormatInt(id, 10))
	}

	return nil
}
