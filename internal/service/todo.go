package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/todolist-api/internal/apperror"
	"github.com/sakif/todolist-api/internal/model"
	"github.com/sakif/todolist-api/internal/repository"
)

// Column widths and pagination bounds.
const (
	MaxTitleLength       = 128
	MaxDescriptionLength = 255

	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// TodoPage is one window of a user's todos plus the total count, so
// clients can compute the page count without a second request.
type TodoPage struct {
	Items []model.Todo
	Page  int
	Limit int
	Total int
}

// TodoService holds the ownership-scoped todo operations. Every method
// takes the caller's userID and never returns (or touches) another user's
// rows; a foreign todo is indistinguishable from a missing one.
type TodoService struct {
	todos  repository.TodoRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewTodoService creates a TodoService with all required dependencies.
func NewTodoService(
	todos repository.TodoRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *TodoService {
	return &TodoService{
		todos:  todos,
		users:  users,
		logger: logger,
	}
}

// requireUser confirms the authenticated user still exists. A token can
// outlive its account (the database was reset, or the row was removed), in
// which case every request with it is Unauthorized rather than NotFound.
func (s *TodoService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Unauthorized("User does not exist")
		}
		return fmt.Errorf("resolving user %d: %w", userID, err)
	}
	return nil
}

// validateTodoInput checks title and description against the shared rules
// used by Create and Update. Limits count runes, not bytes, so multibyte
// text is measured the way a user would count it.
func validateTodoInput(title, description string) error {
	verr := apperror.NewValidationError()
	if title == "" {
		verr.Add("Title", apperror.MustNotBeEmpty("Title"))
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		verr.Add("Title", apperror.MaxLength("Title", MaxTitleLength))
	}
	if description == "" {
		verr.Add("Description", apperror.MustNotBeEmpty("Description"))
	} else if utf8.RuneCountInString(description) > MaxDescriptionLength {
		verr.Add("Description", apperror.MaxLength("Description", MaxDescriptionLength))
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

// List returns one page of the user's todos. Page and limit fall back to
// their defaults when zero or negative; limit is additionally capped at
// MaxPageLimit so a single request cannot drag the whole table.
func (s *TodoService) List(ctx context.Context, userID int64, page, limit int) (*TodoPage, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	items, err := s.todos.List(ctx, userID, repository.ListOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	total, err := s.todos.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting todos: %w", err)
	}

	return &TodoPage{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

// GetByID returns one of the user's todos.
func (s *TodoService) GetByID(ctx context.Context, userID, id int64) (*model.Todo, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.todos.GetByID(ctx, userID, id)
}

// Create validates and stores a new todo for the user. New todos always
// start uncompleted; the request cannot override that.
func (s *TodoService) Create(ctx context.Context, userID int64, title, description string) (*model.Todo, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := validateTodoInput(title, description); err != nil {
		return nil, err
	}

	todo := &model.Todo{
		Title:       title,
		Description: description,
		IsCompleted: false,
		UserID:      userID,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	s.logger.Info("todo created",
		slog.Int64("todoID", todo.ID),
		slog.Int64("userID", userID),
	)

	return todo, nil
}

// Update replaces the todo's title and description. It is a
// read-modify-write: fetch the current row (ownership-scoped), overwrite
// the two editable fields, and store it back. The completion flag only
// changes through SetCompletion.
func (s *TodoService) Update(ctx context.Context, userID, id int64, title, description string) (*model.Todo, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := validateTodoInput(title, description); err != nil {
		return nil, err
	}

	todo, err := s.todos.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	todo.Title = title
	todo.Description = description
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// SetCompletion sets only the completion flag, leaving title and
// description untouched.
func (s *TodoService) SetCompletion(ctx context.Context, userID, id int64, completed bool) (*model.Todo, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	todo, err := s.todos.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	todo.IsCompleted = completed
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Info("todo completion changed",
		slog.Int64("todoID", id),
		slog.Int64("userID", userID),
		slog.Bool("isCompleted", completed),
	)

	return todo, nil
}

// Delete removes one of the user's todos.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("todo deleted",
		slog.Int64("todoID", id),
		slog.Int64("userID", userID),
	)

	return nil
}
