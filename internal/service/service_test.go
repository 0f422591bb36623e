package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/todolist-api/internal/apperror"
	"github.com/sakif/todolist-api/internal/auth"
	"github.com/sakif/todolist-api/internal/model"
	"github.com/sakif/todolist-api/internal/repository"
)

// =========================================================================
// IN-MEMORY FAKES
// =========================================================================

// fakeUserRepo is an in-memory UserRepository. Not safe for concurrent
// use; the service tests are sequential.
type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64

	// failWith, when set, makes every call fail. Simulates storage errors.
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("Email already in use")
		}
	}
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", strconv.FormatInt(id, 10))
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// fakeTodoRepo is an in-memory TodoRepository with the same ownership
// semantics as the SQLite one: a foreign row is NotFound.
type fakeTodoRepo struct {
	todos  map[int64]*model.Todo
	nextID int64

	failWith error
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: make(map[int64]*model.Todo)}
}

func (f *fakeTodoRepo) Create(_ context.Context, todo *model.Todo) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.nextID++
	todo.ID = f.nextID
	stored := *todo
	f.todos[todo.ID] = &stored
	return nil
}

func (f *fakeTodoRepo) GetByID(_ context.Context, userID, id int64) (*model.Todo, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return nil, apperror.NotFound("todo", strconv.FormatInt(id, 10))
	}
	out := *t
	return &out, nil
}

func (f *fakeTodoRepo) List(_ context.Context, userID int64, opts repository.ListOptions) ([]model.Todo, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	owned := make([]model.Todo, 0)
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.todos[id]; ok && t.UserID == userID {
			owned = append(owned, *t)
		}
	}
	if opts.Offset >= len(owned) {
		return []model.Todo{}, nil
	}
	owned = owned[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(owned) {
		owned = owned[:opts.Limit]
	}
	return owned, nil
}

func (f *fakeTodoRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	count := 0
	for _, t := range f.todos {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTodoRepo) Update(_ context.Context, todo *model.Todo) error {
	if f.failWith != nil {
		return f.failWith
	}
	existing, ok := f.todos[todo.ID]
	if !ok || existing.UserID != todo.UserID {
		return apperror.NotFound("todo", strconv.FormatInt(todo.ID, 10))
	}
	stored := *todo
	f.todos[todo.ID] = &stored
	return nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, userID, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	existing, ok := f.todos[id]
	if !ok || existing.UserID != userID {
		return apperror.NotFound("todo", strconv.FormatInt(id, 10))
	}
	delete(f.todos, id)
	return nil
}

// =========================================================================
// SHARED TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", "todolist-api", "todolist-api")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

// newTestAuthService wires an AuthService over fakes with a fast bcrypt
// cost.
func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	svc := NewAuthService(
		users,
		newTestTokenService(t),
		auth.NewPasswordServiceForTest(bcrypt.MinCost),
		testLogger(),
	)
	return svc, users
}

// newTestTodoService wires a TodoService over fakes and registers one user
// whose ID it returns.
func newTestTodoService(t *testing.T) (*TodoService, *fakeTodoRepo, int64) {
	t.Helper()
	users := newFakeUserRepo()
	owner := &model.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "x"}
	if err := users.Create(context.Background(), owner); err != nil {
		t.Fatalf("seeding owner: %v", err)
	}
	todos := newFakeTodoRepo()
	return NewTodoService(todos, users, testLogger()), todos, owner.ID
}
