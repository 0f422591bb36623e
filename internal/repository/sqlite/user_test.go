package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/todolist-api/internal/apperror"
	"github.com/sakif/todolist-api/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database that
// disappears when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and fails the test on error. The hash is a
// placeholder — repository tests never verify passwords.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefake",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}

	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID <= 0 {
		t.Errorf("Create() did not set a positive user.ID, got %d", user.ID)
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_IDsIncrease(t *testing.T) {
	db := newTestDB(t)

	first := createTestUser(t, db, "first@example.com")
	second := createTestUser(t, db, "second@example.com")

	if second.ID <= first.ID {
		t.Errorf("second user ID %d should be greater than first %d", second.ID, first.ID)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "taken@example.com")

	duplicate := &model.User{
		Name:         "Impostor",
		Email:        "taken@example.com",
		PasswordHash: "other-hash",
	}
	err := db.Users().Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should fail for a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "lookup@example.com")

	found, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.Email != "lookup@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "lookup@example.com")
	}
	if found.PasswordHash != created.PasswordHash {
		t.Error("GetByID() should return the stored password hash")
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), 12345)
	if err == nil {
		t.Fatal("GetByID() should fail for a nonexistent id")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "byemail@example.com")

	found, err := db.Users().GetByEmail(context.Background(), "byemail@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByEmail(context.Background(), "nobody@example.com")
	if err == nil {
		t.Fatal("GetByEmail() should fail for an unknown email")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// SEED TESTS
// =========================================================================

func TestSeedDemo_PopulatesEmptyStore(t *testing.T) {
	db := newTestDB(t)

	if err := db.SeedDemo(context.Background(), "demo-hash"); err != nil {
		t.Fatalf("SeedDemo() error = %v", err)
	}

	user, err := db.Users().GetByEmail(context.Background(), "test@mail.com")
	if err != nil {
		t.Fatalf("seeded user missing: %v", err)
	}

	count, err := db.Todos().CountByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if count != 6 {
		t.Errorf("seeded todo count = %d, want 6", count)
	}
}

func TestSeedDemo_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.SeedDemo(context.Background(), "demo-hash"); err != nil {
		t.Fatalf("first SeedDemo() error = %v", err)
	}
	if err := db.SeedDemo(context.Background(), "demo-hash"); err != nil {
		t.Fatalf("second SeedDemo() error = %v", err)
	}

	user, _ := db.Users().GetByEmail(context.Background(), "test@mail.com")
	count, _ := db.Todos().CountByUser(context.Background(), user.ID)
	if count != 6 {
		t.Errorf("todo count after double seed = %d, want 6", count)
	}
}

func TestSeedDemo_SkipsPopulatedStore(t *testing.T) {
	db := newTestDB(t)
	existing := createTestUser(t, db, "existing@example.com")

	if err := db.SeedDemo(context.Background(), "demo-hash"); err != nil {
		t.Fatalf("SeedDemo() error = %v", err)
	}

	// No demo user is added alongside an existing account
	if _, err := db.Users().GetByEmail(context.Background(), "test@mail.com"); err == nil {
		t.Error("SeedDemo() should not add the demo user to a populated store")
	}

	// But the demo todos attach to the existing user when there are none
	count, _ := db.Todos().CountByUser(context.Background(), existing.ID)
	if count != 6 {
		t.Errorf("todo count = %d, want 6", count)
	}
}
