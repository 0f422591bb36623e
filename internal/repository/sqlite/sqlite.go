// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure-Go translation of the SQLite C sources, so
// there is no CGo dependency and cross-compilation stays trivial. The
// database is a single file (or ":memory:" in tests); database/sql manages
// the connection pool shared by concurrent requests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" at init time.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool. The Users and Todos accessors expose the
// repository implementations; both share this pool.
type DB struct {
	conn *sql.DB
}

// UserDB implements repository.UserRepository.
type UserDB struct {
	conn *sql.DB
}

// TodoDB implements repository.TodoRepository.
type TodoDB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Todos returns the todo repository backed by this database.
func (db *DB) Todos() *TodoDB {
	return &TodoDB{conn: db.conn}
}

// New opens (or creates) the database at dbPath, applies the connection
// pragmas, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permission problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — required for a
	// web server where requests hit the DB concurrently.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// SQLite ships with foreign keys off; the todos.user_id constraint
	// depends on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL and releasing the
// file lock. Callers defer this right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent across restarts.
//
// Column widths mirror the API contract: name/email/title cap at 128
// characters, description at 255. SQLite doesn't enforce varchar lengths —
// the service layer does — but the declarations document the schema.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          VARCHAR(128) NOT NULL,
			email         VARCHAR(128) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			title        VARCHAR(128) NOT NULL,
			description  VARCHAR(255) NOT NULL,
			is_completed BOOLEAN NOT NULL DEFAULT 0,
			user_id      INTEGER NOT NULL REFERENCES users(id),
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating todos table: %w", err)
	}

	return nil
}

// SeedDemo inserts a demo account (test@mail.com) and six todos, but only
// into an empty store. passwordHash is the bcrypt digest of the demo
// password, computed by the caller so this package stays free of crypto
// concerns.
func (db *DB) SeedDemo(ctx context.Context, passwordHash string) error {
	var userCount int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("sqlite: counting users: %w", err)
	}

	var userID int64
	if userCount == 0 {
		res, err := db.conn.ExecContext(ctx,
			`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`,
			"Test User", "test@mail.com", passwordHash,
		)
		if err != nil {
			return fmt.Errorf("sqlite: seeding demo user: %w", err)
		}
		userID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading seeded user id: %w", err)
		}
	} else {
		if err := db.conn.QueryRowContext(ctx,
			`SELECT id FROM users ORDER BY id LIMIT 1`).Scan(&userID); err != nil {
			return fmt.Errorf("sqlite: finding seed owner: %w", err)
		}
	}

	var todoCount int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&todoCount); err != nil {
		return fmt.Errorf("sqlite: counting todos: %w", err)
	}
	if todoCount > 0 {
		return nil
	}

	for i := 1; i <= 6; i++ {
		suffix := ""
		if i > 1 {
			suffix = fmt.Sprintf(" %d", i)
		}
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO todos (title, description, user_id) VALUES (?, ?, ?)`,
			"Test Todo"+suffix, "Test Description"+suffix, userID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: seeding demo todo %d: %w", i, err)
		}
	}

	return nil
}
