package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"pool-ledger/internal/models"

	"github.com/google/uuid"
	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// ErrUserNotFound is returned when no user has the requested ID.
var ErrUserNotFound = errors.New("user not found")

// DB wraps a sql.DB connection holding the user directory.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: gets its own empty database
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_name ON users(name)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// AvatarURL returns the default avatar for a user ID.
func AvatarURL(id string) string {
	return "https://picsum.photos/seed/" + id + "/40/40"
}

// CreateUser inserts a user. An empty id is replaced by a generated one and
// an empty avatar by AvatarURL(id).
func (db *DB) CreateUser(id, name, avatarURL string) (*models.User, error) {
	if id == "" {
		id = "user-" + uuid.NewString()
	}
	if avatarURL == "" {
		avatarURL = AvatarURL(id)
	}
	_, err := db.conn.Exec(
		"INSERT INTO users (id, name, avatar_url, created_at) VALUES (?, ?, ?, ?)",
		id, strings.TrimSpace(name), avatarURL, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	return db.GetUser(id)
}

// EnsureUsers inserts the given users, skipping IDs that already exist.
func (db *DB) EnsureUsers(users []models.User) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, u := range users {
		avatar := u.AvatarURL
		if avatar == "" {
			avatar = AvatarURL(u.ID)
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO users (id, name, avatar_url, created_at) VALUES (?, ?, ?, ?)",
			u.ID, u.Name, avatar, now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(id string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, avatar_url, created_at FROM users WHERE id = ?",
		id,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every user ordered by name.
func (db *DB) ListUsers() ([]models.User, error) {
	rows, err := db.conn.Query("SELECT id, name, avatar_url, created_at FROM users ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
