// Package sqlite is the embedded memo store used by the local build target.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/snowman-se/bad-memo-app/internal/store"
	"github.com/snowman-se/bad-memo-app/internal/store/sqlstore"
)

// Dialect describes SQLite for sqlstore. created_at is stored as Unix nanoseconds
// so ordering is numeric.
var Dialect = sqlstore.Dialect{
	Name:      "sqlite",
	LikeOp:    "LIKE",
	TimeValue: func(t time.Time) any { return t.UTC().UnixNano() },
}

// Open opens (or creates) a SQLite database at the given path with WAL journaling
// and foreign keys enabled.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory opens a private in-memory database. Each call gets its own database.
func OpenMemory() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:memo-%s?mode=memory&cache=shared&_pragma=foreign_keys(ON)", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps the database alive and serializes access.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the memo tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memos (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL CHECK (length(title) BETWEEN 1 AND 120),
            body TEXT NOT NULL DEFAULT '',
            created_at INTEGER NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS memos_created_at_idx ON memos(created_at DESC, id DESC);`,
		`CREATE TABLE IF NOT EXISTS tags (
            name TEXT PRIMARY KEY
        );`,
		`CREATE TABLE IF NOT EXISTS memo_tags (
            memo_id INTEGER NOT NULL REFERENCES memos(id) ON DELETE CASCADE,
            tag_name TEXT NOT NULL REFERENCES tags(name),
            PRIMARY KEY(memo_id, tag_name)
        );`,
		`CREATE INDEX IF NOT EXISTS memo_tags_tag_idx ON memo_tags(tag_name);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

// New wraps an open database with the memo schema applied.
func New(ctx context.Context, db *sql.DB, opts ...sqlstore.Option) (store.Store, error) {
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return sqlstore.New(db, Dialect, opts...), nil
}
