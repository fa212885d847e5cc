package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/snowman-se/bad-memo-app/internal/store"
	"github.com/snowman-se/bad-memo-app/internal/store/sqlstore"
)

// Dialect describes PostgreSQL for sqlstore. ILIKE keeps substring search
// case-insensitive like the SQLite build.
var Dialect = sqlstore.Dialect{
	Name:           "postgres",
	NumberedParams: true,
	LikeOp:         "ILIKE",
	TimeValue:      func(t time.Time) any { return t.UTC() },
}

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil // No DSN configured, skip bootstrap
	}

	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.PingContext(ctx)
}

// EnsureSchema creates the memo tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memos (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL CHECK (char_length(title) BETWEEN 1 AND 120),
            body TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS memos_created_at_idx ON memos (created_at DESC, id DESC)`,
		`CREATE TABLE IF NOT EXISTS tags (
            name TEXT PRIMARY KEY
        )`,
		`CREATE TABLE IF NOT EXISTS memo_tags (
            memo_id BIGINT NOT NULL REFERENCES memos(id) ON DELETE CASCADE,
            tag_name TEXT NOT NULL REFERENCES tags(name),
            PRIMARY KEY (memo_id, tag_name)
        )`,
		`CREATE INDEX IF NOT EXISTS memo_tags_tag_idx ON memo_tags (tag_name)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

// NewWithDB constructs a Postgres-backed store, applying the schema first.
func NewWithDB(ctx context.Context, db *sql.DB, opts ...sqlstore.Option) (store.Store, error) {
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return sqlstore.New(db, Dialect, opts...), nil
}
