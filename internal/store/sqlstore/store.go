// Package sqlstore implements store.Store on top of database/sql. Driver
// packages (sqlite, postgres) open the connection, apply their schema and hand
// the *sql.DB to New together with their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snowman-se/bad-memo-app/internal/store"
)

// Option customizes a store returned by New.
type Option func(*sqlStore)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *sqlStore) { s.now = now }
}

// New constructs a store backed by db using dialect d.
func New(db *sql.DB, d Dialect, opts ...Option) store.Store {
	s := &sqlStore{db: db, d: d, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

type sqlStore struct {
	db  *sql.DB
	d   Dialect
	now func() time.Time
}

func (s *sqlStore) Memos() store.Memos { return &memos{s} }
func (s *sqlStore) Tags() store.Tags   { return &tagRepo{s} }

// HealthPing implements health.HealthPinger.
func (s *sqlStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction and commits when fn returns nil.
func (s *sqlStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// timeCol scans created_at regardless of how the driver stores it.
type timeCol struct{ t time.Time }

func (c *timeCol) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		c.t = time.Time{}
	case int64:
		c.t = time.Unix(0, x).UTC()
	case time.Time:
		c.t = x.UTC()
	default:
		return fmt.Errorf("unsupported created_at value %T", v)
	}
	return nil
}
