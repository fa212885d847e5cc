package store

import (
	"context"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres).
type Store interface {
	Memos() Memos
	Tags() Tags
}

// Memos persists memo records together with their tag links.
// Lookups for a missing id return model.ErrNotFound.
type Memos interface {
	// Create inserts m and links every name in m.Tags, creating tags on demand.
	Create(ctx context.Context, m *model.Memo) (*model.Memo, error)
	GetByID(ctx context.Context, id int64) (*model.Memo, error)
	// Update overwrites title and body and replaces the tag links with m.Tags.
	// Unlinked tags are kept.
	Update(ctx context.Context, m *model.Memo) (*model.Memo, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q model.ListQuery) (*model.MemoPage, error)
}

type Tags interface {
	Get(ctx context.Context, name string) (*model.Tag, error)
	List(ctx context.Context) ([]*model.Tag, error)
}
