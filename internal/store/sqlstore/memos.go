package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/snowman-se/bad-memo-app/internal/model"
	"github.com/snowman-se/bad-memo-app/internal/paging"
)

type memos struct{ s *sqlStore }

func (m *memos) Create(ctx context.Context, in *model.Memo) (*model.Memo, error) {
	created := in.CreatedAt
	if created.IsZero() {
		created = m.s.now()
	}
	created = created.UTC()

	out := &model.Memo{Title: in.Title, Body: in.Body, CreatedAt: created}
	err := m.s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, m.s.d.Rebind(`
            INSERT INTO memos (title, body, created_at)
            VALUES (?, ?, ?)
            RETURNING id
        `), in.Title, in.Body, m.s.d.timeValue(created))
		if err := row.Scan(&out.ID); err != nil {
			return fmt.Errorf("insert memo: %w", err)
		}
		names, err := m.s.attachTags(ctx, tx, out.ID, in.Tags)
		if err != nil {
			return err
		}
		sort.Strings(names)
		out.Tags = names
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *memos) GetByID(ctx context.Context, id int64) (*model.Memo, error) {
	return m.s.getMemo(ctx, m.s.db, id)
}

func (m *memos) Update(ctx context.Context, in *model.Memo) (*model.Memo, error) {
	var out *model.Memo
	err := m.s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, m.s.d.Rebind(`UPDATE memos SET title = ?, body = ? WHERE id = ?`), in.Title, in.Body, in.ID)
		if err != nil {
			return fmt.Errorf("update memo: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return model.ErrNotFound
		}
		// Links are cleared unconditionally; the tag rows themselves stay.
		if _, err := tx.ExecContext(ctx, m.s.d.Rebind(`DELETE FROM memo_tags WHERE memo_id = ?`), in.ID); err != nil {
			return fmt.Errorf("clear memo tags: %w", err)
		}
		if _, err := m.s.attachTags(ctx, tx, in.ID, in.Tags); err != nil {
			return err
		}
		out, err = m.s.getMemo(ctx, tx, in.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *memos) Delete(ctx context.Context, id int64) error {
	return m.s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, m.s.d.Rebind(`DELETE FROM memo_tags WHERE memo_id = ?`), id); err != nil {
			return fmt.Errorf("delete memo tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, m.s.d.Rebind(`DELETE FROM memos WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete memo: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}

func (m *memos) List(ctx context.Context, q model.ListQuery) (*model.MemoPage, error) {
	f := buildFilter(m.s.d, q)

	var total int
	if err := m.s.db.QueryRowContext(ctx, countQuery(m.s.d, f), f.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count memos: %w", err)
	}
	pg := paging.Resolve(total, q.Page, q.PageSize)

	args := append(append([]any{}, f.args...), pg.Size, pg.Offset())
	rows, err := m.s.db.QueryContext(ctx, pageQuery(m.s.d, f, q.Sort), args...)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	out := make([]*model.Memo, 0, pg.Size)
	for rows.Next() {
		var mm model.Memo
		var created timeCol
		if err := rows.Scan(&mm.ID, &mm.Title, &mm.Body, &created); err != nil {
			_ = rows.Close()
			return nil, err
		}
		mm.CreatedAt = created.t
		mm.Tags = []string{}
		out = append(out, &mm)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if err := m.s.loadTags(ctx, m.s.db, out); err != nil {
		return nil, err
	}
	return &model.MemoPage{
		Memos:       out,
		Total:       pg.Total,
		Number:      pg.Number,
		NumPages:    pg.NumPages,
		HasNext:     pg.HasNext,
		HasPrevious: pg.HasPrevious,
	}, nil
}

func (s *sqlStore) getMemo(ctx context.Context, q querier, id int64) (*model.Memo, error) {
	var out model.Memo
	var created timeCol
	row := q.QueryRowContext(ctx, s.d.Rebind(`SELECT id, title, body, created_at FROM memos WHERE id = ?`), id)
	if err := row.Scan(&out.ID, &out.Title, &out.Body, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get memo: %w", err)
	}
	out.CreatedAt = created.t
	out.Tags = []string{}
	if err := s.loadTags(ctx, q, []*model.Memo{&out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// loadTags fills Tags for every memo in ms with a single query.
func (s *sqlStore) loadTags(ctx context.Context, q querier, ms []*model.Memo) error {
	if len(ms) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Memo, len(ms))
	args := make([]any, 0, len(ms))
	for _, m := range ms {
		byID[m.ID] = m
		args = append(args, m.ID)
	}
	rows, err := q.QueryContext(ctx, s.d.Rebind(`SELECT memo_id, tag_name FROM memo_tags WHERE memo_id IN `+inClause(len(args))+` ORDER BY tag_name`), args...)
	if err != nil {
		return fmt.Errorf("load memo tags: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if m, ok := byID[id]; ok {
			m.Tags = append(m.Tags, name)
		}
	}
	return rows.Err()
}

// attachTags creates missing tags and links them to memoID. It returns the
// linked names in the order given, without duplicates.
func (s *sqlStore) attachTags(ctx context.Context, tx *sql.Tx, memoID int64, names []string) ([]string, error) {
	linked := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if _, err := tx.ExecContext(ctx, s.d.Rebind(`INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING`), name); err != nil {
			return nil, fmt.Errorf("upsert tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, s.d.Rebind(`INSERT INTO memo_tags (memo_id, tag_name) VALUES (?, ?) ON CONFLICT DO NOTHING`), memoID, name); err != nil {
			return nil, fmt.Errorf("link tag %q: %w", name, err)
		}
		linked = append(linked, name)
	}
	return linked, nil
}
