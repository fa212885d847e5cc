package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

type tagRepo struct{ s *sqlStore }

const tagCountSelect = `
    SELECT t.name, COUNT(mt.memo_id)
    FROM tags t LEFT JOIN memo_tags mt ON mt.tag_name = t.name`

func (r *tagRepo) Get(ctx context.Context, name string) (*model.Tag, error) {
	var out model.Tag
	row := r.s.db.QueryRowContext(ctx, r.s.d.Rebind(tagCountSelect+` WHERE t.name = ? GROUP BY t.name`), name)
	if err := row.Scan(&out.Name, &out.Count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &out, nil
}

func (r *tagRepo) List(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.s.db.QueryContext(ctx, tagCountSelect+` GROUP BY t.name ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.Name, &t.Count); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}
