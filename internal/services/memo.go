package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/snowman-se/bad-memo-app/internal/api/validate"
	"github.com/snowman-se/bad-memo-app/internal/model"
	"github.com/snowman-se/bad-memo-app/internal/paging"
	"github.com/snowman-se/bad-memo-app/internal/store"
	"github.com/snowman-se/bad-memo-app/internal/tags"
)

// MemoService orchestrates memo use cases on top of a Store.
type MemoService struct {
	store    store.Store
	pageSize int
}

func NewMemoService(s store.Store, pageSize int) *MemoService {
	if pageSize <= 0 {
		pageSize = paging.DefaultSize
	}
	return &MemoService{store: s, pageSize: pageSize}
}

// ListInput carries the raw list parameters as received from a request.
// Legacy and UnsafeSort are accepted for compatibility with old links; both
// run through the same bound query builder.
type ListInput struct {
	Query      string
	Tag        string
	Sort       string
	Page       string
	Legacy     bool
	UnsafeSort bool
}

// ListOutput echoes the normalized filters next to the resulting page so
// callers can build pagination links that preserve them.
type ListOutput struct {
	Query      string
	Tag        string
	Sort       string
	Legacy     bool
	UnsafeSort bool
	Page       *model.MemoPage
}

// MemoInput is the user-editable part of a memo. Tags is the raw
// comma-separated list.
type MemoInput struct {
	Title string
	Body  string
	Tags  string
}

func (s *MemoService) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	if in.Legacy || in.UnsafeSort {
		log.Debug().
			Bool("legacy", in.Legacy).
			Bool("unsafe_sort", in.UnsafeSort).
			Msg("compatibility list flags ignored")
	}
	q := model.ListQuery{
		Query:    validate.Query(in.Query),
		Tag:      tags.Normalize(in.Tag),
		Sort:     model.NormalizeSort(in.Sort),
		Page:     paging.ParseNumber(in.Page),
		PageSize: s.pageSize,
	}
	page, err := s.store.Memos().List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListOutput{
		Query:      q.Query,
		Tag:        q.Tag,
		Sort:       q.Sort,
		Legacy:     in.Legacy,
		UnsafeSort: in.UnsafeSort,
		Page:       page,
	}, nil
}

func (s *MemoService) Get(ctx context.Context, id int64) (*model.Memo, error) {
	return s.store.Memos().GetByID(ctx, id)
}

// Create validates in and stores a new memo. On validation failure the
// returned error wraps model.ErrValidation and nothing is written.
func (s *MemoService) Create(ctx context.Context, in MemoInput) (*model.Memo, error) {
	title, body, err := validate.MemoForm(in.Title, in.Body)
	if err != nil {
		return nil, err
	}
	return s.store.Memos().Create(ctx, &model.Memo{
		Title: title,
		Body:  body,
		Tags:  tags.Parse(in.Tags),
	})
}

// Update replaces title, body and the tag set of an existing memo.
// A missing memo reports model.ErrNotFound before input is validated.
func (s *MemoService) Update(ctx context.Context, id int64, in MemoInput) (*model.Memo, error) {
	if _, err := s.store.Memos().GetByID(ctx, id); err != nil {
		return nil, err
	}
	title, body, err := validate.MemoForm(in.Title, in.Body)
	if err != nil {
		return nil, err
	}
	return s.store.Memos().Update(ctx, &model.Memo{
		ID:    id,
		Title: title,
		Body:  body,
		Tags:  tags.Parse(in.Tags),
	})
}

func (s *MemoService) Delete(ctx context.Context, id int64) error {
	return s.store.Memos().Delete(ctx, id)
}

// ListTags returns every known tag with its link count, ordered by name.
func (s *MemoService) ListTags(ctx context.Context) ([]*model.Tag, error) {
	return s.store.Tags().List(ctx)
}

// ParseID parses a path id. Anything that is not a positive integer is
// reported as model.ErrNotFound.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrNotFound
	}
	return id, nil
}
