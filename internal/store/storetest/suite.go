package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowman-se/bad-memo-app/internal/model"
	"github.com/snowman-se/bad-memo-app/internal/paging"
	"github.com/snowman-se/bad-memo-app/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store on every call.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("CRUD", func(t *testing.T) { testCRUD(t, makeStore(t)) })
	t.Run("Pagination", func(t *testing.T) { testPagination(t, makeStore(t)) })
	t.Run("Search", func(t *testing.T) { testSearch(t, makeStore(t)) })
	t.Run("TagLifecycle", func(t *testing.T) { testTagLifecycle(t, makeStore(t)) })
	t.Run("Sort", func(t *testing.T) { testSort(t, makeStore(t)) })
}

func testCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()

	m, err := s.Memos().Create(ctx, &model.Memo{Title: "first", Body: "hello", Tags: []string{"go", "sql", "go"}})
	require.NoError(t, err)
	require.NotZero(t, m.ID)
	require.False(t, m.CreatedAt.IsZero())
	assert.ElementsMatch(t, []string{"go", "sql"}, m.Tags)

	got, err := s.Memos().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, "hello", got.Body)
	assert.ElementsMatch(t, []string{"go", "sql"}, got.Tags)
	// Postgres keeps microseconds only.
	assert.WithinDuration(t, m.CreatedAt, got.CreatedAt, time.Microsecond)

	upd, err := s.Memos().Update(ctx, &model.Memo{ID: m.ID, Title: "renamed", Body: "", Tags: []string{"web"}})
	require.NoError(t, err)
	assert.Equal(t, "renamed", upd.Title)
	assert.Empty(t, upd.Body)
	assert.ElementsMatch(t, []string{"web"}, upd.Tags)
	assert.True(t, upd.CreatedAt.Equal(got.CreatedAt), "update changed created_at: %v -> %v", got.CreatedAt, upd.CreatedAt)

	_, err = s.Memos().GetByID(ctx, m.ID+1000)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.Memos().Update(ctx, &model.Memo{ID: m.ID + 1000, Title: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Memos().Delete(ctx, m.ID))
	_, err = s.Memos().GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Memos().Delete(ctx, m.ID), model.ErrNotFound)

	// Deleting the memo removes its links but not the tag.
	tag, err := s.Tags().Get(ctx, "web")
	require.NoError(t, err)
	assert.Zero(t, tag.Count)
}

func testPagination(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 50; i++ {
		_, err := s.Memos().Create(ctx, &model.Memo{
			Title:     fmt.Sprintf("Test Memo %d", i),
			Body:      fmt.Sprintf("This is test memo number %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err, "create %d", i)
	}

	p1, err := s.Memos().List(ctx, model.ListQuery{Page: 1, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.Equal(t, 50, p1.Total)
	assert.Equal(t, 3, p1.NumPages)
	assert.Equal(t, 1, p1.Number)
	require.Len(t, p1.Memos, 20)
	assert.True(t, p1.HasNext)
	assert.False(t, p1.HasPrevious)
	assert.Equal(t, "Test Memo 50", p1.Memos[0].Title)
	assert.Equal(t, "Test Memo 31", p1.Memos[19].Title)

	p2, err := s.Memos().List(ctx, model.ListQuery{Page: 2, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.Equal(t, 2, p2.Number)
	require.Len(t, p2.Memos, 20)
	assert.Equal(t, "Test Memo 30", p2.Memos[0].Title)
	assert.True(t, p2.HasPrevious)

	last, err := s.Memos().List(ctx, model.ListQuery{Page: 999, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.Equal(t, 3, last.Number)
	require.Len(t, last.Memos, 10)
	assert.False(t, last.HasNext)
	assert.Equal(t, "Test Memo 1", last.Memos[9].Title)
}

func testSearch(t *testing.T, s store.Store) {
	ctx := context.Background()
	seed := []model.Memo{
		{Title: "Test Memo 1", Body: "This is a test memo"},
		{Title: "Python Programming", Body: "Learn Python basics"},
		{Title: "Django Tutorial", Body: "Build web apps with Django"},
		{Title: "100% done", Body: "percent sign in title"},
		{Title: "snake_case", Body: "underscore in title"},
		{Title: "it's quoted", Body: `back\slash and "double" quotes`},
		{Title: "broken \uFFFD byte", Body: "stored after cleaning"},
	}
	for i := range seed {
		_, err := s.Memos().Create(ctx, &seed[i])
		require.NoError(t, err, "seed %q", seed[i].Title)
	}

	cases := []struct {
		query string
		want  []string
	}{
		{"Python", []string{"Python Programming"}},
		{"django", []string{"Django Tutorial"}},
		{"web apps", []string{"Django Tutorial"}},
		{"test", []string{"Test Memo 1"}},
		{"%", []string{"100% done"}},
		{"_", []string{"snake_case"}},
		{"'", []string{"it's quoted"}},
		{`\`, []string{"it's quoted"}},
		{`"double"`, []string{"it's quoted"}},
		{"\x00", []string{"broken \uFFFD byte"}},
		{"\x00\x00\x00", nil},
		{"\xff", []string{"broken \uFFFD byte"}},
		{"\xc3", []string{"broken \uFFFD byte"}},
		{"test'", nil},
		{"test;", nil},
		{"' OR '1'='1", nil},
		{"'; DROP TABLE memos; --", nil},
		{"' UNION SELECT * FROM tags --", nil},
		{"%' OR '1'='1' --", nil},
		{"nothing matches this", nil},
	}
	for _, tc := range cases {
		page, err := s.Memos().List(ctx, model.ListQuery{Query: tc.query, Page: 1, PageSize: paging.DefaultSize})
		require.NoError(t, err, "q=%q", tc.query)
		assert.ElementsMatch(t, tc.want, titles(page.Memos), "q=%q", tc.query)
		assert.Equal(t, len(tc.want), page.Total, "q=%q", tc.query)
	}

	page, err := s.Memos().List(ctx, model.ListQuery{Tag: "\x00", Page: 1, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	// Table survives the injection attempts above.
	all, err := s.Memos().List(ctx, model.ListQuery{Page: 1, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.Equal(t, len(seed), all.Total)
}

func testTagLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	a, err := s.Memos().Create(ctx, &model.Memo{Title: "a", Tags: []string{"shared", "only-a"}})
	require.NoError(t, err)
	_, err = s.Memos().Create(ctx, &model.Memo{Title: "b", Tags: []string{"shared"}})
	require.NoError(t, err)

	page, err := s.Memos().List(ctx, model.ListQuery{Tag: "shared", Page: 1, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, titles(page.Memos))
	page, err = s.Memos().List(ctx, model.ListQuery{Tag: "only-a", Query: "a", Page: 1, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a"}, titles(page.Memos))

	// Remove every tag from a.
	_, err = s.Memos().Update(ctx, &model.Memo{ID: a.ID, Title: "a", Tags: nil})
	require.NoError(t, err)
	got, err := s.Memos().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	orphan, err := s.Tags().Get(ctx, "only-a")
	require.NoError(t, err, "orphan tag must survive")
	assert.Zero(t, orphan.Count)
	page, err = s.Memos().List(ctx, model.ListQuery{Tag: "only-a", Page: 1, PageSize: paging.DefaultSize})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	// The orphan can be attached to another memo.
	c, err := s.Memos().Create(ctx, &model.Memo{Title: "c", Tags: []string{"only-a"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"only-a"}, c.Tags)

	all, err := s.Tags().List(ctx)
	require.NoError(t, err)
	counts := map[string]int{}
	for _, tg := range all {
		counts[tg.Name] = tg.Count
	}
	assert.Equal(t, 1, counts["shared"])
	assert.Equal(t, 1, counts["only-a"])

	_, err = s.Tags().Get(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testSort(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"banana", "apple", "cherry"} {
		_, err := s.Memos().Create(ctx, &model.Memo{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err, "create %s", title)
	}
	cases := map[string][]string{
		model.SortNew:   {"cherry", "apple", "banana"},
		model.SortOld:   {"banana", "apple", "cherry"},
		model.SortTitle: {"apple", "banana", "cherry"},
		"bogus":         {"cherry", "apple", "banana"},
	}
	for key, want := range cases {
		page, err := s.Memos().List(ctx, model.ListQuery{Sort: key, Page: 1, PageSize: paging.DefaultSize})
		require.NoError(t, err, "sort=%s", key)
		assert.Equal(t, want, titles(page.Memos), "sort=%s", key)
	}
}

func titles(ms []*model.Memo) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Title)
	}
	return out
}
