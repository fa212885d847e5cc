package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowman-se/bad-memo-app/internal/api"
	"github.com/snowman-se/bad-memo-app/internal/services"
	"github.com/snowman-se/bad-memo-app/internal/store/sqlite"
	"github.com/snowman-se/bad-memo-app/internal/web"
)

func newServer(t *testing.T) *Client {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st, err := sqlite.New(context.Background(), db)
	require.NoError(t, err)
	view, err := web.New(time.UTC)
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewRouter(api.RouterDeps{
		Memos:  services.NewMemoService(st, 20),
		View:   view,
		Health: api.NewHealthHandler(func() bool { return true }, func() map[string]bool { return map[string]bool{"store": true} }),
		Log:    zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithHTTPTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestClient_MemoLifecycle(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	m, err := c.CreateMemo(ctx, MemoInput{Title: "from cli", Body: "b", Tags: []string{"CLI"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"cli"}, m.Tags)
	assert.False(t, time.Time(m.CreatedAt).IsZero())

	got, err := c.GetMemo(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "from cli", got.Title)

	upd, err := c.UpdateMemo(ctx, m.ID, MemoInput{Title: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", upd.Title)
	assert.Empty(t, upd.Tags)

	list, err := c.ListMemos(ctx, ListParams{Query: "renamed", Sort: "title", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
	require.Len(t, list.Memos, 1)
	assert.Equal(t, m.ID, list.Memos[0].ID)

	tags, err := c.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Tag{{Name: "cli", Count: 0}}, tags)

	require.NoError(t, c.DeleteMemo(ctx, m.ID))
	err = c.DeleteMemo(ctx, m.ID)
	assert.True(t, IsNotFound(err))

	_, err = c.GetMemo(ctx, m.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_ValidationError(t *testing.T) {
	c := newServer(t)
	_, err := c.CreateMemo(context.Background(), MemoInput{Title: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "title is required")
}

func TestClient_Health(t *testing.T) {
	c := newServer(t)
	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.True(t, h.Components["store"])
}

func TestNew_Validates(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
	_, err = New("http://localhost:8080", WithHTTPTimeout(0))
	assert.EqualError(t, err, "http timeout must be > 0")
}
