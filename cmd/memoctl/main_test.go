package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowman-se/bad-memo-app/internal/api"
	"github.com/snowman-se/bad-memo-app/internal/client"
	"github.com/snowman-se/bad-memo-app/internal/services"
	"github.com/snowman-se/bad-memo-app/internal/store/sqlite"
	"github.com/snowman-se/bad-memo-app/internal/web"
)

func startServer(t *testing.T) string {
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
		Health: api.NewHealthHandler(func() bool { return true }, nil),
		Log:    zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", apiURL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMemoctl_CreateGetUpdateDelete(t *testing.T) {
	apiURL := startServer(t)

	out, err := run(t, apiURL, "memos", "create", "--title", "ship it", "--body", "friday", "--tags", "Work, release")
	require.NoError(t, err)
	var created client.Memo
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, []string{"release", "work"}, created.Tags)
	id := fmt.Sprint(created.ID)

	out, err = run(t, apiURL, "memos", "update", id, "--body", "monday")
	require.NoError(t, err)
	var updated client.Memo
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "ship it", updated.Title, "title kept when flag absent")
	assert.Equal(t, "monday", updated.Body)
	assert.Equal(t, []string{"release", "work"}, updated.Tags)

	out, err = run(t, apiURL, "memos", "update", id, "--tags", "")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Empty(t, updated.Tags)

	out, err = run(t, apiURL, "tags", "list")
	require.NoError(t, err)
	assert.Equal(t, "release\t0\nwork\t0\n", out)

	out, err = run(t, apiURL, "memos", "list", "-q", "ship")
	require.NoError(t, err)
	var list client.MemoList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, 1, list.Count)

	out, err = run(t, apiURL, "memos", "delete", id)
	require.NoError(t, err)
	assert.Equal(t, "deleted memo "+id+"\n", out)

	_, err = run(t, apiURL, "memos", "get", id)
	assert.True(t, client.IsNotFound(err))
}

func TestMemoctl_YAMLOutput(t *testing.T) {
	apiURL := startServer(t)

	out, err := run(t, apiURL, "-o", "yaml", "memos", "create", "--title", "yaml memo", "--tags", "b,a")
	require.NoError(t, err)
	assert.Contains(t, out, "title: yaml memo\n")
	assert.Regexp(t, `tags:\n\s+- a\n\s+- b\n`, out)

	_, err = run(t, apiURL, "-o", "xml", "tags", "list")
	assert.EqualError(t, err, `unsupported output format "xml" (json, yaml)`)
}

func TestMemoctl_Errors(t *testing.T) {
	apiURL := startServer(t)

	_, err := run(t, apiURL, "memos", "get", "abc")
	assert.EqualError(t, err, `invalid memo id "abc"`)

	_, err = run(t, apiURL, "memos", "create", "--title", " ")
	assert.ErrorIs(t, err, client.ErrValidation)

	_, err = run(t, apiURL, "memos", "create")
	assert.ErrorContains(t, err, `required flag(s) "title" not set`)
}

func TestMemoctl_Health(t *testing.T) {
	apiURL := startServer(t)
	out, err := run(t, apiURL, "health")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "healthy"`)

	out, err = run(t, apiURL, "health", "--wait", "2s")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "healthy"`)
}

func TestMemoctl_HealthWaitGivesUp(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", "health", "--wait", "300ms")
	assert.Error(t, err)
}

func TestSplitTags(t *testing.T) {
	assert.Nil(t, splitTags(""))
	assert.Equal(t, []string{"a", "b"}, splitTags(" a, ,b "))
}
