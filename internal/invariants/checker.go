// Black-box invariant checks for a running memo board.
// They use only the public HTML and JSON routes.

package invariants

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowman-se/bad-memo-app/internal/client"
)

// InvariantChecker tests system invariants using customer-facing APIs
// This is a blackbox test that treats the service as an external system
type InvariantChecker struct {
	baseURL string
	http    *http.Client
	api     *client.Client
}

// NewInvariantChecker creates a new invariant checker
func NewInvariantChecker(t *testing.T, baseURL string) *InvariantChecker {
	t.Helper()
	api, err := client.New(baseURL, client.WithHTTPTimeout(30*time.Second))
	require.NoError(t, err)
	return &InvariantChecker{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
			// Redirects are asserted, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		api: api,
	}
}

// RunAll executes every invariant as a subtest.
func (ic *InvariantChecker) RunAll(t *testing.T) {
	t.Run("DeleteNeedsConfirmation", ic.TestDeleteNeedsConfirmation)
	t.Run("QueryTextIsLiteral", ic.TestQueryTextIsLiteral)
	t.Run("TitleLimits", ic.TestTitleLimits)
	t.Run("MissingMemoIsNotFound", ic.TestMissingMemoIsNotFound)
	t.Run("UnlinkedTagsSurvive", ic.TestUnlinkedTagsSurvive)
}

// 🔒 INVARIANT: a navigational GET never deletes; only the confirmation POST does
func (ic *InvariantChecker) TestDeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	m := ic.createMemo(t, "invariant delete", "")
	path := fmt.Sprintf("/memos/%d/delete", m.ID)

	resp := ic.request(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err := ic.api.GetMemo(ctx, m.ID)
	require.NoError(t, err, "GET on the delete route must not delete")

	resp = ic.request(t, http.MethodPost, path, url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/memos?notice=deleted", resp.Header.Get("Location"))
	_, err = ic.api.GetMemo(ctx, m.ID)
	assert.True(t, client.IsNotFound(err))

	resp = ic.request(t, http.MethodPost, path, url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/memos?notice=delete_failed", resp.Header.Get("Location"))
}

// 🔒 INVARIANT: query text never reaches the database as SQL
func (ic *InvariantChecker) TestQueryTextIsLiteral(t *testing.T) {
	ctx := context.Background()
	marker := fmt.Sprintf("inv-%d", time.Now().UnixNano())
	m := ic.createMemo(t, marker+" 100%_done", "")
	t.Cleanup(func() { _ = ic.api.DeleteMemo(context.Background(), m.ID) })

	for _, q := range []string{"' OR '1'='1", "'; DROP TABLE memos; --", marker + "%", `\`} {
		resp := ic.request(t, http.MethodGet, "/memos?q="+url.QueryEscape(q)+"&legacy=1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, q)

		list, err := ic.api.ListMemos(ctx, client.ListParams{Query: q})
		require.NoError(t, err, q)
		assert.Zero(t, list.Count, q)
	}

	list, err := ic.api.ListMemos(ctx, client.ListParams{Query: marker + " 100%_done"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count, "literal wildcard characters must still match themselves")
}

// 🔒 INVARIANT: titles are 1..120 characters after trimming
func (ic *InvariantChecker) TestTitleLimits(t *testing.T) {
	ctx := context.Background()
	_, err := ic.api.CreateMemo(ctx, client.MemoInput{Title: "   "})
	assert.ErrorIs(t, err, client.ErrValidation)
	_, err = ic.api.CreateMemo(ctx, client.MemoInput{Title: strings.Repeat("x", 121)})
	assert.ErrorIs(t, err, client.ErrValidation)

	m := ic.createMemo(t, strings.Repeat("x", 120), "")
	_ = ic.api.DeleteMemo(ctx, m.ID)
}

// 🔒 INVARIANT: unknown ids are a 404, never a server error
func (ic *InvariantChecker) TestMissingMemoIsNotFound(t *testing.T) {
	for _, path := range []string{"/memos/987654321", "/memos/987654321/edit", "/api/memos/987654321"} {
		resp := ic.request(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

// 🔒 INVARIANT: clearing a memo's tags unlinks them without deleting the tags
func (ic *InvariantChecker) TestUnlinkedTagsSurvive(t *testing.T) {
	ctx := context.Background()
	tag := fmt.Sprintf("inv-tag-%d", time.Now().UnixNano())
	m := ic.createMemo(t, "tagged", tag)
	t.Cleanup(func() { _ = ic.api.DeleteMemo(context.Background(), m.ID) })

	_, err := ic.api.UpdateMemo(ctx, m.ID, client.MemoInput{Title: "tagged"})
	require.NoError(t, err)

	tags, err := ic.api.ListTags(ctx)
	require.NoError(t, err)
	assert.Contains(t, tags, client.Tag{Name: tag, Count: 0})

	other := ic.createMemo(t, "retagged", tag)
	t.Cleanup(func() { _ = ic.api.DeleteMemo(context.Background(), other.ID) })
	list, err := ic.api.ListMemos(ctx, client.ListParams{Tag: tag})
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, other.ID, list.Memos[0].ID)
}

func (ic *InvariantChecker) createMemo(t *testing.T, title, tag string) *client.Memo {
	t.Helper()
	in := client.MemoInput{Title: title}
	if tag != "" {
		in.Tags = []string{tag}
	}
	m, err := ic.api.CreateMemo(context.Background(), in)
	require.NoError(t, err)
	return m
}

// request sends an HTML-style request; form is encoded as the body when non-nil.
func (ic *InvariantChecker) request(t *testing.T, method, path string, form url.Values) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, ic.baseURL+path, body)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := ic.http.Do(req)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp
}
