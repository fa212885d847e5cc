package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", fmt.Errorf("get: %w", model.ErrNotFound), http.StatusNotFound, "memo not found"},
		{"validation", fmt.Errorf("%w: bad", model.ErrValidation), http.StatusBadRequest, "validation error: bad"},
		{"unknown", errors.New("secret dsn leaked"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteStoreError(rr, httptest.NewRequest(http.MethodGet, "/api/memos/1", nil), tt.err)

			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestWriteMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteMethodNotAllowed(rr, http.MethodGet, http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
}

func TestRedirect(t *testing.T) {
	rr := httptest.NewRecorder()
	Redirect(rr, httptest.NewRequest(http.MethodPost, "/memos/new", nil), "/memos/1")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/memos/1", rr.Header().Get("Location"))
}

func TestWantsJSON(t *testing.T) {
	api := httptest.NewRequest(http.MethodGet, "/api/memos", nil)
	assert.True(t, WantsJSON(api))

	html := httptest.NewRequest(http.MethodGet, "/memos", nil)
	html.Header.Set("Accept", "text/html,application/json;q=0.9")
	assert.False(t, WantsJSON(html))

	js := httptest.NewRequest(http.MethodGet, "/memos", nil)
	js.Header.Set("Accept", "application/json")
	assert.True(t, WantsJSON(js))
}
