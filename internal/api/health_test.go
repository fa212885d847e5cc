package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_CheckHealth(t *testing.T) {
	tests := []struct {
		name       string
		healthy    bool
		components map[string]bool
		want       string
	}{
		{name: "healthy", healthy: true, components: map[string]bool{"store": true}, want: "healthy"},
		{name: "unhealthy", healthy: false, components: map[string]bool{"store": false}, want: "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(
				func() bool { return tt.healthy },
				func() map[string]bool { return tt.components },
			)
			w := httptest.NewRecorder()
			h.CheckHealth(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body healthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, tt.components, body.Components)
			_, err := time.Parse(time.RFC3339, body.Timestamp)
			assert.NoError(t, err)
		})
	}
}

// A handler built without a health source reports unhealthy.
func TestHealthHandler_NilSource(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	w := httptest.NewRecorder()
	h.CheckHealth(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
	assert.NotContains(t, w.Body.String(), "components")
}
