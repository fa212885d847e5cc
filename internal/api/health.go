package api

import (
	"net/http"
	"time"

	respond "github.com/snowman-se/bad-memo-app/internal/api/respond"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	isHealthy  func() bool
	components func() map[string]bool
}

// NewHealthHandler reports the service state through isHealthy. components
// may be nil.
func NewHealthHandler(isHealthy func() bool, components func() map[string]bool) *HealthHandler {
	if isHealthy == nil {
		isHealthy = func() bool { return false }
	}
	return &HealthHandler{isHealthy: isHealthy, components: components}
}

type healthResponse struct {
	Status     string          `json:"status"`
	Timestamp  string          `json:"timestamp"`
	Components map[string]bool `json:"components,omitempty"`
}

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "unhealthy",
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if h.isHealthy() {
		resp.Status = "healthy"
	}
	if h.components != nil {
		resp.Components = h.components()
	}
	respond.WriteJSON(w, http.StatusOK, resp)
}
