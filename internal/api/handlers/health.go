package handlers

import (
	"net/http"

	"github.com/Project-Sylos/Mend/internal/storage"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	BaseHandler
	store *storage.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *storage.Service) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck reports healthy only while the store answers queries
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, req *http.Request) {
	if _, err := h.store.NodeCount(); err != nil {
		h.sendError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	h.sendSuccess(w, "Mend storage API is healthy", nil)
}
