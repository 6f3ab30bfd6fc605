package handlers

import (
	"fmt"
	"net/http"

	"github.com/Project-Sylos/Mend/internal/storage"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	BaseHandler
	store *storage.Service
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(store *storage.Service) *SystemHandler {
	return &SystemHandler{
		store: store,
	}
}

// Reset handles the reset endpoint
func (h *SystemHandler) Reset(w http.ResponseWriter, req *http.Request) {
	if err := h.store.Reset(); err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to reset storage: %v", err))
		return
	}

	h.sendSuccess(w, "Storage reset successfully", nil)
}

// GetStats handles the get stats endpoint
func (h *SystemHandler) GetStats(w http.ResponseWriter, req *http.Request) {
	count, err := h.store.NodeCount()
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get stats: %v", err))
		return
	}

	response := map[string]any{
		"node_count": count,
	}

	h.sendSuccess(w, "Stats retrieved successfully", response)
}

// GetConfig handles the get config endpoint. Secrets are redacted.
func (h *SystemHandler) GetConfig(w http.ResponseWriter, req *http.Request) {
	cfg := *h.store.GetConfig()
	if cfg.API.Token != "" {
		cfg.API.Token = "*****"
	}
	if cfg.Remote.Token != "" {
		cfg.Remote.Token = "*****"
	}
	h.sendSuccess(w, "Config retrieved successfully", cfg)
}
