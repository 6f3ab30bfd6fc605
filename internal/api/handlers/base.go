package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Project-Sylos/Mend/internal/db"
	"github.com/Project-Sylos/Mend/internal/storage"
	"github.com/Project-Sylos/Mend/internal/types"
)

// BaseHandler provides common functionality for all API handlers
type BaseHandler struct{}

// sendJSON sends a JSON response with the given status code and data
func (h *BaseHandler) sendJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response with the given status code and message
func (h *BaseHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	h.sendJSON(w, statusCode, types.APIResponse{
		Success: false,
		Message: message,
	})
}

// sendSuccess sends a success response with the given data
func (h *BaseHandler) sendSuccess(w http.ResponseWriter, message string, data any) {
	h.sendJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// sendStoreError maps storage errors onto HTTP status codes
func (h *BaseHandler) sendStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrNodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrNodeExists):
		status = http.StatusConflict
	case errors.Is(err, db.ErrNotFolder),
		errors.Is(err, db.ErrInvalidMove),
		errors.Is(err, storage.ErrInvalidName):
		status = http.StatusBadRequest
	}
	h.sendError(w, status, err.Error())
}
