package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Project-Sylos/Mend/internal/api/models"
	"github.com/Project-Sylos/Mend/internal/storage"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/go-chi/chi/v5"
)

// ItemHandler handles file and folder endpoints
type ItemHandler struct {
	BaseHandler
	store *storage.Service
}

// NewItemHandler creates a new item handler
func NewItemHandler(store *storage.Service) *ItemHandler {
	return &ItemHandler{
		store: store,
	}
}

// Stat handles the stat endpoint. A missing node answers 404.
func (h *ItemHandler) Stat(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")
	if path == "" {
		h.sendError(w, http.StatusBadRequest, "path is required")
		return
	}

	node, err := h.store.Stat(path)
	if err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendSuccess(w, "Node retrieved successfully", node)
}

// Exists answers a HEAD on the stat endpoint: 200 when the path is taken,
// 404 when it is free, no body either way.
func (h *ItemHandler) Exists(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")
	if path == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	exists, err := h.store.Exists(path)
	switch {
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
	case exists:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// GetByID handles the node lookup endpoint
func (h *ItemHandler) GetByID(w http.ResponseWriter, req *http.Request) {
	node, err := h.store.Get(chi.URLParam(req, "id"))
	if err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendSuccess(w, "Node retrieved successfully", node)
}

// Tree handles the tree endpoint: every stored path
func (h *ItemHandler) Tree(w http.ResponseWriter, req *http.Request) {
	paths, err := h.store.Tree()
	if err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendSuccess(w, "Tree retrieved successfully", paths)
}

// ListChildren handles the list children endpoint
func (h *ItemHandler) ListChildren(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	children, err := h.store.ListChildren(path)
	if err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendSuccess(w, "Children retrieved successfully", children)
}

// Move handles the move endpoint
func (h *ItemHandler) Move(w http.ResponseWriter, req *http.Request) {
	var request models.MoveRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.Source == "" || request.Destination == "" {
		h.sendError(w, http.StatusBadRequest, "source and destination are required")
		return
	}

	node, err := h.store.Move(request.Source, request.Destination)
	if err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendSuccess(w, "Node moved successfully", node)
}

// CreateFolder handles the create folder endpoint
func (h *ItemHandler) CreateFolder(w http.ResponseWriter, req *http.Request) {
	var request models.CreateFolderRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.ParentPath == "" || request.Name == "" {
		h.sendError(w, http.StatusBadRequest, "parent_path and name are required")
		return
	}

	folder, err := h.store.CreateFolder(request.ParentPath, request.Name)
	if err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "Folder created successfully",
		Data:    folder,
	})
}

// UploadFile handles the upload file endpoint
func (h *ItemHandler) UploadFile(w http.ResponseWriter, req *http.Request) {
	var request models.UploadFileRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.ParentPath == "" || request.Name == "" {
		h.sendError(w, http.StatusBadRequest, "parent_path and name are required")
		return
	}

	file, err := h.store.UploadFile(request.ParentPath, request.Name, request.Data)
	if err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "File uploaded successfully",
		Data:    file,
	})
}

// Delete handles the delete endpoint
func (h *ItemHandler) Delete(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")
	if path == "" {
		h.sendError(w, http.StatusBadRequest, "path is required")
		return
	}

	if err := h.store.Delete(path); err != nil {
		h.sendStoreError(w, err)
		return
	}

	h.sendSuccess(w, "Node deleted successfully", nil)
}
