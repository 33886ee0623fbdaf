package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"go-drive/internal/service"
	"go-drive/pkg/apierror"
)

type DirectoryHandler struct {
	dirs *service.DirectoryService
}

func NewDirectoryHandler(dirs *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{dirs: dirs}
}

// List returns the children of a folder (or the owner's root when parent_id
// is absent). Trashed items are excluded unless include_deleted is set.
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	var parentID *uuid.UUID
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, apierror.New("BAD_REQUEST", "invalid parent_id", raw, http.StatusBadRequest))
			return
		}
		parentID = &parsed
	}

	includeDeleted := false
	if raw := r.URL.Query().Get("include_deleted"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apierror.New("BAD_REQUEST", "include_deleted must be true or false", "include_deleted", http.StatusBadRequest))
			return
		}
		includeDeleted = parsed
	}

	items, err := h.dirs.ListChildren(r.Context(), actor.ID, parentID, includeDeleted)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"items": items}, nil)
}

type registerFileRequest struct {
	ParentID   *uuid.UUID `json:"parent_id"`
	Name       string     `json:"name"`
	SizeBytes  int64      `json:"size_bytes"`
	MimeType   string     `json:"mime_type"`
	StorageRef string     `json:"storage_ref"`
}

// RegisterFile records metadata for a blob the object store already accepted.
func (h *DirectoryHandler) RegisterFile(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload registerFileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	actor := actorFromRequest(r)
	item, err := h.dirs.RegisterFile(r.Context(), actor, actor.ID, payload.ParentID, payload.Name, payload.SizeBytes, payload.MimeType, payload.StorageRef)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, item, nil)
}

type createFolderRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
	Name     string     `json:"name"`
}

func (h *DirectoryHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	actor := actorFromRequest(r)
	item, err := h.dirs.CreateFolder(r.Context(), actor, actor.ID, payload.ParentID, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, item, nil)
}
