package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"go-drive/internal/model"
	"go-drive/internal/service"
	"go-drive/pkg/apierror"
)

type TrashHandler struct {
	trash *service.TrashService
}

func NewTrashHandler(trash *service.TrashService) *TrashHandler {
	return &TrashHandler{trash: trash}
}

// SoftDelete trashes a batch of items; per-item outcomes are reported
// independently.
func (h *TrashHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}

	actor := actorFromRequest(r)
	result := model.BatchResult{Succeeded: []uuid.UUID{}, Failed: []model.BatchItemResult{}}
	for _, id := range ids {
		if _, err := h.trash.SoftDelete(r.Context(), actor, id); err != nil {
			result.Failed = append(result.Failed, model.BatchItemResult{ID: id, Code: model.ErrorCode(err), Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}

	actor := actorFromRequest(r)
	result := model.BatchResult{Succeeded: []uuid.UUID{}, Failed: []model.BatchItemResult{}}
	for _, id := range ids {
		if _, err := h.trash.Restore(r.Context(), actor, id); err != nil {
			result.Failed = append(result.Failed, model.BatchItemResult{ID: id, Code: model.ErrorCode(err), Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *TrashHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid item id", rawID, http.StatusBadRequest))
		return
	}

	if err := h.trash.PermanentDelete(r.Context(), actorFromRequest(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *TrashHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	ownerID := actor.ID
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, apierror.New("BAD_REQUEST", "invalid owner_id", raw, http.StatusBadRequest))
			return
		}
		ownerID = parsed
	}

	result, err := h.trash.EmptyTrash(r.Context(), actor, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	ownerID := actor.ID
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, apierror.New("BAD_REQUEST", "invalid owner_id", raw, http.StatusBadRequest))
			return
		}
		ownerID = parsed
	}

	items, err := h.trash.ListTrash(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"items": items}, nil)
}

func decodeIDs(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	var payload model.TrashRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return nil, false
	}
	if len(payload.IDs) == 0 {
		writeError(w, apierror.New("BAD_REQUEST", "ids are required", "ids", http.StatusBadRequest))
		return nil, false
	}
	return payload.IDs, true
}
