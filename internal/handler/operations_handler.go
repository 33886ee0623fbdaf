package handler

import (
	"encoding/json"
	"net/http"

	"go-drive/internal/model"
	"go-drive/internal/service"
	"go-drive/pkg/apierror"
)

type OperationsHandler struct {
	moves *service.MoveService
}

func NewOperationsHandler(moves *service.MoveService) *OperationsHandler {
	return &OperationsHandler{moves: moves}
}

// Move relocates a batch of items to a destination folder; a null destination
// targets the owner's root. Per-item failures come back in the result body,
// so the HTTP status is 200 even for partial failure.
func (h *OperationsHandler) Move(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if len(payload.Items) == 0 {
		writeError(w, apierror.New("BAD_REQUEST", "items are required", "items", http.StatusBadRequest))
		return
	}

	result, err := h.moves.Move(r.Context(), actorFromRequest(r), payload.Items, payload.Destination)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}
