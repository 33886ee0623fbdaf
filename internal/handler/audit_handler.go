package handler

import (
	"net/http"
	"strconv"

	"go-drive/internal/model"
	"go-drive/internal/service"
)

type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := model.AuditQuery{
		Action:   q.Get("action"),
		ActorID:  q.Get("actor_id"),
		Status:   q.Get("status"),
		TargetID: q.Get("target_id"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		query.Limit = limit
	}

	records, meta, err := h.audit.Query(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"items": records}, &meta)
}
