package handler

import (
	"net/http"

	"go-drive/internal/model"
	"go-drive/internal/service"
)

type PermissionHandler struct {
	perms *service.PermissionService
}

func NewPermissionHandler(perms *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{perms: perms}
}

// Me returns the caller's resolved role and its full permission set for UI
// enumeration.
func (h *PermissionHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	role := h.perms.ResolveRole(r.Context(), actor.ID)

	writeSuccess(w, http.StatusOK, map[string]any{
		"role":        role,
		"permissions": h.perms.Permissions(role),
	}, nil)
}

// Check answers a single capability query for the caller's role.
func (h *PermissionHandler) Check(w http.ResponseWriter, r *http.Request) {
	perm := r.URL.Query().Get("permission")
	actor := actorFromRequest(r)
	role := h.perms.ResolveRole(r.Context(), actor.ID)

	writeSuccess(w, http.StatusOK, map[string]any{
		"role":       role,
		"permission": perm,
		"granted":    h.perms.HasPermission(role, model.Permission(perm)),
	}, nil)
}
