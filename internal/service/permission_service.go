package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"go-drive/internal/model"
	"go-drive/internal/repository"
)

// PermissionService resolves an authenticated identity to a role and answers
// capability queries against an immutable role→permission table injected at
// construction. Role resolution fails safe: any lookup failure, missing
// assignment or unrecognized role name degrades to the least-privileged
// `user` role instead of erroring.
type PermissionService struct {
	table model.RolePermissionTable
	users repository.UserRepository
}

func NewPermissionService(table model.RolePermissionTable, users repository.UserRepository) *PermissionService {
	return &PermissionService{table: table, users: users}
}

func (s *PermissionService) ResolveRole(ctx context.Context, userID uuid.UUID) model.Role {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		slog.Warn("role lookup failed; defaulting to user role", "user_id", userID, "error", err)
		return model.RoleUser
	}

	role, ok := model.ParseRole(user.Role)
	if !ok {
		slog.Warn("unrecognized role; defaulting to user role", "user_id", userID, "role", user.Role)
		return model.RoleUser
	}
	return role
}

// HasPermission is a pure set-membership test; it performs no I/O.
func (s *PermissionService) HasPermission(role model.Role, perm model.Permission) bool {
	perms, ok := s.table[role]
	if !ok {
		return false
	}
	_, granted := perms[perm]
	return granted
}

// Permissions returns the role's full capability set, sorted for stable
// enumeration output.
func (s *PermissionService) Permissions(role model.Role) []model.Permission {
	perms, ok := s.table[role]
	if !ok {
		return []model.Permission{}
	}

	out := make([]model.Permission, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i int, j int) bool { return out[i] < out[j] })
	return out
}
