package model

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// ParseRole maps a raw role name to a known Role. Unrecognized names report
// ok=false so the resolver can fall back to least privilege.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleUser:
		return RoleUser, true
	default:
		return RoleUser, false
	}
}

type Permission string

const (
	// User and role administration
	PermManageUsers Permission = "manage_users"
	PermManageRoles Permission = "manage_roles"
	PermViewUsers   Permission = "view_users"

	// File operations
	PermUploadFiles   Permission = "upload_files"
	PermDownloadFiles Permission = "download_files"
	PermShareFiles    Permission = "share_files"
	PermMoveFiles     Permission = "move_files"
	PermMoveFolders   Permission = "move_folders"
	PermDeleteFiles   Permission = "delete_files"
	PermDeleteFolders Permission = "delete_folders"
	PermRestoreItems  Permission = "restore_items"
	PermPurgeItems    Permission = "purge_items"

	// Administration surfaces
	PermViewAuditLog   Permission = "view_audit_log"
	PermViewAnalytics  Permission = "view_analytics"
	PermManageSettings Permission = "manage_settings"
)

// RolePermissionTable maps each role to its capability set. It is built once
// at startup by DefaultRolePermissions and passed by reference; nothing
// mutates it afterwards. Roles do not inherit from each other: each set is
// spelled out in full.
type RolePermissionTable map[Role]map[Permission]struct{}

func DefaultRolePermissions() RolePermissionTable {
	return RolePermissionTable{
		RoleAdmin: permSet(
			PermManageUsers, PermManageRoles, PermViewUsers,
			PermUploadFiles, PermDownloadFiles, PermShareFiles,
			PermMoveFiles, PermMoveFolders,
			PermDeleteFiles, PermDeleteFolders,
			PermRestoreItems, PermPurgeItems,
			PermViewAuditLog, PermViewAnalytics, PermManageSettings,
		),
		RoleManager: permSet(
			PermViewUsers,
			PermUploadFiles, PermDownloadFiles, PermShareFiles,
			PermMoveFiles, PermMoveFolders,
			PermDeleteFiles, PermDeleteFolders,
			PermRestoreItems, PermPurgeItems,
			PermViewAuditLog, PermViewAnalytics,
		),
		RoleUser: permSet(
			PermUploadFiles, PermDownloadFiles, PermShareFiles,
			PermMoveFiles, PermMoveFolders,
			PermDeleteFiles, PermDeleteFolders,
			PermRestoreItems,
		),
	}
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}
