package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-drive/internal/model"
	"go-drive/internal/repository"
)

// DirectoryService is the thin browse/create seam used by the UI collaborator
// and by fixtures. Listing a folder shows only items whose own deleted_at is
// unset; it does not chase ancestors, so active descendants of a trashed
// folder simply drop out of browse by losing their listing root.
type DirectoryService struct {
	items repository.ItemRepository
	perms *PermissionService
	audit *AuditService
}

func NewDirectoryService(items repository.ItemRepository, perms *PermissionService, audit *AuditService) *DirectoryService {
	return &DirectoryService{items: items, perms: perms, audit: audit}
}

func (s *DirectoryService) ListChildren(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]model.Item, error) {
	return s.items.ListChildren(ctx, ownerID, parentID, includeDeleted)
}

func (s *DirectoryService) Get(ctx context.Context, id uuid.UUID) (model.Item, error) {
	return s.items.Get(ctx, id)
}

// CreateFolder registers a new folder under the given parent (nil = root).
func (s *DirectoryService) CreateFolder(ctx context.Context, actor model.Actor, ownerID uuid.UUID, parentID *uuid.UUID, name string) (model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Item{}, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}

	role := s.perms.ResolveRole(ctx, actor.ID)
	if !s.perms.HasPermission(role, model.PermUploadFiles) {
		s.audit.Record(actor, "create_folder", model.AuditStatusFailed, "folder", nil, name, nil, model.ErrUnauthorized.Error())
		return model.Item{}, model.ErrUnauthorized
	}

	now := time.Now().UTC()
	item := model.Item{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ParentID:  parentID,
		Name:      name,
		Kind:      model.KindFolder,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.audit.Record(actor, "create_folder", model.AuditStatusFailed, "folder", nil, name, nil, err.Error())
		return model.Item{}, err
	}

	s.audit.Record(actor, "create_folder", model.AuditStatusSuccess, "folder", &item.ID, name, nil, "")
	return item, nil
}

// RegisterFile records file metadata after the external object store has
// accepted the bytes. The storageRef stays opaque to this service.
func (s *DirectoryService) RegisterFile(ctx context.Context, actor model.Actor, ownerID uuid.UUID, parentID *uuid.UUID, name string, sizeBytes int64, mimeType string, storageRef string) (model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Item{}, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}
	if sizeBytes < 0 {
		return model.Item{}, fmt.Errorf("%w: size_bytes must be >= 0", model.ErrInvalidInput)
	}

	role := s.perms.ResolveRole(ctx, actor.ID)
	if !s.perms.HasPermission(role, model.PermUploadFiles) {
		s.audit.Record(actor, "register_file", model.AuditStatusFailed, "file", nil, name, nil, model.ErrUnauthorized.Error())
		return model.Item{}, model.ErrUnauthorized
	}

	now := time.Now().UTC()
	item := model.Item{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		ParentID:   parentID,
		Name:       name,
		Kind:       model.KindFile,
		SizeBytes:  sizeBytes,
		MimeType:   mimeType,
		StorageRef: storageRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.audit.Record(actor, "register_file", model.AuditStatusFailed, "file", nil, name, nil, err.Error())
		return model.Item{}, err
	}

	s.audit.Record(actor, "register_file", model.AuditStatusSuccess, "file", &item.ID, name, nil, "")
	return item, nil
}
