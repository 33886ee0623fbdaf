package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-drive/internal/event"
	"go-drive/internal/model"
	"go-drive/internal/repository"
)

// TrashService drives the Active → Trashed → Gone lifecycle. Soft delete is
// shallow: trashing a folder leaves its descendants' deleted_at untouched,
// matching the source product's trash model. Permanent delete is the only
// path that removes a row.
type TrashService struct {
	items repository.ItemRepository
	perms *PermissionService
	audit *AuditService
	bus   event.Bus
}

func NewTrashService(items repository.ItemRepository, perms *PermissionService, audit *AuditService, bus event.Bus) *TrashService {
	return &TrashService{items: items, perms: perms, audit: audit, bus: bus}
}

// SoftDelete moves an item into the trash. Trashing an already-trashed item
// is a no-op success so duplicate client requests stay harmless.
func (s *TrashService) SoftDelete(ctx context.Context, actor model.Actor, id uuid.UUID) (model.Item, error) {
	role := s.perms.ResolveRole(ctx, actor.ID)

	item, err := s.items.Get(ctx, id)
	if err != nil {
		s.auditTrash(actor, model.ActionSoftDelete, model.AuditStatusFailed, id, "", err)
		return model.Item{}, err
	}

	perm := model.PermDeleteFiles
	if item.IsFolder() {
		perm = model.PermDeleteFolders
	}
	if !s.perms.HasPermission(role, perm) {
		s.auditTrash(actor, model.ActionSoftDelete, model.AuditStatusFailed, id, item.Name, model.ErrUnauthorized)
		return model.Item{}, model.ErrUnauthorized
	}

	if item.Trashed() {
		return item, nil
	}

	now := time.Now().UTC()
	if err := s.items.SetDeletedAt(ctx, id, &now, nil); err != nil {
		s.auditTrash(actor, model.ActionSoftDelete, model.AuditStatusFailed, id, item.Name, err)
		return model.Item{}, err
	}

	item.DeletedAt = &now
	s.auditTrash(actor, model.ActionSoftDelete, model.AuditStatusSuccess, id, item.Name, nil)
	s.publish(event.TypeItemTrashed, actor, item)
	return item, nil
}

// Restore clears an item's trashed state. The item reappears under its
// original parent; restore never re-parents. Restoring an active item is a
// no-op success.
func (s *TrashService) Restore(ctx context.Context, actor model.Actor, id uuid.UUID) (model.Item, error) {
	role := s.perms.ResolveRole(ctx, actor.ID)

	item, err := s.items.Get(ctx, id)
	if err != nil {
		s.auditTrash(actor, model.ActionRestore, model.AuditStatusFailed, id, "", err)
		return model.Item{}, err
	}

	if !s.perms.HasPermission(role, model.PermRestoreItems) {
		s.auditTrash(actor, model.ActionRestore, model.AuditStatusFailed, id, item.Name, model.ErrUnauthorized)
		return model.Item{}, model.ErrUnauthorized
	}

	if !item.Trashed() {
		return item, nil
	}

	if err := s.items.SetDeletedAt(ctx, id, nil, item.DeletedAt); err != nil {
		s.auditTrash(actor, model.ActionRestore, model.AuditStatusFailed, id, item.Name, err)
		return model.Item{}, err
	}

	item.DeletedAt = nil
	s.auditTrash(actor, model.ActionRestore, model.AuditStatusSuccess, id, item.Name, nil)
	s.publish(event.TypeItemRestored, actor, item)
	return item, nil
}

// PermanentDelete removes a trashed item for good. Deleting an active item is
// rejected with ErrInvalidState: everything goes through the trash first. The
// metadata row is removed here; blob cleanup rides on the purge event and is
// best-effort.
func (s *TrashService) PermanentDelete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	role := s.perms.ResolveRole(ctx, actor.ID)
	if !s.perms.HasPermission(role, model.PermPurgeItems) {
		s.auditTrash(actor, model.ActionPermanentDelete, model.AuditStatusFailed, id, "", model.ErrUnauthorized)
		return model.ErrUnauthorized
	}

	return s.purge(ctx, actor, id)
}

// EmptyTrash permanently deletes every trashed item the owner has, counting
// files and folders independently. Individual failures are audit-logged and
// skipped; the aggregate only reports successes. Cancellation keeps the
// deletions already applied.
func (s *TrashService) EmptyTrash(ctx context.Context, actor model.Actor, ownerID uuid.UUID) (model.EmptyTrashResult, error) {
	result := model.EmptyTrashResult{}

	role := s.perms.ResolveRole(ctx, actor.ID)
	if !s.perms.HasPermission(role, model.PermPurgeItems) {
		s.audit.Record(actor, model.ActionEmptyTrash, model.AuditStatusFailed, "owner", nil, "", map[string]any{"owner_id": ownerID.String()}, model.ErrUnauthorized.Error())
		return result, model.ErrUnauthorized
	}

	trashed, err := s.items.ListTrashed(ctx, ownerID)
	if err != nil {
		s.audit.Record(actor, model.ActionEmptyTrash, model.AuditStatusFailed, "owner", nil, "", map[string]any{"owner_id": ownerID.String()}, err.Error())
		return result, err
	}

	for _, item := range trashed {
		if ctx.Err() != nil {
			result.Canceled = true
			break
		}

		if err := s.purge(ctx, actor, item.ID); err != nil {
			continue
		}
		if item.IsFolder() {
			result.DeletedFolders++
		} else {
			result.DeletedFiles++
		}
	}

	s.audit.Record(actor, model.ActionEmptyTrash, model.AuditStatusSuccess, "owner", nil, "", map[string]any{
		"owner_id":        ownerID.String(),
		"deleted_files":   result.DeletedFiles,
		"deleted_folders": result.DeletedFolders,
	}, "")
	return result, nil
}

// ListTrash returns the owner's trashed items, newest first. Folders and
// files are listed as siblings; descendants of a trashed folder that were not
// themselves trashed do not appear (shallow model).
func (s *TrashService) ListTrash(ctx context.Context, ownerID uuid.UUID) ([]model.Item, error) {
	return s.items.ListTrashed(ctx, ownerID)
}

// purge performs the actual Trashed → Gone transition; permission has already
// been checked by the caller.
func (s *TrashService) purge(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		s.auditTrash(actor, model.ActionPermanentDelete, model.AuditStatusFailed, id, "", err)
		return err
	}

	if !item.Trashed() {
		s.auditTrash(actor, model.ActionPermanentDelete, model.AuditStatusFailed, id, item.Name, model.ErrInvalidState)
		return model.ErrInvalidState
	}

	if err := s.items.Delete(ctx, id); err != nil {
		s.auditTrash(actor, model.ActionPermanentDelete, model.AuditStatusFailed, id, item.Name, err)
		return err
	}

	s.auditTrash(actor, model.ActionPermanentDelete, model.AuditStatusSuccess, id, item.Name, nil)
	if s.bus != nil {
		s.bus.Publish(event.Event{
			ID:   uuid.NewString(),
			Type: event.TypeItemPurged,
			Payload: event.PurgedPayload{
				ItemID:     item.ID.String(),
				Kind:       string(item.Kind),
				StorageRef: item.StorageRef,
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			ActorID:   actor.ID.String(),
		})
	}
	return nil
}

func (s *TrashService) auditTrash(actor model.Actor, action model.Action, status string, id uuid.UUID, name string, cause error) {
	errText := ""
	if cause != nil {
		errText = cause.Error()
	}
	s.audit.Record(actor, action, status, "item", &id, name, nil, errText)
}

func (s *TrashService) publish(eventType event.Type, actor model.Actor, item model.Item) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:   uuid.NewString(),
		Type: eventType,
		Payload: map[string]any{
			"item_id": item.ID.String(),
			"kind":    string(item.Kind),
			"name":    item.Name,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actor.ID.String(),
	})
}
