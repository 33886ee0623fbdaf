package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"go-drive/internal/event"
	"go-drive/internal/model"
	"go-drive/internal/repository"
)

const defaultMoveWorkers = 4

// MoveService relocates items to a destination folder (or the owner's root),
// atomically per item. Batches never fail wholesale: invalid items become
// error entries in the result while the rest proceed.
type MoveService struct {
	items   repository.ItemRepository
	perms   *PermissionService
	audit   *AuditService
	bus     event.Bus
	workers int64
}

func NewMoveService(items repository.ItemRepository, perms *PermissionService, audit *AuditService, bus event.Bus, workers int) *MoveService {
	if workers <= 0 {
		workers = defaultMoveWorkers
	}
	return &MoveService{items: items, perms: perms, audit: audit, bus: bus, workers: int64(workers)}
}

// destSnapshot captures the destination's state at the start of a batch so
// cycle checks cannot depend on the order items are processed in.
type destSnapshot struct {
	id      *uuid.UUID
	ownerID uuid.UUID
	chain   map[uuid.UUID]struct{}
	err     error
}

// Move validates and applies the batch. A nil destination means the owner's
// root. Cycle checks for every folder in the batch are evaluated against the
// destination's ancestor chain as read once at batch start. Cancellation via
// ctx stops scheduling further items; already-applied moves stay applied and
// the result carries the Canceled marker.
func (s *MoveService) Move(ctx context.Context, actor model.Actor, refs []model.ItemRef, destination *uuid.UUID) (model.MoveResult, error) {
	result := model.MoveResult{
		MovedFiles:   []uuid.UUID{},
		MovedFolders: []uuid.UUID{},
		FileErrors:   []model.MoveError{},
		FolderErrors: []model.MoveError{},
	}

	role := s.perms.ResolveRole(ctx, actor.ID)
	snapshot := s.snapshotDestination(ctx, destination)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(s.workers)
	)

	seen := make(map[uuid.UUID]struct{}, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}

		if ctx.Err() != nil {
			result.Canceled = true
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			result.Canceled = true
			break
		}

		wg.Add(1)
		go func(ref model.ItemRef) {
			defer wg.Done()
			defer sem.Release(1)

			kind, err := s.moveOne(ctx, actor, role, ref, snapshot)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				moveErr := model.MoveError{ID: ref.ID, Code: model.ErrorCode(err), Reason: err.Error()}
				if kind == model.KindFolder {
					result.FolderErrors = append(result.FolderErrors, moveErr)
				} else {
					result.FileErrors = append(result.FileErrors, moveErr)
				}
				return
			}
			if kind == model.KindFolder {
				result.MovedFolders = append(result.MovedFolders, ref.ID)
			} else {
				result.MovedFiles = append(result.MovedFiles, ref.ID)
			}
		}(ref)
	}

	wg.Wait()
	return result, nil
}

func (s *MoveService) snapshotDestination(ctx context.Context, destination *uuid.UUID) destSnapshot {
	snapshot := destSnapshot{id: destination}
	if destination == nil {
		return snapshot
	}

	dest, err := s.items.Get(ctx, *destination)
	if err != nil {
		snapshot.err = model.ErrFolderNotFound
		return snapshot
	}
	if !dest.IsFolder() || dest.Trashed() {
		snapshot.err = model.ErrFolderNotFound
		return snapshot
	}
	snapshot.ownerID = dest.OwnerID

	chain, err := s.items.AncestorChain(ctx, *destination)
	if err != nil {
		snapshot.err = err
		return snapshot
	}

	snapshot.chain = make(map[uuid.UUID]struct{}, len(chain))
	for _, id := range chain {
		snapshot.chain[id] = struct{}{}
	}
	return snapshot
}

// moveOne applies a single item. The returned kind buckets the outcome; when
// the item cannot be loaded the caller-supplied kind is used.
func (s *MoveService) moveOne(ctx context.Context, actor model.Actor, role model.Role, ref model.ItemRef, snapshot destSnapshot) (model.ItemKind, error) {
	kind := ref.Kind
	if kind != model.KindFolder {
		kind = model.KindFile
	}

	item, err := s.items.Get(ctx, ref.ID)
	if err != nil {
		s.auditMove(actor, model.AuditStatusFailed, ref.ID, "", nil, snapshot.id, err)
		return kind, err
	}
	kind = item.Kind

	perm := model.PermMoveFiles
	if item.IsFolder() {
		perm = model.PermMoveFolders
	}
	if !s.perms.HasPermission(role, perm) {
		err := model.ErrUnauthorized
		s.auditMove(actor, model.AuditStatusFailed, item.ID, item.Name, item.ParentID, snapshot.id, err)
		return kind, err
	}

	if snapshot.id != nil {
		if snapshot.err != nil {
			s.auditMove(actor, model.AuditStatusFailed, item.ID, item.Name, item.ParentID, snapshot.id, snapshot.err)
			return kind, snapshot.err
		}
		if snapshot.ownerID != item.OwnerID {
			err := model.ErrUnauthorized
			s.auditMove(actor, model.AuditStatusFailed, item.ID, item.Name, item.ParentID, snapshot.id, err)
			return kind, err
		}
		if item.IsFolder() {
			if *snapshot.id == item.ID {
				err := model.ErrInvalidMove
				s.auditMove(actor, model.AuditStatusFailed, item.ID, item.Name, item.ParentID, snapshot.id, err)
				return kind, err
			}
			if _, inChain := snapshot.chain[item.ID]; inChain {
				err := model.ErrInvalidMove
				s.auditMove(actor, model.AuditStatusFailed, item.ID, item.Name, item.ParentID, snapshot.id, err)
				return kind, err
			}
		}
	}

	// Already in place: succeed without a store write.
	if sameID(item.ParentID, snapshot.id) {
		s.auditMove(actor, model.AuditStatusSuccess, item.ID, item.Name, item.ParentID, snapshot.id, nil)
		return kind, nil
	}

	if err := s.items.SetParent(ctx, item.ID, snapshot.id, item.DeletedAt); err != nil {
		s.auditMove(actor, model.AuditStatusFailed, item.ID, item.Name, item.ParentID, snapshot.id, err)
		return kind, err
	}

	s.auditMove(actor, model.AuditStatusSuccess, item.ID, item.Name, item.ParentID, snapshot.id, nil)
	s.publishMoved(actor, item, snapshot.id)
	return kind, nil
}

func (s *MoveService) auditMove(actor model.Actor, status string, itemID uuid.UUID, name string, from *uuid.UUID, to *uuid.UUID, cause error) {
	details := map[string]any{
		"from_parent_id": uuidOrRoot(from),
		"to_parent_id":   uuidOrRoot(to),
	}
	errText := ""
	if cause != nil {
		errText = cause.Error()
	}
	s.audit.Record(actor, model.ActionMove, status, "item", &itemID, name, details, errText)
}

func (s *MoveService) publishMoved(actor model.Actor, item model.Item, to *uuid.UUID) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:   uuid.NewString(),
		Type: event.TypeItemMoved,
		Payload: map[string]any{
			"item_id":        item.ID.String(),
			"kind":           string(item.Kind),
			"from_parent_id": uuidOrRoot(item.ParentID),
			"to_parent_id":   uuidOrRoot(to),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actor.ID.String(),
	})
}

func sameID(a *uuid.UUID, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func uuidOrRoot(id *uuid.UUID) string {
	if id == nil {
		return "root"
	}
	return id.String()
}
