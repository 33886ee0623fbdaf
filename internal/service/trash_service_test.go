package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-drive/internal/event"
	"go-drive/internal/model"
	"go-drive/internal/repository"
)

func newTrashService(env *testEnv, bus event.Bus) *TrashService {
	return NewTrashService(env.items, env.perms, env.audit, bus)
}

func TestTrashService_SoftDeleteAndRestore(t *testing.T) {
	env := newTestEnv(model.RoleUser)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	docs := env.addFolder("documents", nil)
	file := env.addFile("draft.txt", ptr(docs.ID))

	trashed, err := svc.SoftDelete(ctx, env.actor, file.ID)
	require.NoError(t, err)
	require.NotNil(t, trashed.DeletedAt)

	// The item keeps its parent while in the trash so restore can put it
	// back where it was.
	restored, err := svc.Restore(ctx, env.actor, file.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	require.NotNil(t, restored.ParentID)
	assert.Equal(t, docs.ID, *restored.ParentID)
}

func TestTrashService_SoftDeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(model.RoleUser)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	file := env.addFile("twice.txt", nil)

	first, err := svc.SoftDelete(ctx, env.actor, file.ID)
	require.NoError(t, err)
	require.NotNil(t, first.DeletedAt)

	second, err := svc.SoftDelete(ctx, env.actor, file.ID)
	require.NoError(t, err)
	require.NotNil(t, second.DeletedAt)
	assert.Equal(t, first.DeletedAt.UnixNano(), second.DeletedAt.UnixNano())
}

func TestTrashService_RestoreActiveIsNoOp(t *testing.T) {
	env := newTestEnv(model.RoleUser)
	svc := newTrashService(env, nil)

	file := env.addFile("active.txt", nil)

	restored, err := svc.Restore(context.Background(), env.actor, file.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
}

func TestTrashService_SoftDeleteIsShallow(t *testing.T) {
	env := newTestEnv(model.RoleUser)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	folder := env.addFolder("bundle", nil)
	child := env.addFile("inside.txt", ptr(folder.ID))

	_, err := svc.SoftDelete(ctx, env.actor, folder.ID)
	require.NoError(t, err)

	got, err := env.items.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, got.Trashed())
}

func TestTrashService_PermanentDeleteRequiresTrashed(t *testing.T) {
	env := newTestEnv(model.RoleAdmin)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	file := env.addFile("still-active.txt", nil)

	err := svc.PermanentDelete(ctx, env.actor, file.ID)
	require.ErrorIs(t, err, model.ErrInvalidState)

	// The row survives the rejected delete.
	_, err = env.items.Get(ctx, file.ID)
	require.NoError(t, err)
}

func TestTrashService_PermanentDeleteRemovesItem(t *testing.T) {
	env := newTestEnv(model.RoleAdmin)
	bus := event.NewBus()
	svc := newTrashService(env, bus)
	ctx := context.Background()

	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	file := env.addTrashedItem("doomed.txt", model.KindFile, nil)

	err := svc.PermanentDelete(ctx, env.actor, file.ID)
	require.NoError(t, err)

	_, err = env.items.Get(ctx, file.ID)
	require.ErrorIs(t, err, model.ErrItemNotFound)

	// Purge publishes the storage ref so the blob janitor can collect it.
	select {
	case ev := <-events:
		require.Equal(t, event.TypeItemPurged, ev.Type)
		payload, ok := ev.Payload.(event.PurgedPayload)
		require.True(t, ok)
		assert.Equal(t, file.ID.String(), payload.ItemID)
		assert.Equal(t, file.StorageRef, payload.StorageRef)
	default:
		t.Fatal("expected a purge event")
	}
}

func TestTrashService_PermanentDeleteDeniedForUserRole(t *testing.T) {
	env := newTestEnv(model.RoleUser)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	file := env.addTrashedItem("protected.txt", model.KindFile, nil)

	err := svc.PermanentDelete(ctx, env.actor, file.ID)
	require.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = env.items.Get(ctx, file.ID)
	require.NoError(t, err)
}

func TestTrashService_EmptyTrashCountsByKind(t *testing.T) {
	env := newTestEnv(model.RoleManager)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		env.addTrashedItem(name, model.KindFile, nil)
	}
	env.addTrashedItem("old-docs", model.KindFolder, nil)
	env.addTrashedItem("old-media", model.KindFolder, nil)
	survivor := env.addFile("keep.txt", nil)

	result, err := svc.EmptyTrash(ctx, env.actor, env.ownerID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.DeletedFiles)
	assert.Equal(t, 2, result.DeletedFolders)
	assert.False(t, result.Canceled)

	remaining, err := svc.ListTrash(ctx, env.ownerID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = env.items.Get(ctx, survivor.ID)
	require.NoError(t, err)
}

func TestTrashService_PurgeFolderKeepsActiveChild(t *testing.T) {
	// Shallow trash means a trashed folder can still hold active children.
	// Purging the folder removes only its own row; the child survives with a
	// dangling parent key that ancestor walks treat as root.
	env := newTestEnv(model.RoleAdmin)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	folder := env.addTrashedItem("old-projects", model.KindFolder, nil)
	child := env.addFile("survivor.txt", ptr(folder.ID))

	require.NoError(t, svc.PermanentDelete(ctx, env.actor, folder.ID))

	got, err := env.items.Get(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, folder.ID, *got.ParentID)

	chain, err := env.items.AncestorChain(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{child.ID, folder.ID}, chain)
}

func TestTrashService_EmptyTrashPurgesFolderBeforeChild(t *testing.T) {
	// The trash listing is newest-first, so a folder trashed after its child
	// is purged while the child row still references it. Every purge must
	// succeed and the counts must cover all of them.
	env := newTestEnv(model.RoleAdmin)
	svc := newTrashService(env, nil)
	ctx := context.Background()

	now := time.Now().UTC()
	folder := env.addItem("bundle", model.KindFolder, nil, timePtr(now))
	env.addItem("inside.txt", model.KindFile, ptr(folder.ID), timePtr(now.Add(-time.Hour)))
	env.addItem("loose.txt", model.KindFile, nil, timePtr(now.Add(-2*time.Hour)))

	result, err := svc.EmptyTrash(ctx, env.actor, env.ownerID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DeletedFiles)
	assert.Equal(t, 1, result.DeletedFolders)

	remaining, err := svc.ListTrash(ctx, env.ownerID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestTrashService_EmptyTrashDeniedForUserRole(t *testing.T) {
	env := newTestEnv(model.RoleUser)
	svc := newTrashService(env, nil)

	env.addTrashedItem("stuck.txt", model.KindFile, nil)

	_, err := svc.EmptyTrash(context.Background(), env.actor, env.ownerID)
	require.ErrorIs(t, err, model.ErrUnauthorized)

	remaining, err := svc.ListTrash(context.Background(), env.ownerID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

// failingDeleteRepo refuses to delete one id so tests can exercise a purge
// failure in the middle of an empty-trash sweep.
type failingDeleteRepo struct {
	*repository.MemoryItemRepository
	failID uuid.UUID
}

func (r *failingDeleteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if id == r.failID {
		return errors.New("delete blocked")
	}
	return r.MemoryItemRepository.Delete(ctx, id)
}

func TestTrashService_EmptyTrashContinuesPastFailedPurge(t *testing.T) {
	env := newTestEnv(model.RoleAdmin)
	ctx := context.Background()

	stuck := env.addTrashedItem("stuck.txt", model.KindFile, nil)
	env.addTrashedItem("ok.txt", model.KindFile, nil)
	env.addTrashedItem("old-docs", model.KindFolder, nil)

	items := &failingDeleteRepo{MemoryItemRepository: env.items, failID: stuck.ID}
	svc := NewTrashService(items, env.perms, env.audit, nil)

	result, err := svc.EmptyTrash(ctx, env.actor, env.ownerID)
	require.NoError(t, err)

	// Only successes are counted; the sweep does not stop at the failure.
	assert.Equal(t, 1, result.DeletedFiles)
	assert.Equal(t, 1, result.DeletedFolders)

	remaining, err := svc.ListTrash(ctx, env.ownerID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, stuck.ID, remaining[0].ID)

	// The failed attempt still leaves a failed-status audit record.
	env.audit.Close()
	records, _, err := env.auditRepo.Query(ctx, model.AuditQuery{})
	require.NoError(t, err)

	var failed bool
	for _, rec := range records {
		if rec.Action == model.ActionPermanentDelete && rec.Status == model.AuditStatusFailed &&
			rec.TargetID != nil && *rec.TargetID == stuck.ID {
			failed = true
		}
	}
	assert.True(t, failed, "expected a failed audit record for the stuck item")
}

func TestTrashService_EmptyTrashHonorsCancellation(t *testing.T) {
	env := newTestEnv(model.RoleAdmin)
	svc := newTrashService(env, nil)

	env.addTrashedItem("x.txt", model.KindFile, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.EmptyTrash(ctx, env.actor, env.ownerID)
	require.NoError(t, err)
	assert.True(t, result.Canceled)
	assert.Zero(t, result.DeletedFiles)
}

func TestTrashService_SoftDeleteMissingItem(t *testing.T) {
	env := newTestEnv(model.RoleUser)
	svc := newTrashService(env, nil)

	_, err := svc.SoftDelete(context.Background(), env.actor, uuid.New())
	require.ErrorIs(t, err, model.ErrItemNotFound)
}
