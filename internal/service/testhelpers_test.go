package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-drive/internal/model"
	"go-drive/internal/repository"
)

// stubUserRepo backs role resolution in tests.
type stubUserRepo struct {
	users map[uuid.UUID]model.User
	err   error
	calls int
}

func (s *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.calls++
	if s.err != nil {
		return model.User{}, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

// captureAuditRepo records inserts in memory so tests can assert on the
// audit trail.
type captureAuditRepo struct {
	mu        sync.Mutex
	records   []model.AuditRecord
	insertErr error
}

func (c *captureAuditRepo) Insert(_ context.Context, record model.AuditRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.insertErr != nil {
		return c.insertErr
	}
	c.records = append(c.records, record)
	return nil
}

func (c *captureAuditRepo) Query(_ context.Context, _ model.AuditQuery) ([]model.AuditRecord, model.Meta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.AuditRecord, len(c.records))
	copy(out, c.records)
	return out, model.Meta{Total: len(out)}, nil
}

func (c *captureAuditRepo) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

type testEnv struct {
	items     *repository.MemoryItemRepository
	users     *stubUserRepo
	auditRepo *captureAuditRepo
	perms     *PermissionService
	audit     *AuditService

	ownerID uuid.UUID
	actor   model.Actor
}

// newTestEnv wires the services against the in-memory store with one actor
// holding the given role.
func newTestEnv(role model.Role) *testEnv {
	actorID := uuid.New()
	users := &stubUserRepo{users: map[uuid.UUID]model.User{
		actorID: {ID: actorID, Email: "actor@example.com", Role: string(role)},
	}}
	auditRepo := &captureAuditRepo{}

	return &testEnv{
		items:     repository.NewMemoryItemRepository(),
		users:     users,
		auditRepo: auditRepo,
		perms:     NewPermissionService(model.DefaultRolePermissions(), users),
		audit:     NewAuditService(auditRepo, 64),
		ownerID:   actorID,
		actor:     model.Actor{ID: actorID, Email: "actor@example.com", IP: "127.0.0.1"},
	}
}

func (e *testEnv) addFolder(name string, parentID *uuid.UUID) model.Item {
	return e.addItem(name, model.KindFolder, parentID, nil)
}

func (e *testEnv) addFile(name string, parentID *uuid.UUID) model.Item {
	return e.addItem(name, model.KindFile, parentID, nil)
}

func (e *testEnv) addTrashedItem(name string, kind model.ItemKind, parentID *uuid.UUID) model.Item {
	deletedAt := time.Now().UTC().Add(-time.Minute)
	return e.addItem(name, kind, parentID, &deletedAt)
}

func (e *testEnv) addItem(name string, kind model.ItemKind, parentID *uuid.UUID, deletedAt *time.Time) model.Item {
	now := time.Now().UTC()
	item := model.Item{
		ID:        uuid.New(),
		OwnerID:   e.ownerID,
		ParentID:  parentID,
		Name:      name,
		Kind:      kind,
		DeletedAt: deletedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if kind == model.KindFile {
		item.SizeBytes = 42
		item.MimeType = "text/plain"
		item.StorageRef = "blobs/" + item.ID.String()
	}
	e.items.Put(item)
	return item
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

func timePtr(t time.Time) *time.Time {
	return &t
}
