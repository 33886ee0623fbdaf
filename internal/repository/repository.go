package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-drive/internal/model"
)

// MaxTreeDepth bounds every ancestor walk. A well-formed hierarchy is far
// shallower; hitting the bound means the parent chain loops and the store
// reports model.ErrCorruptHierarchy instead of spinning.
const MaxTreeDepth = 128

// ItemRepository is the durable home of the file/folder hierarchy. Mutating
// calls take the deleted_at value the caller last observed and fail with
// model.ErrConflict when the row changed underneath them; nothing is
// overwritten silently.
type ItemRepository interface {
	Get(ctx context.Context, id uuid.UUID) (model.Item, error)
	Create(ctx context.Context, item model.Item) error
	ListChildren(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]model.Item, error)
	ListTrashed(ctx context.Context, ownerID uuid.UUID) ([]model.Item, error)
	SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID, expectedDeletedAt *time.Time) error
	SetDeletedAt(ctx context.Context, id uuid.UUID, deletedAt *time.Time, expectedDeletedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	AncestorChain(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// AuditRepository persists immutable audit records.
type AuditRepository interface {
	Insert(ctx context.Context, record model.AuditRecord) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditRecord, model.Meta, error)
}

// UserRepository is the identity-to-role relation read by the permission
// resolver.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
}
