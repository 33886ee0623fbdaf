package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-drive/internal/model"
)

// MemoryItemRepository keeps the hierarchy in a map keyed by id. It applies
// the same conditional-write discipline as the Postgres implementation and
// backs unit tests and dev mode.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]model.Item
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{items: make(map[uuid.UUID]model.Item)}
}

func (r *MemoryItemRepository) Get(_ context.Context, id uuid.UUID) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return model.Item{}, model.ErrItemNotFound
	}
	return item, nil
}

func (r *MemoryItemRepository) Create(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ParentID != nil {
		parent, ok := r.items[*item.ParentID]
		if !ok || !parent.IsFolder() || parent.OwnerID != item.OwnerID {
			return model.ErrFolderNotFound
		}
	}

	r.items[item.ID] = item
	return nil
}

func (r *MemoryItemRepository) ListChildren(_ context.Context, ownerID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0)
	for _, item := range r.items {
		if item.OwnerID != ownerID || !sameParent(item.ParentID, parentID) {
			continue
		}
		if !includeDeleted && item.Trashed() {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i int, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind == model.KindFolder
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

func (r *MemoryItemRepository) ListTrashed(_ context.Context, ownerID uuid.UUID) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0)
	for _, item := range r.items {
		if item.OwnerID == ownerID && item.Trashed() {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i int, j int) bool {
		return items[i].DeletedAt.After(*items[j].DeletedAt)
	})
	return items, nil
}

func (r *MemoryItemRepository) SetParent(_ context.Context, id uuid.UUID, parentID *uuid.UUID, expectedDeletedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return model.ErrItemNotFound
	}
	if !sameTimestamp(item.DeletedAt, expectedDeletedAt) {
		return model.ErrConflict
	}

	item.ParentID = parentID
	item.UpdatedAt = time.Now().UTC()
	r.items[id] = item
	return nil
}

func (r *MemoryItemRepository) SetDeletedAt(_ context.Context, id uuid.UUID, deletedAt *time.Time, expectedDeletedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return model.ErrItemNotFound
	}
	if !sameTimestamp(item.DeletedAt, expectedDeletedAt) {
		return model.ErrConflict
	}

	item.DeletedAt = deletedAt
	item.UpdatedAt = time.Now().UTC()
	r.items[id] = item
	return nil
}

func (r *MemoryItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return model.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryItemRepository) AncestorChain(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := make([]uuid.UUID, 0, 8)
	seen := make(map[uuid.UUID]struct{}, 8)

	current := id
	for depth := 0; depth <= MaxTreeDepth; depth++ {
		if _, revisited := seen[current]; revisited {
			return nil, model.ErrCorruptHierarchy
		}
		seen[current] = struct{}{}
		chain = append(chain, current)

		item, ok := r.items[current]
		if !ok {
			if current == id {
				return nil, model.ErrItemNotFound
			}
			return chain, nil
		}
		if item.ParentID == nil {
			return chain, nil
		}
		current = *item.ParentID
	}

	return nil, model.ErrCorruptHierarchy
}

// Put stores an item verbatim, bypassing parent validation. Test fixtures use
// it to construct broken hierarchies on purpose.
func (r *MemoryItemRepository) Put(item model.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
}

func sameParent(a *uuid.UUID, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameTimestamp(a *time.Time, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
