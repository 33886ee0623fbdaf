package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-drive/internal/model"
)

const itemColumns = `id, owner_id, parent_id, name, kind, size_bytes, mime_type,
	 storage_ref, is_shared, deleted_at, created_at, updated_at`

// PgItemRepository stores the hierarchy in the items table. The optimistic
// discipline is a conditional UPDATE on deleted_at: two racing mutations on
// the same item leave one of them with zero rows affected, which surfaces as
// model.ErrConflict.
type PgItemRepository struct {
	pool *pgxpool.Pool
}

func NewPgItemRepository(pool *pgxpool.Pool) *PgItemRepository {
	return &PgItemRepository{pool: pool}
}

func (r *PgItemRepository) Get(ctx context.Context, id uuid.UUID) (model.Item, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Item{}, model.ErrItemNotFound
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (r *PgItemRepository) Create(ctx context.Context, item model.Item) error {
	if item.ParentID != nil {
		parent, err := r.Get(ctx, *item.ParentID)
		if err != nil {
			return model.ErrFolderNotFound
		}
		if !parent.IsFolder() || parent.OwnerID != item.OwnerID {
			return model.ErrFolderNotFound
		}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO items
		 (id, owner_id, parent_id, name, kind, size_bytes, mime_type,
		  storage_ref, is_shared, deleted_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		item.ID, item.OwnerID, item.ParentID, item.Name, item.Kind,
		item.SizeBytes, item.MimeType, item.StorageRef, item.IsShared,
		item.DeletedAt, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *PgItemRepository) ListChildren(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
	          WHERE owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY kind DESC, lower(name)`

	rows, err := r.pool.Query(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *PgItemRepository) ListTrashed(ctx context.Context, ownerID uuid.UUID) ([]model.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE owner_id = $1 AND deleted_at IS NOT NULL
		 ORDER BY deleted_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list trashed: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *PgItemRepository) SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID, expectedDeletedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET parent_id = $2, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NOT DISTINCT FROM $3`,
		id, parentID, expectedDeletedAt)
	if err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, id)
	}
	return nil
}

func (r *PgItemRepository) SetDeletedAt(ctx context.Context, id uuid.UUID, deletedAt *time.Time, expectedDeletedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET deleted_at = $2, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NOT DISTINCT FROM $3`,
		id, deletedAt, expectedDeletedAt)
	if err != nil {
		return fmt.Errorf("set deleted_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, id)
	}
	return nil
}

func (r *PgItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

// AncestorChain walks parent keys one lookup at a time, item first, root last.
// The walk is bounded by MaxTreeDepth and a seen-set so a corrupted chain is
// reported instead of looping.
func (r *PgItemRepository) AncestorChain(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	chain := make([]uuid.UUID, 0, 8)
	seen := make(map[uuid.UUID]struct{}, 8)

	current := id
	for depth := 0; depth <= MaxTreeDepth; depth++ {
		if _, revisited := seen[current]; revisited {
			return nil, model.ErrCorruptHierarchy
		}
		seen[current] = struct{}{}
		chain = append(chain, current)

		var parentID *uuid.UUID
		err := r.pool.QueryRow(ctx,
			`SELECT parent_id FROM items WHERE id = $1`, current).Scan(&parentID)
		if errors.Is(err, pgx.ErrNoRows) {
			if current == id {
				return nil, model.ErrItemNotFound
			}
			// Dangling parent key: treat the last resolvable item as root.
			return chain, nil
		}
		if err != nil {
			return nil, fmt.Errorf("ancestor chain: %w", err)
		}

		if parentID == nil {
			return chain, nil
		}
		current = *parentID
	}

	return nil, model.ErrCorruptHierarchy
}

func (r *PgItemRepository) conflictOrNotFound(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check item existence: %w", err)
	}
	if !exists {
		return model.ErrItemNotFound
	}
	return model.ErrConflict
}

func scanItem(row pgx.Row) (model.Item, error) {
	var item model.Item
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.ParentID, &item.Name, &item.Kind,
		&item.SizeBytes, &item.MimeType, &item.StorageRef, &item.IsShared,
		&item.DeletedAt, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

func collectItems(rows pgx.Rows) ([]model.Item, error) {
	items := make([]model.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
