package model

import (
	"time"

	"github.com/google/uuid"
)

type ItemKind string

const (
	KindFile   ItemKind = "file"
	KindFolder ItemKind = "folder"
)

// Item is one node in a tenant's hierarchy, file and folder alike. A nil
// ParentID means the owner's root; a set DeletedAt means the item is in the
// trash. File-only fields (size, mime, storage ref) stay zero on folders.
type Item struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	ParentID   *uuid.UUID `json:"parent_id"`
	Name       string     `json:"name"`
	Kind       ItemKind   `json:"kind"`
	SizeBytes  int64      `json:"size_bytes,omitempty"`
	MimeType   string     `json:"mime_type,omitempty"`
	StorageRef string     `json:"-"`
	IsShared   bool       `json:"is_shared"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (i Item) IsFolder() bool {
	return i.Kind == KindFolder
}

func (i Item) Trashed() bool {
	return i.DeletedAt != nil
}

// ItemRef identifies one item inside a batch request. Kind is a client hint
// used to bucket load failures; the stored kind wins once the item is read.
type ItemRef struct {
	ID   uuid.UUID `json:"id"`
	Kind ItemKind  `json:"kind,omitempty"`
}

// Actor is the authenticated identity an operation runs as, plus the network
// metadata recorded alongside its audit trail.
type Actor struct {
	ID        uuid.UUID
	Email     string
	IP        string
	UserAgent string
}
