package storage

import "context"

// BlobStore is the external object store holding file bytes. The drive core
// never reads or writes content; it only asks for blob removal after a
// permanent delete, and even that is best-effort (a failed removal never
// resurrects the metadata row).
type BlobStore interface {
	DeleteBlob(ctx context.Context, storageRef string) error
}
