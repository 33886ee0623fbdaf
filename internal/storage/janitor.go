package storage

import (
	"context"
	"log/slog"
	"time"

	"go-drive/internal/event"
)

// Janitor listens for item-purged events and removes the backing blob.
// Cleanup is best-effort: a failed removal is logged and left for out-of-band
// retry, never reported back to the operation that purged the item.
type Janitor struct {
	blobs       BlobStore
	events      <-chan event.Event
	unsubscribe func()
}

// NewJanitor subscribes immediately so purge events published between
// construction and Run are not lost.
func NewJanitor(blobs BlobStore, bus event.Bus) *Janitor {
	events, unsubscribe := bus.Subscribe()
	return &Janitor{blobs: blobs, events: events, unsubscribe: unsubscribe}
}

// Run consumes purge events until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	defer j.unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-j.events:
			if !ok {
				return
			}
			if e.Type != event.TypeItemPurged {
				continue
			}
			payload, ok := e.Payload.(event.PurgedPayload)
			if !ok || payload.StorageRef == "" {
				continue
			}
			j.deleteBlob(payload)
		}
	}
}

func (j *Janitor) deleteBlob(payload event.PurgedPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := j.blobs.DeleteBlob(ctx, payload.StorageRef); err != nil {
		slog.Error("blob cleanup failed",
			"item_id", payload.ItemID,
			"storage_ref", payload.StorageRef,
			"error", err)
		return
	}

	slog.Debug("blob removed", "item_id", payload.ItemID, "storage_ref", payload.StorageRef)
}
