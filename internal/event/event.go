package event

type Type string

const (
	TypeItemMoved    Type = "item.moved"
	TypeItemTrashed  Type = "item.trashed"
	TypeItemRestored Type = "item.restored"
	TypeItemPurged   Type = "item.purged"
	TypeTrashEmptied Type = "trash.emptied"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"`
}

// PurgedPayload rides on TypeItemPurged so the object-store collaborator can
// clean up the blob after the metadata row is gone.
type PurgedPayload struct {
	ItemID     string `json:"item_id"`
	Kind       string `json:"kind"`
	StorageRef string `json:"storage_ref,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
