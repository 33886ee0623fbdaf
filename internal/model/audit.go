package model

import (
	"time"

	"github.com/google/uuid"
)

// Action names the operation an audit record describes. The known values are
// listed below but the type is open-ended: unrecognized actions are stored
// verbatim rather than rejected.
type Action string

const (
	ActionMove            Action = "move"
	ActionSoftDelete      Action = "trash"
	ActionRestore         Action = "restore"
	ActionPermanentDelete Action = "permanent_delete"
	ActionEmptyTrash      Action = "empty_trash"
)

const (
	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
)

// AuditRecord is immutable once written; the core never updates or deletes one.
type AuditRecord struct {
	ID         uuid.UUID      `json:"id"`
	OccurredAt time.Time      `json:"occurred_at"`
	ActorID    uuid.UUID      `json:"actor_id"`
	ActorEmail string         `json:"actor_email"`
	Action     Action         `json:"action"`
	Status     string         `json:"status"`
	TargetType string         `json:"target_type"`
	TargetID   *uuid.UUID     `json:"target_id,omitempty"`
	TargetName string         `json:"target_name,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type AuditQuery struct {
	Action   string
	ActorID  string
	Status   string
	TargetID string
	From     string
	To       string
	Page     int
	Limit    int
}
