package model

import "github.com/google/uuid"

// MoveError records one item that could not be moved. Batches never fail
// wholesale; errors become data in the result.
type MoveError struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Reason string    `json:"reason"`
}

// MoveResult aggregates a batch move. Moved ids and errors are split by kind;
// Canceled marks a batch cut short by the caller's context, with already
// applied moves kept.
type MoveResult struct {
	MovedFiles   []uuid.UUID `json:"moved_files"`
	MovedFolders []uuid.UUID `json:"moved_folders"`
	FileErrors   []MoveError `json:"file_errors"`
	FolderErrors []MoveError `json:"folder_errors"`
	Canceled     bool        `json:"canceled,omitempty"`
}

func (r MoveResult) PartialFailure() bool {
	return len(r.FileErrors) > 0 || len(r.FolderErrors) > 0
}

// EmptyTrashResult counts successful permanent deletions only; individual
// failures are audit-logged but silent at the aggregate level.
type EmptyTrashResult struct {
	DeletedFiles   int  `json:"deleted_files"`
	DeletedFolders int  `json:"deleted_folders"`
	Canceled       bool `json:"canceled,omitempty"`
}

type MoveRequest struct {
	Items       []ItemRef  `json:"items"`
	Destination *uuid.UUID `json:"destination"`
}

type TrashRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// BatchItemResult reports one item's outcome inside a trash/restore batch.
type BatchItemResult struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

type BatchResult struct {
	Succeeded []uuid.UUID       `json:"succeeded"`
	Failed    []BatchItemResult `json:"failed"`
}
