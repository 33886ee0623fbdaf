package model

import "errors"

var (
	// Hierarchy related errors
	ErrItemNotFound     = errors.New("item not found")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrCorruptHierarchy = errors.New("corrupt hierarchy: parent chain does not terminate")

	// Move related errors
	ErrInvalidMove = errors.New("invalid move: destination is the item or one of its descendants")

	// Trash related errors
	ErrInvalidState = errors.New("invalid state: item must be trashed first")

	// Concurrency related errors
	ErrConflict = errors.New("conflict: item changed concurrently")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// User related errors
	ErrUserNotFound = errors.New("user not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorCode maps a core error to the stable code carried in per-item batch
// results and API responses.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrFolderNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidMove):
		return "INVALID_MOVE"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrCorruptHierarchy):
		return "CORRUPT_HIERARCHY"
	default:
		return "INTERNAL_ERROR"
	}
}
