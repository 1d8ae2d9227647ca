package store

import (
	"errors"
	"fmt"
)

const (
	MsgOffline      = "Backend not available. Running in offline mode."
	msgAddFailed    = "Failed to add action"
	msgUpdateFailed = "Failed to update status"
	msgDeleteFailed = "Failed to delete action"
	msgEmptyAction  = "Action name cannot be empty"
	msgInvalid      = "Status must be yes or no"
	msgEntryGone    = "Action was deleted before the update completed"
)

var (
	ErrEmptyAction   = errors.New("action name is empty")
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrEntryGone is returned when a status update lost the race with a delete.
	ErrEntryGone = errors.New("entry no longer exists")
	ErrNoBackend = errors.New("no backend configured")
)

// Error is the failure type of every store operation. Message is safe to
// show to the user as-is.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) UserMessage() string { return e.Message }
