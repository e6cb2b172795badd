package domain

import (
	"errors"
	"fmt"
)

// Guard reasons. These end an invocation without side effects and are
// logged, never returned to the caller.
var (
	ErrMissingSnapshot = errors.New("before or after snapshot is missing")
	ErrNotRisingEdge   = errors.New("isStudying did not change from false to true")
	ErrEmptyFriendSet  = errors.New("user has no friends to notify")
	ErrNoValidTokens   = errors.New("no friend has a push token")
)

// Collaborator failures. They abort the invocation and propagate so the
// hosting platform can decide whether to redeliver the event.
var (
	ErrCollaboratorRead  = errors.New("storage read failed")
	ErrCollaboratorSend  = errors.New("push send failed")
	ErrCollaboratorWrite = errors.New("storage write failed")
)

// CollaboratorError wraps a failure from storage or push delivery.
type CollaboratorError struct {
	Kind error
	Op   string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// CheckRisingEdge returns nil only when change is a false to true transition
// of isStudying with both snapshots present.
func CheckRisingEdge(change StudyChange) error {
	if change.Before == nil || change.After == nil {
		return ErrMissingSnapshot
	}
	if change.Before.IsStudying || !change.After.IsStudying {
		return ErrNotRisingEdge
	}
	return nil
}
