package task

import (
	"fmt"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseInvalidEncoding ErrorCause = "not valid utf-8"
	ErrCauseUnparseable     ErrorCause = "not a parseable url"
	ErrCauseNotAbsolute     ErrorCause = "not an absolute url"
)

// Error is the InvalidTask error: the wire payload could not be turned into
// a Task. It always drops the delivery: a task that was never a Task has
// no identity to requeue.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid task: %s: %s", e.Cause, e.Message)
}

func (e *Error) Kind() failure.Kind {
	return failure.KindInvalidTask
}
