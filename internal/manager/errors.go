package manager

import (
	"fmt"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseBrokerUnreachable ErrorCause = "broker connection failed"
	ErrCauseStoreUnreachable  ErrorCause = "store connection failed"
	ErrCausePublishFailed     ErrorCause = "publish failed"
	ErrCauseCullFailed        ErrorCause = "cull query failed"
)

// Error is the Manager's UnreachableError: the broker or store could not be
// reached or a call against an established connection failed. It always
// requeues: the delivery wasn't the problem, the collaborator was.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("manager: %s: %s", e.Cause, e.Message)
}

func (e *Error) Kind() failure.Kind {
	return failure.KindUnreachable
}
