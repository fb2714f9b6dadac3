package normalize

import (
	"fmt"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseUnparseable ErrorCause = "url failed to re-parse during normalisation"
)

// Error is raised by a single URL's normalisation step. It is never
// propagated as a stage failure: the caller logs it and drops
// the offending URL from the batch.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("normalize: %s: %s", e.Cause, e.Message)
}

func (e *Error) Kind() failure.Kind {
	return failure.KindInvalidURL
}
