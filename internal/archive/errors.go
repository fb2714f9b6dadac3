package archive

import (
	"fmt"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseWriteFailed   ErrorCause = "data item could not be written"
	ErrCauseHashFailed    ErrorCause = "content hash computation failed"
	ErrCauseForwardFailed ErrorCause = "data item could not be forwarded to the broker"
)

// Error is the Archive stage's error. Every cause is ArchiveServerError:
// the sink is an external collaborator (disk, broker) and a failure there
// requeues the delivery rather than dropping a page the pipeline already
// paid to download and extract.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("archive: %s: %s", e.Cause, e.Message)
}

func (e *Error) Kind() failure.Kind {
	return failure.KindArchiveServer
}
