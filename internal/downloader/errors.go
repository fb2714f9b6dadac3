package downloader

import (
	"fmt"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseRequestFailed  ErrorCause = "request could not be built or sent"
	ErrCauseBodyUnreadable ErrorCause = "response body could not be read"
)

// Error is the Downloader stage's error. Transport-level failures (DNS,
// connection refused, timeout) are NetworkError and requeue; a failure to
// read an otherwise-successful response body is InvalidPage and drops:
// the server answered, the page just isn't usable. A completed response's
// status code is not inspected here: any status the server returns, 2xx,
// 4xx, or 5xx, is handed to the extractor as ordinary bytes.
type Error struct {
	Message string
	Cause   ErrorCause
	network bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("download: %s: %s", e.Cause, e.Message)
}

func (e *Error) Kind() failure.Kind {
	if e.network || e.Cause == ErrCauseRequestFailed {
		return failure.KindNetwork
	}
	return failure.KindInvalidPage
}
