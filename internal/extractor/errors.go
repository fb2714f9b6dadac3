package extractor

import (
	"fmt"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseNotUTF8 ErrorCause = "content is not valid utf-8 text"
	ErrCauseNotHTML ErrorCause = "content did not parse as html"
)

// Error is the Extractor stage's error: the page was fetched fine but its
// content could not be decoded as text or parsed as HTML, so it can't be
// mined for links. Both causes are ParsingError and drop rather than
// requeue.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %s: %s", e.Cause, e.Message)
}

func (e *Error) Kind() failure.Kind {
	return failure.KindParsing
}
