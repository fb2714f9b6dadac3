package filter

import (
	"fmt"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseUnknownMode ErrorCause = "unrecognised filter mode"
	ErrCauseListUnread  ErrorCause = "allow/deny list could not be read"
)

// Error is raised while loading a Filter from configuration, never while
// evaluating one: Pass never fails.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("filter: %s: %s", e.Cause, e.Message)
}

func (e *Error) Kind() failure.Kind {
	return failure.KindInvalidData
}

// ParseMode turns a configuration string into a Mode.
func ParseMode(s string) (Mode, *Error) {
	switch s {
	case "", "none":
		return None, nil
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	default:
		return None, &Error{Message: s, Cause: ErrCauseUnknownMode}
	}
}
