// Package task is the unit of crawl work: a value carrying a single
// absolute URL. Equality and hashing are URL-equality (via the canonical
// serialisation), and the wire form is exactly the URL's ASCII bytes. No
// framing, no envelope, no versioning.
package task

import (
	"net/url"
	"unicode/utf8"
)

// Task carries one absolute URL. The zero value is not valid; construct via
// New or Deserialize.
type Task struct {
	url url.URL
}

// New wraps an already-parsed absolute URL in a Task.
func New(u url.URL) Task {
	return Task{url: u}
}

func (t Task) URL() url.URL {
	return t.url
}

// Key returns the identity used for equality, hashing, and set membership:
// the canonical ASCII serialisation of the URL.
func (t Task) Key() string {
	return t.url.String()
}

// Serialize returns the wire form: the URL's ASCII serialisation as bytes.
func (t Task) Serialize() []byte {
	return []byte(t.url.String())
}

// Deserialize parses wire bytes into a Task. It fails with InvalidTask if the
// bytes are not valid UTF-8 text or do not parse into an absolute URL
// (scheme and host both present).
func Deserialize(data []byte) (Task, *Error) {
	if !utf8.Valid(data) {
		return Task{}, &Error{Message: "payload is not valid UTF-8", Cause: ErrCauseInvalidEncoding}
	}

	raw := string(data)
	parsed, err := url.Parse(raw)
	if err != nil {
		return Task{}, &Error{Message: "payload is not a parseable URL", Cause: ErrCauseUnparseable}
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return Task{}, &Error{Message: "payload is not an absolute URL", Cause: ErrCauseNotAbsolute}
	}

	return Task{url: *parsed}, nil
}
