// Package downloader fetches the bytes behind a task's URL. It holds no
// retry logic: a failed fetch is classified and handed back to the
// pipeline, which maps the classification to ack/drop/requeue. Retrying a
// requeued delivery is the broker's job, not this package's.
package downloader

import (
	"context"
	"io"
	"net/http"

	"github.com/crawlfleet/crawlfleet/internal/task"
)

// Fetcher fetches the bytes of a task's page.
type Fetcher interface {
	Fetch(ctx context.Context, t task.Task) ([]byte, *Error)
}

// HTTPFetcher is the default Fetcher, backed by a single reusable
// *http.Client shared across every fetch so connections are pooled rather
// than rebuilt per task.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// New builds an HTTPFetcher. A zero-value http.Client is supplied when
// client is nil.
func New(client *http.Client, userAgent string) HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return HTTPFetcher{client: client, userAgent: userAgent}
}

func (f HTTPFetcher) Fetch(ctx context.Context, t task.Task) ([]byte, *Error) {
	u := t.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Message: err.Error(), Cause: ErrCauseRequestFailed, network: true}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error(), Cause: ErrCauseRequestFailed, network: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBodyUnreadable}
	}

	return body, nil
}
