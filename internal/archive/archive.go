// Package archive is the pluggable sink the Archive stage writes extracted
// data items to. The default sink discards everything; a deployment that
// wants to keep data wires in FileSink or BrokerForwardSink instead.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crawlfleet/crawlfleet/internal/extractor"
	"github.com/crawlfleet/crawlfleet/pkg/fileutil"
	"github.com/crawlfleet/crawlfleet/pkg/hashutil"
)

// Sink archives a batch of data items extracted from one page.
type Sink interface {
	Archive(ctx context.Context, items []extractor.DataItem) *Error
}

// DiscardSink is the zero-value default: it drops every item it's handed.
type DiscardSink struct{}

func (DiscardSink) Archive(context.Context, []extractor.DataItem) *Error {
	return nil
}

// FileSink writes each data item to dir, named by the content hash of its
// payload so re-archiving the same item is an idempotent overwrite rather
// than a duplicate file.
type FileSink struct {
	dir  string
	algo hashutil.HashAlgo
}

// NewFileSink builds a FileSink writing under dir. An empty algo defaults
// to blake3.
func NewFileSink(dir string, algo hashutil.HashAlgo) FileSink {
	if algo == "" {
		algo = hashutil.HashAlgoBLAKE3
	}
	return FileSink{dir: dir, algo: algo}
}

func (s FileSink) Archive(_ context.Context, items []extractor.DataItem) *Error {
	if err := fileutil.EnsureDir(s.dir); err != nil {
		return &Error{Message: err.Error(), Cause: ErrCauseWriteFailed}
	}

	for _, item := range items {
		hash, err := hashutil.HashBytes(item.Payload, s.algo)
		if err != nil {
			return &Error{Message: err.Error(), Cause: ErrCauseHashFailed}
		}

		name := hash[:16]
		if item.Kind != "" {
			name = item.Kind + "-" + name
		}
		fullPath := filepath.Join(s.dir, name)

		if err := os.WriteFile(fullPath, item.Payload, 0o644); err != nil {
			return &Error{Message: err.Error(), Cause: ErrCauseWriteFailed}
		}
	}

	return nil
}

// Publisher is the minimal publish capability BrokerForwardSink needs from
// a Manager, kept as a narrow interface here so archive never imports the
// manager package's broker/store setup concerns.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// BrokerForwardSink republishes each data item's payload to a broker topic
// via Publisher, the "forward to a collection-adjacent stream" option.
type BrokerForwardSink struct {
	publisher Publisher
}

func NewBrokerForwardSink(publisher Publisher) BrokerForwardSink {
	return BrokerForwardSink{publisher: publisher}
}

func (s BrokerForwardSink) Archive(ctx context.Context, items []extractor.DataItem) *Error {
	for _, item := range items {
		if err := s.publisher.Publish(ctx, item.Payload); err != nil {
			return &Error{
				Message: fmt.Sprintf("forwarding %s item: %v", item.Kind, err),
				Cause:   ErrCauseForwardFailed,
			}
		}
	}
	return nil
}
