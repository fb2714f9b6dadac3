package archive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crawlfleet/crawlfleet/internal/archive"
	"github.com/crawlfleet/crawlfleet/internal/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardSink_NeverErrors(t *testing.T) {
	sink := archive.DiscardSink{}
	err := sink.Archive(context.Background(), []extractor.DataItem{{Kind: "x", Payload: []byte("y")}})
	assert.Nil(t, err)
}

func TestFileSink_WritesContentHashedFile(t *testing.T) {
	dir := t.TempDir()
	sink := archive.NewFileSink(dir, "")

	items := []extractor.DataItem{{Kind: "page", Payload: []byte("hello world")}}
	err := sink.Archive(context.Background(), items)
	require.Nil(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "page-")
}

func TestFileSink_IdempotentOverwrite(t *testing.T) {
	dir := t.TempDir()
	sink := archive.NewFileSink(dir, "")
	items := []extractor.DataItem{{Kind: "page", Payload: []byte("same content")}}

	require.Nil(t, sink.Archive(context.Background(), items))
	require.Nil(t, sink.Archive(context.Background(), items))

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1)
}

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, body)
	return nil
}

func TestBrokerForwardSink_PublishesEachItem(t *testing.T) {
	pub := &fakePublisher{}
	sink := archive.NewBrokerForwardSink(pub)

	items := []extractor.DataItem{{Payload: []byte("a")}, {Payload: []byte("b")}}
	err := sink.Archive(context.Background(), items)
	require.Nil(t, err)
	assert.Len(t, pub.published, 2)
}

func TestBrokerForwardSink_PublishFailureIsArchiveServerError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection reset")}
	sink := archive.NewBrokerForwardSink(pub)

	err := sink.Archive(context.Background(), []extractor.DataItem{{Payload: []byte("a")}})
	require.NotNil(t, err)
	assert.Equal(t, archive.ErrCauseForwardFailed, err.Cause)
	assert.Equal(t, "requeue", err.Kind().Disposition().String())
}

func TestFileSink_UnwritableDirReturnsError(t *testing.T) {
	sink := archive.NewFileSink(filepath.Join(string([]byte{0}), "bad"), "")
	err := sink.Archive(context.Background(), []extractor.DataItem{{Payload: []byte("a")}})
	require.NotNil(t, err)
}
