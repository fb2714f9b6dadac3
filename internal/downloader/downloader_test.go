package downloader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/crawlfleet/crawlfleet/internal/downloader"
	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskFor(t *testing.T, raw string) task.Task {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return task.New(*u)
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>hi</html>"))
	}))
	defer srv.Close()

	f := downloader.New(srv.Client(), "crawlfleet-test")
	body, err := f.Fetch(context.Background(), taskFor(t, srv.URL))
	require.Nil(t, err)
	assert.Equal(t, "<html>hi</html>", string(body))
}

func TestFetch_ServerErrorStatusStillReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	f := downloader.New(srv.Client(), "")
	body, err := f.Fetch(context.Background(), taskFor(t, srv.URL))
	require.Nil(t, err)
	assert.Equal(t, "bad gateway", string(body))
}

func TestFetch_ClientErrorStatusStillReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer srv.Close()

	f := downloader.New(srv.Client(), "")
	body, err := f.Fetch(context.Background(), taskFor(t, srv.URL))
	require.Nil(t, err)
	assert.Equal(t, "not found", string(body))
}

func TestFetch_UnreachableHostIsNetworkKind(t *testing.T) {
	f := downloader.New(nil, "")
	_, err := f.Fetch(context.Background(), taskFor(t, "http://127.0.0.1:1"))
	require.NotNil(t, err)
	assert.Equal(t, downloader.ErrCauseRequestFailed, err.Cause)
}
