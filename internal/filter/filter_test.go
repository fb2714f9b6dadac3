package filter_test

import (
	"testing"

	"github.com/crawlfleet/crawlfleet/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoneModePassesEverything(t *testing.T) {
	f := filter.New(filter.None, nil)
	assert.True(t, f.Pass("example.com"))
	assert.True(t, f.Pass("anything.invalid"))
}

func TestAllowMode(t *testing.T) {
	f := filter.New(filter.Allow, []string{"example.com", "docs."})
	assert.True(t, f.Pass("www.example.com"))
	assert.True(t, f.Pass("docs.internal.io"))
	assert.False(t, f.Pass("other.test"))
}

func TestAllowModeEmptyListPassesNothing(t *testing.T) {
	f := filter.New(filter.Allow, nil)
	assert.False(t, f.Pass("example.com"))
}

func TestDenyMode(t *testing.T) {
	f := filter.New(filter.Deny, []string{"ads.", "tracker."})
	assert.False(t, f.Pass("ads.example.com"))
	assert.True(t, f.Pass("www.example.com"))
}

func TestDenyModeEmptyListPassesEverything(t *testing.T) {
	f := filter.New(filter.Deny, nil)
	assert.True(t, f.Pass("example.com"))
}

func TestEmptyHostDroppedUnderAllow(t *testing.T) {
	f := filter.New(filter.Allow, []string{"example.com"})
	assert.False(t, f.Pass(""))
}

func TestEmptyHostDroppedUnderDeny(t *testing.T) {
	f := filter.New(filter.Deny, []string{"ads."})
	assert.False(t, f.Pass(""))
}

func TestEmptyHostPassedUnderNone(t *testing.T) {
	f := filter.New(filter.None, nil)
	assert.True(t, f.Pass(""))
}

func TestMatchIsCaseSensitive(t *testing.T) {
	f := filter.New(filter.Allow, []string{"Example.com"})
	assert.False(t, f.Pass("example.com"))
	assert.True(t, f.Pass("Example.com"))
}

func TestParseMode(t *testing.T) {
	m, err := filter.ParseMode("allow")
	require.Nil(t, err)
	assert.Equal(t, filter.Allow, m)

	m, err = filter.ParseMode("")
	require.Nil(t, err)
	assert.Equal(t, filter.None, m)

	_, err = filter.ParseMode("bogus")
	require.NotNil(t, err)
	assert.Equal(t, filter.ErrCauseUnknownMode, err.Cause)
}

func TestLoadNoneSkipsFilesystem(t *testing.T) {
	f, err := filter.Load("none", "/nonexistent/path")
	require.Nil(t, err)
	assert.True(t, f.Pass("anything"))
}
