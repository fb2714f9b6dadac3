package cli_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crawlfleet/crawlfleet/internal/build"
	"github.com/crawlfleet/crawlfleet/internal/cli"
)

func TestWorkerCmd_FlagsOverrideDefaults(t *testing.T) {
	cmd := cli.WorkerCmd
	require.NoError(t, cmd.Flags().Set("broker-host", "rabbit.test"))
	require.NoError(t, cmd.Flags().Set("prefetch-count", "32"))
	require.NoError(t, cmd.Flags().Set("filter-enable", "true"))
	require.NoError(t, cmd.Flags().Set("filter-type", "allow"))

	assert.Equal(t, "rabbit.test", mustFlagString(t, cmd, "broker-host"))
	assert.Equal(t, "32", mustFlagString(t, cmd, "prefetch-count"))
	assert.Equal(t, "true", mustFlagString(t, cmd, "filter-enable"))
	assert.Equal(t, "allow", mustFlagString(t, cmd, "filter-type"))
}

func TestProxyCmd_SharesBrokerAndStoreFlags(t *testing.T) {
	cmd := cli.ProxyCmd
	require.NoError(t, cmd.Flags().Set("store-set", "proxy-test-seen"))
	assert.Equal(t, "proxy-test-seen", mustFlagString(t, cmd, "store-set"))

	assert.Nil(t, cmd.Flags().Lookup("filter-enable"), "proxy has no filter stage and should not expose filter flags")
	assert.Nil(t, cmd.Flags().Lookup("archive-mode"), "proxy has no archive stage and should not expose archive flags")
}

func TestWorkerCmd_HasUserAgentAndArchiveFlags(t *testing.T) {
	cmd := cli.WorkerCmd
	assert.NotNil(t, cmd.Flags().Lookup("user-agent"))
	assert.NotNil(t, cmd.Flags().Lookup("archive-mode"))
	assert.NotNil(t, cmd.Flags().Lookup("archive-dir"))
}

func TestWorkerCmd_VersionFlagPrintsAndSkipsRun(t *testing.T) {
	cmd := cli.WorkerCmd
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Flags().Set("version", "true"))
	defer cmd.Flags().Set("version", "false")

	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Equal(t, build.FullVersion()+"\n", out.String())
}

func TestProxyCmd_VersionFlagPrintsAndSkipsRun(t *testing.T) {
	cmd := cli.ProxyCmd
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Flags().Set("version", "true"))
	defer cmd.Flags().Set("version", "false")

	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Equal(t, build.FullVersion()+"\n", out.String())
}

func mustFlagString(t *testing.T, cmd *cobra.Command, name string) string {
	t.Helper()
	f := cmd.Flags().Lookup(name)
	require.NotNil(t, f)
	return f.Value.String()
}
