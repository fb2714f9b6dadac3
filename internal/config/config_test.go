package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crawlfleet/crawlfleet/internal/config"
)

func TestLoadWorker_AppliesDefaults(t *testing.T) {
	v := viper.New()
	v.Set("broker.host", "rabbit.internal")

	cfg, err := config.LoadWorker(v)
	require.NoError(t, err)

	assert.Equal(t, "rabbit.internal", cfg.Broker.Host)
	assert.Equal(t, 5672, cfg.Broker.Port)
	assert.Equal(t, "crawlfleet", cfg.Broker.Exchange)
	assert.Equal(t, "discard", cfg.ArchiveMode)
	assert.Equal(t, "info", cfg.Telemetry.LogLevel)
}

func TestLoadWorker_BrokerURL(t *testing.T) {
	v := viper.New()
	v.Set("broker.host", "rabbit.internal")
	v.Set("broker.port", 5673)

	cfg, err := config.LoadWorker(v)
	require.NoError(t, err)
	assert.Equal(t, "amqp://rabbit.internal:5673/", cfg.Broker.URL())
}

func TestLoadWorker_MissingBrokerHost_Errors(t *testing.T) {
	v := viper.New()
	v.Set("broker.host", "")

	_, err := config.LoadWorker(v)
	require.ErrorIs(t, err, config.ErrMissingRequired)
}

func TestLoadWorker_FilterEnabledWithoutPath_Errors(t *testing.T) {
	v := viper.New()
	v.Set("filter.enable", true)
	v.Set("filter.type", "deny")

	_, err := config.LoadWorker(v)
	require.ErrorIs(t, err, config.ErrMissingRequired)
}

func TestLoadWorker_InvalidFilterType_Errors(t *testing.T) {
	v := viper.New()
	v.Set("filter.enable", true)
	v.Set("filter.type", "bogus")
	v.Set("filter.path", "/tmp/hosts.txt")

	_, err := config.LoadWorker(v)
	require.ErrorIs(t, err, config.ErrInvalidFilterType)
}

func TestLoadWorker_FileArchiveModeRequiresDir(t *testing.T) {
	v := viper.New()
	v.Set("archive.mode", "file")

	_, err := config.LoadWorker(v)
	require.ErrorIs(t, err, config.ErrMissingRequired)
}

func TestLoadWorker_InvalidArchiveMode_Errors(t *testing.T) {
	v := viper.New()
	v.Set("archive.mode", "bogus")

	_, err := config.LoadWorker(v)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadProxy_AppliesDefaultsAndValidates(t *testing.T) {
	v := viper.New()

	cfg, err := config.LoadProxy(v)
	require.NoError(t, err)
	assert.Equal(t, "collection", cfg.Broker.CollectionQueue)
	assert.Equal(t, "crawlfleet:seen", cfg.Store.Set)
}

func TestLoadProxy_MissingStoreSet_Errors(t *testing.T) {
	v := viper.New()
	v.Set("store.set", "")

	_, err := config.LoadProxy(v)
	require.ErrorIs(t, err, config.ErrMissingRequired)
}

func TestBrokerConfig_ToManager(t *testing.T) {
	v := viper.New()
	cfg, err := config.LoadWorker(v)
	require.NoError(t, err)

	mgrCfg := cfg.Broker.ToManager()
	assert.Equal(t, cfg.Broker.Exchange, mgrCfg.Exchange)
	assert.Equal(t, cfg.Broker.PrefetchCount, mgrCfg.Prefetch)
}

func TestStoreConfig_ToManager(t *testing.T) {
	v := viper.New()
	v.Set("store.host", "redis.internal")
	v.Set("store.port", 6380)

	cfg, err := config.LoadWorker(v)
	require.NoError(t, err)

	mgrCfg := cfg.Store.ToManager()
	assert.Equal(t, "redis.internal:6380", mgrCfg.Addr)
}
