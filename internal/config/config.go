// Package config builds Worker and Proxy configuration from defaults,
// environment variables, and CLI flags, in that increasing order of
// precedence (viper's own precedence rules). Flags
// are bound once in internal/cli and read here into typed structs the
// rest of the program consumes without ever touching viper directly.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/crawlfleet/crawlfleet/internal/manager"
)

// BrokerConfig names the AMQP broker connection settings.
type BrokerConfig struct {
	Host            string
	Port            int
	Exchange        string
	FrontierQueue   string
	CollectionQueue string
	PrefetchCount   int
}

// URL builds the AMQP connection string manager.DialBroker expects.
func (b BrokerConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%d/", b.Host, b.Port)
}

// ToManager converts to the manager package's own BrokerConfig shape.
func (b BrokerConfig) ToManager() manager.BrokerConfig {
	return manager.BrokerConfig{
		URL:             b.URL(),
		Exchange:        b.Exchange,
		FrontierQueue:   b.FrontierQueue,
		CollectionQueue: b.CollectionQueue,
		Prefetch:        b.PrefetchCount,
	}
}

// StoreConfig names the Redis-style store connection settings.
type StoreConfig struct {
	Host         string
	Port         int
	SentinelName string
	Set          string
}

// ToManager converts to the manager package's own StoreConfig shape.
func (s StoreConfig) ToManager() manager.StoreConfig {
	return manager.StoreConfig{
		Addr:         fmt.Sprintf("%s:%d", s.Host, s.Port),
		SentinelName: s.SentinelName,
		Set:          s.Set,
	}
}

// FilterConfig names the filter-enable / filter-type / filter-path settings.
type FilterConfig struct {
	Enable bool
	Type   string
	Path   string
}

// TelemetryConfig names the log-level / log-path / telemetry-* settings.
type TelemetryConfig struct {
	LogLevel      string
	LogPath       string
	MetricsEnable bool
	MetricsAddr   string
	ShutdownGrace time.Duration
}

// WorkerConfig is everything cmd/worker needs to dial a Manager, build a
// Pipeline, and serve telemetry.
type WorkerConfig struct {
	Broker      BrokerConfig
	Store       StoreConfig
	Filter      FilterConfig
	Telemetry   TelemetryConfig
	UserAgent   string
	ArchiveMode string
	ArchiveDir  string
}

// ProxyConfig is everything cmd/proxy needs; it shares the broker/store
// shape but only ever touches the collection queue.
type ProxyConfig struct {
	Broker    BrokerConfig
	Store     StoreConfig
	Telemetry TelemetryConfig
}

func bindDefaults(v *viper.Viper) {
	v.SetDefault("broker.host", "localhost")
	v.SetDefault("broker.port", 5672)
	v.SetDefault("broker.exchange", "crawlfleet")
	v.SetDefault("broker.frontier-queue", "frontier")
	v.SetDefault("broker.collection-queue", "collection")
	v.SetDefault("broker.prefetch-count", 16)

	v.SetDefault("store.host", "localhost")
	v.SetDefault("store.port", 6379)
	v.SetDefault("store.sentinel-name", "")
	v.SetDefault("store.set", "crawlfleet:seen")

	v.SetDefault("filter.enable", false)
	v.SetDefault("filter.type", "deny")
	v.SetDefault("filter.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("telemetry.enable", false)
	v.SetDefault("telemetry.addr", ":9090")
	v.SetDefault("telemetry.shutdown-grace", 10*time.Second)

	v.SetDefault("user-agent", "crawlfleet-worker/1.0")
	v.SetDefault("archive.mode", "discard")
	v.SetDefault("archive.dir", "")
}

func brokerFrom(v *viper.Viper) BrokerConfig {
	return BrokerConfig{
		Host:            v.GetString("broker.host"),
		Port:            v.GetInt("broker.port"),
		Exchange:        v.GetString("broker.exchange"),
		FrontierQueue:   v.GetString("broker.frontier-queue"),
		CollectionQueue: v.GetString("broker.collection-queue"),
		PrefetchCount:   v.GetInt("broker.prefetch-count"),
	}
}

func storeFrom(v *viper.Viper) StoreConfig {
	return StoreConfig{
		Host:         v.GetString("store.host"),
		Port:         v.GetInt("store.port"),
		SentinelName: v.GetString("store.sentinel-name"),
		Set:          v.GetString("store.set"),
	}
}

func telemetryFrom(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		LogLevel:      v.GetString("log.level"),
		LogPath:       v.GetString("log.path"),
		MetricsEnable: v.GetBool("telemetry.enable"),
		MetricsAddr:   v.GetString("telemetry.addr"),
		ShutdownGrace: v.GetDuration("telemetry.shutdown-grace"),
	}
}

// LoadWorker reads a fully-populated WorkerConfig out of v. v is expected
// to already have its env prefix and flag bindings set up by internal/cli;
// LoadWorker only applies defaults and validates.
func LoadWorker(v *viper.Viper) (WorkerConfig, error) {
	bindDefaults(v)

	cfg := WorkerConfig{
		Broker:      brokerFrom(v),
		Store:       storeFrom(v),
		Telemetry:   telemetryFrom(v),
		UserAgent:   v.GetString("user-agent"),
		ArchiveMode: v.GetString("archive.mode"),
		ArchiveDir:  v.GetString("archive.dir"),
		Filter: FilterConfig{
			Enable: v.GetBool("filter.enable"),
			Type:   v.GetString("filter.type"),
			Path:   v.GetString("filter.path"),
		},
	}

	if err := validateWorker(cfg); err != nil {
		return WorkerConfig{}, err
	}
	return cfg, nil
}

// LoadProxy reads a fully-populated ProxyConfig out of v.
func LoadProxy(v *viper.Viper) (ProxyConfig, error) {
	bindDefaults(v)

	cfg := ProxyConfig{
		Broker:    brokerFrom(v),
		Store:     storeFrom(v),
		Telemetry: telemetryFrom(v),
	}

	if err := validateProxy(cfg); err != nil {
		return ProxyConfig{}, err
	}
	return cfg, nil
}

func validateWorker(cfg WorkerConfig) error {
	if err := validateCommon(cfg.Broker, cfg.Store); err != nil {
		return err
	}
	if cfg.Filter.Enable && cfg.Filter.Type != "allow" && cfg.Filter.Type != "deny" {
		return ErrInvalidFilterType
	}
	if cfg.Filter.Enable && cfg.Filter.Path == "" {
		return fmt.Errorf("%w: filter-path is required when filter-enable is set", ErrMissingRequired)
	}
	switch cfg.ArchiveMode {
	case "discard", "file", "forward":
	default:
		return fmt.Errorf("%w: archive-mode must be discard, file, or forward", ErrInvalidConfig)
	}
	if cfg.ArchiveMode == "file" && cfg.ArchiveDir == "" {
		return fmt.Errorf("%w: archive-dir is required when archive-mode is file", ErrMissingRequired)
	}
	return nil
}

func validateProxy(cfg ProxyConfig) error {
	return validateCommon(cfg.Broker, cfg.Store)
}

func validateCommon(broker BrokerConfig, store StoreConfig) error {
	if broker.Host == "" {
		return fmt.Errorf("%w: broker-host", ErrMissingRequired)
	}
	if broker.Exchange == "" {
		return fmt.Errorf("%w: exchange", ErrMissingRequired)
	}
	if broker.FrontierQueue == "" {
		return fmt.Errorf("%w: frontier-queue", ErrMissingRequired)
	}
	if broker.CollectionQueue == "" {
		return fmt.Errorf("%w: collection-queue", ErrMissingRequired)
	}
	if broker.PrefetchCount <= 0 {
		return fmt.Errorf("%w: prefetch-count must be positive", ErrInvalidConfig)
	}
	if store.Host == "" {
		return fmt.Errorf("%w: store-host", ErrMissingRequired)
	}
	if store.Set == "" {
		return fmt.Errorf("%w: store-set", ErrMissingRequired)
	}
	return nil
}
