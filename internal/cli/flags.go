// Package cli wires cobra flags and viper env binding into the typed
// config internal/config builds, then performs the full startup sequence
// for each binary: dial the Manager, build the pipeline or proxy, run
// until signalled, close cleanly. Worker and Proxy are two cooperating
// commands, each with its own viper instance and env prefix, sharing the
// broker, store, and telemetry flag bindings.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindBrokerFlags registers the AMQP broker flags shared by both binaries
// and binds them into v under the broker.* keys internal/config reads.
func bindBrokerFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().String("broker-host", "localhost", "AMQP broker host")
	cmd.Flags().Int("broker-port", 5672, "AMQP broker port")
	cmd.Flags().String("exchange", "crawlfleet", "fan-out exchange name")
	cmd.Flags().String("frontier-queue", "frontier", "queue bound to the exchange for the Worker")
	cmd.Flags().String("collection-queue", "collection", "queue bound to the exchange for the Proxy")
	cmd.Flags().Int("prefetch-count", 16, "broker QoS prefetch, bounds in-flight deliveries")

	v.BindPFlag("broker.host", cmd.Flags().Lookup("broker-host"))
	v.BindPFlag("broker.port", cmd.Flags().Lookup("broker-port"))
	v.BindPFlag("broker.exchange", cmd.Flags().Lookup("exchange"))
	v.BindPFlag("broker.frontier-queue", cmd.Flags().Lookup("frontier-queue"))
	v.BindPFlag("broker.collection-queue", cmd.Flags().Lookup("collection-queue"))
	v.BindPFlag("broker.prefetch-count", cmd.Flags().Lookup("prefetch-count"))
}

// bindStoreFlags registers the Redis-style store flags shared by both
// binaries.
func bindStoreFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().String("store-host", "localhost", "key-value store host")
	cmd.Flags().Int("store-port", 6379, "key-value store port")
	cmd.Flags().String("store-sentinel-name", "", "sentinel master-group name; resolved before connecting if set")
	cmd.Flags().String("store-set", "crawlfleet:seen", "set name for the seen collection")

	v.BindPFlag("store.host", cmd.Flags().Lookup("store-host"))
	v.BindPFlag("store.port", cmd.Flags().Lookup("store-port"))
	v.BindPFlag("store.sentinel-name", cmd.Flags().Lookup("store-sentinel-name"))
	v.BindPFlag("store.set", cmd.Flags().Lookup("store-set"))
}

// bindTelemetryFlags registers the log and metrics flags shared by both
// binaries.
func bindTelemetryFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().String("log-level", "info", "logrus level: trace, debug, info, warn, error")
	cmd.Flags().String("log-path", "", "file path for log output; empty writes to stderr")
	cmd.Flags().Bool("telemetry-enable", false, "serve Prometheus metrics")
	cmd.Flags().String("telemetry-addr", ":9090", "address the metrics endpoint listens on")

	v.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	v.BindPFlag("log.path", cmd.Flags().Lookup("log-path"))
	v.BindPFlag("telemetry.enable", cmd.Flags().Lookup("telemetry-enable"))
	v.BindPFlag("telemetry.addr", cmd.Flags().Lookup("telemetry-addr"))
}
