package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crawlfleet/crawlfleet/internal/build"
	"github.com/crawlfleet/crawlfleet/internal/config"
	"github.com/crawlfleet/crawlfleet/internal/manager"
	"github.com/crawlfleet/crawlfleet/internal/proxy"
	"github.com/crawlfleet/crawlfleet/internal/telemetry"
)

var proxyViper = viper.New()

// ProxyCmd is cmd/proxy's root command: it drains the collection queue
// into the store's seen set until signalled. A store-connect failure at
// startup aborts immediately rather than logging and proceeding, since the
// Proxy has nothing useful to do without the set it writes into.
var ProxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the crawl fleet Proxy",
	Long: `proxy drains the collection queue: for each delivered task it marks
the URL known in the shared store and acks, requeueing on transient
store failure. It runs no extraction, cull, or filter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintln(cmd.OutOrStdout(), build.FullVersion())
			return nil
		}
		cfg, err := config.LoadProxy(proxyViper)
		if err != nil {
			return fmt.Errorf("loading proxy config: %w", err)
		}
		return runProxy(cmd.Context(), cfg)
	},
}

func init() {
	bindBrokerFlags(ProxyCmd, proxyViper)
	bindStoreFlags(ProxyCmd, proxyViper)
	bindTelemetryFlags(ProxyCmd, proxyViper)

	ProxyCmd.Flags().Bool("version", false, "print the Proxy build version and exit")

	proxyViper.SetEnvPrefix("CRAWLFLEET_PROXY")
	proxyViper.AutomaticEnv()
}

// ExecuteProxy runs ProxyCmd. cmd/proxy's main is just this call.
func ExecuteProxy() error {
	return ProxyCmd.Execute()
}

func runProxy(ctx context.Context, cfg config.ProxyConfig) error {
	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnable {
		metrics = telemetry.NewMetrics(prometheus.DefaultRegisterer)
		go serveMetrics(cfg.Telemetry.MetricsAddr)
	}

	recorder, err := telemetry.New(telemetry.Config{Level: cfg.Telemetry.LogLevel, Path: cfg.Telemetry.LogPath}, metrics)
	if err != nil {
		return fmt.Errorf("building telemetry recorder: %w", err)
	}
	recorder.Startup("proxy", build.FullVersion())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgrCfg := manager.Config{Broker: cfg.Broker.ToManager(), Store: cfg.Store.ToManager()}
	mgr, dialErr := manager.Dial(ctx, mgrCfg)
	if dialErr != nil {
		return fmt.Errorf("dialing manager: %w", dialErr)
	}
	defer mgr.Close()

	p := proxy.New(mgr, recorder)
	if runErr := p.Run(ctx); runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}
	return nil
}
