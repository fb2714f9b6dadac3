package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crawlfleet/crawlfleet/internal/archive"
	"github.com/crawlfleet/crawlfleet/internal/build"
	"github.com/crawlfleet/crawlfleet/internal/config"
	"github.com/crawlfleet/crawlfleet/internal/downloader"
	"github.com/crawlfleet/crawlfleet/internal/extractor"
	"github.com/crawlfleet/crawlfleet/internal/filter"
	"github.com/crawlfleet/crawlfleet/internal/manager"
	"github.com/crawlfleet/crawlfleet/internal/pipeline"
	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/crawlfleet/crawlfleet/internal/telemetry"
	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

var workerViper = viper.New()

// WorkerCmd is cmd/worker's root command: it subscribes to the frontier
// queue and runs every delivery through the pipeline until signalled.
var WorkerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the crawl fleet Worker",
	Long: `worker drains the frontier queue, downloads each task's page,
extracts outbound links and any typed data, archives the data, normalises
and filters the links, culls what the collection already knows about, and
submits the survivors back to the frontier.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintln(cmd.OutOrStdout(), build.FullVersion())
			return nil
		}
		cfg, err := config.LoadWorker(workerViper)
		if err != nil {
			return fmt.Errorf("loading worker config: %w", err)
		}
		return runWorker(cmd.Context(), cfg)
	},
}

func init() {
	bindBrokerFlags(WorkerCmd, workerViper)
	bindStoreFlags(WorkerCmd, workerViper)
	bindTelemetryFlags(WorkerCmd, workerViper)

	WorkerCmd.Flags().Bool("version", false, "print the Worker build version and exit")
	WorkerCmd.Flags().String("user-agent", "crawlfleet-worker/1.0", "User-Agent header sent with every fetch")
	WorkerCmd.Flags().Bool("filter-enable", false, "enable the allow/deny host filter")
	WorkerCmd.Flags().String("filter-type", "deny", "filter mode: allow or deny")
	WorkerCmd.Flags().String("filter-path", "", "line-oriented file of filter entries")
	WorkerCmd.Flags().String("archive-mode", "discard", "archive sink: discard, file, or forward")
	WorkerCmd.Flags().String("archive-dir", "", "directory the file archive sink writes into")

	workerViper.BindPFlag("user-agent", WorkerCmd.Flags().Lookup("user-agent"))
	workerViper.BindPFlag("filter.enable", WorkerCmd.Flags().Lookup("filter-enable"))
	workerViper.BindPFlag("filter.type", WorkerCmd.Flags().Lookup("filter-type"))
	workerViper.BindPFlag("filter.path", WorkerCmd.Flags().Lookup("filter-path"))
	workerViper.BindPFlag("archive.mode", WorkerCmd.Flags().Lookup("archive-mode"))
	workerViper.BindPFlag("archive.dir", WorkerCmd.Flags().Lookup("archive-dir"))

	workerViper.SetEnvPrefix("CRAWLFLEET_WORKER")
	workerViper.AutomaticEnv()
}

// ExecuteWorker runs WorkerCmd. cmd/worker's main is just this call.
func ExecuteWorker() error {
	return WorkerCmd.Execute()
}

func buildArchiveSink(cfg config.WorkerConfig, mgr *manager.Manager) (archive.Sink, error) {
	switch cfg.ArchiveMode {
	case "file":
		return archive.NewFileSink(cfg.ArchiveDir, ""), nil
	case "forward":
		return archive.NewBrokerForwardSink(mgr), nil
	default:
		return archive.DiscardSink{}, nil
	}
}

func buildFilter(cfg config.WorkerConfig) (filter.Filter, error) {
	if !cfg.Filter.Enable {
		return filter.New(filter.None, nil), nil
	}
	f, err := filter.Load(cfg.Filter.Type, cfg.Filter.Path)
	if err != nil {
		return filter.Filter{}, err
	}
	return f, nil
}

func runWorker(ctx context.Context, cfg config.WorkerConfig) error {
	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnable {
		metrics = telemetry.NewMetrics(prometheus.DefaultRegisterer)
		go serveMetrics(cfg.Telemetry.MetricsAddr)
	}

	recorder, err := telemetry.New(telemetry.Config{Level: cfg.Telemetry.LogLevel, Path: cfg.Telemetry.LogPath}, metrics)
	if err != nil {
		return fmt.Errorf("building telemetry recorder: %w", err)
	}
	recorder.Startup("worker", build.FullVersion())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgrCfg := manager.Config{Broker: cfg.Broker.ToManager(), Store: cfg.Store.ToManager()}
	mgr, dialErr := manager.Dial(ctx, mgrCfg)
	if dialErr != nil {
		return fmt.Errorf("dialing manager: %w", dialErr)
	}
	defer mgr.Close()

	sink, sinkErr := buildArchiveSink(cfg, mgr)
	if sinkErr != nil {
		return fmt.Errorf("building archive sink: %w", sinkErr)
	}

	f, filterErr := buildFilter(cfg)
	if filterErr != nil {
		return fmt.Errorf("building filter: %w", filterErr)
	}

	fetcher := downloader.New(nil, cfg.UserAgent)
	shell := extractor.NewShell(nil)

	p := pipeline.New(fetcher, shell, sink, f, mgr, recorder)

	subErr := mgr.Subscribe(ctx, mgr.FrontierQueue(), func(t task.Task) failure.Disposition {
		disposition := p.Resolve(ctx, t)
		recorder.TaskResolved(t, disposition)
		return disposition
	})
	if subErr != nil {
		return fmt.Errorf("subscribe: %w", subErr)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	http.ListenAndServe(addr, mux)
}
