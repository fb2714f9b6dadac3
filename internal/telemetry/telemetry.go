// Package telemetry is the structured logging and metrics sink every
// pipeline stage reports through. It carries a canonical ErrorCause table
// for observability, distinct from failure.Kind: ErrorCause never feeds
// back into control flow, it only labels log lines and metric series.
package telemetry

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

// ErrorCause is a closed, package-agnostic classification used only for
// logging and metrics. It is derived from a stage's failure.Kind and must
// never be consulted to decide ack/drop/requeue. That decision belongs to
// failure.Kind.Disposition() alone.
type ErrorCause string

const (
	CauseUnknown        ErrorCause = "unknown"
	CauseNetworkFailure ErrorCause = "network_failure"
	CauseUnreachable    ErrorCause = "unreachable"
	CauseInvalidURL     ErrorCause = "invalid_url"
	CauseInvalidPage    ErrorCause = "invalid_page"
	CauseParsingFailure ErrorCause = "parsing_failure"
	CauseInvalidTask    ErrorCause = "invalid_task"
	CauseArchiveFailure ErrorCause = "archive_failure"
	CauseInvalidData    ErrorCause = "invalid_data"
)

// causeByKind is the single mapping from a stage's failure.Kind to its
// observability classification. Unrecognised kinds log as CauseUnknown
// rather than panicking or guessing.
var causeByKind = map[failure.Kind]ErrorCause{
	failure.KindNetwork:       CauseNetworkFailure,
	failure.KindUnreachable:   CauseUnreachable,
	failure.KindInvalidURL:    CauseInvalidURL,
	failure.KindInvalidPage:   CauseInvalidPage,
	failure.KindParsing:       CauseParsingFailure,
	failure.KindInvalidTask:   CauseInvalidTask,
	failure.KindArchiveServer: CauseArchiveFailure,
	failure.KindInvalidData:   CauseInvalidData,
}

func causeFor(k failure.Kind) ErrorCause {
	if c, ok := causeByKind[k]; ok {
		return c
	}
	return CauseUnknown
}

// Recorder is the pipeline.Observer / proxy.Observer implementation backed
// by logrus. Every line carries the recorder's run ID so log lines from
// many Worker processes sharing one aggregator can be told apart.
type Recorder struct {
	log     *logrus.Logger
	runID   string
	metrics *Metrics
}

// Config selects the log level and an optional file sink. An empty Path
// leaves output on stderr.
type Config struct {
	Level string
	Path  string
}

// New builds a Recorder. level is parsed via logrus.ParseLevel; an invalid
// or empty level defaults to logrus.InfoLevel. A non-empty path opens (or
// creates) a file and writes there instead of stderr; the caller does not
// need to close it, New leaks the *os.File intentionally for the life of
// the process.
func New(cfg Config, metrics *Metrics) (*Recorder, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	var out io.Writer = os.Stderr
	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
	}
	logger.SetOutput(out)

	return &Recorder{log: logger, runID: uuid.NewString(), metrics: metrics}, nil
}

// StageFailed satisfies pipeline.Observer and proxy.Observer. It logs at
// error level and, when metrics are enabled, increments the disposition
// counter and records the error cause.
func (r *Recorder) StageFailed(stage string, t task.Task, err failure.ClassifiedError) {
	cause := causeFor(err.Kind())
	disposition := err.Kind().Disposition()

	r.log.WithFields(logrus.Fields{
		"run_id":      r.runID,
		"stage":       stage,
		"url":         t.URL().String(),
		"cause":       cause,
		"disposition": disposition.String(),
	}).Error(err.Error())

	if r.metrics != nil {
		r.metrics.ObserveDisposition(stage, disposition)
		r.metrics.ObserveCause(cause)
	}
}

// StageSkipped satisfies pipeline.Observer for the Normalise stage's
// per-URL soft failures, which never affect the delivery's own
// disposition. Logged at info level since skipping one malformed link
// among many is routine, not an error.
func (r *Recorder) StageSkipped(stage string, t task.Task, reason string) {
	r.log.WithFields(logrus.Fields{
		"run_id": r.runID,
		"stage":  stage,
		"url":    t.URL().String(),
	}).Info(reason)
}

// TaskResolved logs the terminal disposition of a fully-processed
// delivery. The Worker's subscribe loop in internal/cli calls this itself
// since Disposition is returned to it, not surfaced through Observer; the
// Proxy does not call it.
func (r *Recorder) TaskResolved(t task.Task, disposition failure.Disposition) {
	r.log.WithFields(logrus.Fields{
		"run_id":      r.runID,
		"url":         t.URL().String(),
		"disposition": disposition.String(),
	}).Debug("task resolved")

	if r.metrics != nil {
		r.metrics.ObserveTask(disposition)
	}
}

// RunID returns the recorder's per-process identifier.
func (r *Recorder) RunID() string {
	return r.runID
}

// Startup logs a single info line marking the start of a run, carrying the
// binary's component name and version alongside the usual run ID. Worker
// and Proxy each call this once before subscribing.
func (r *Recorder) Startup(component, version string) {
	r.log.WithFields(logrus.Fields{
		"run_id":    r.runID,
		"component": component,
		"version":   version,
	}).Info("starting")
}
