// Package pipeline is the Worker's control plane: it orchestrates the
// download, extract, archive, normalise, filter, cull, and submit stages
// in strict order against a single task and turns the first stage that
// fails into a Disposition. No stage decides its own
// fate, failure.Kind.Disposition() is the only place that maps a
// classified error to ack/drop/requeue, exactly as pkg/failure documents.
package pipeline

import (
	"context"
	"net/url"

	"github.com/crawlfleet/crawlfleet/internal/archive"
	"github.com/crawlfleet/crawlfleet/internal/downloader"
	"github.com/crawlfleet/crawlfleet/internal/extractor"
	"github.com/crawlfleet/crawlfleet/internal/filter"
	"github.com/crawlfleet/crawlfleet/internal/manager"
	"github.com/crawlfleet/crawlfleet/internal/normalize"
	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

// Frontier is the narrow slice of manager.Manager the pipeline's Cull and
// Submit stages need, kept as an interface so tests drive the pipeline
// without a broker or store.
type Frontier interface {
	CullKnown(ctx context.Context, tasks []task.Task) ([]task.Task, *manager.Error)
	Submit(ctx context.Context, tasks []task.Task) *manager.Error
}

// Extractor is extractor.Shell's method set, kept as an interface here so
// tests can substitute a fake that doesn't parse real HTML.
type Extractor interface {
	Extract(content []byte, base url.URL) (extractor.Result, *extractor.Error)
}

// Observer receives one notification per stage outcome, for the
// telemetry package to turn into structured log lines. It is
// observational only, Pipeline never consults it to decide anything.
type Observer interface {
	StageFailed(stage string, t task.Task, err failure.ClassifiedError)
	StageSkipped(stage string, t task.Task, reason string)
}

type noopObserver struct{}

func (noopObserver) StageFailed(string, task.Task, failure.ClassifiedError) {}
func (noopObserver) StageSkipped(string, task.Task, string)                {}

// Pipeline holds one instance of every stage and the frontier adapter.
// It is single-threaded and stateless across calls to Resolve: the only
// shared mutable state is whatever the injected Frontier itself guards.
type Pipeline struct {
	Downloader downloader.Fetcher
	Extractor  Extractor
	Archiver   archive.Sink
	Filter     filter.Filter
	Frontier   Frontier
	Observer   Observer
}

// New builds a Pipeline. A nil Observer is replaced with a no-op.
func New(d downloader.Fetcher, ex Extractor, ar archive.Sink, f filter.Filter, fr Frontier, obs Observer) Pipeline {
	if obs == nil {
		obs = noopObserver{}
	}
	return Pipeline{Downloader: d, Extractor: ex, Archiver: ar, Filter: f, Frontier: fr, Observer: obs}
}

// Resolve runs the eight stages against t in order, Download, Extract,
// Archive, Normalise, Filter, Cull, Submit, and returns the Disposition
// for t's own delivery. A stage that fails stops the pipeline; later
// stages never run.
func (p Pipeline) Resolve(ctx context.Context, t task.Task) failure.Disposition {
	body, err := p.Downloader.Fetch(ctx, t)
	if err != nil {
		p.Observer.StageFailed("download", t, err)
		return err.Kind().Disposition()
	}

	extracted, exErr := p.Extractor.Extract(body, t.URL())
	if exErr != nil {
		p.Observer.StageFailed("extract", t, exErr)
		return exErr.Kind().Disposition()
	}

	if archErr := p.Archiver.Archive(ctx, extracted.Data); archErr != nil {
		p.Observer.StageFailed("archive", t, archErr)
		return archErr.Kind().Disposition()
	}

	normalised, normErrs := normalize.Batch(extracted.Links)
	for _, nerr := range normErrs {
		p.Observer.StageSkipped("normalise", t, nerr.Error())
	}

	survivors := filterByHost(p.Filter, normalised)

	candidates := make([]task.Task, len(survivors))
	for i, u := range survivors {
		candidates[i] = task.New(u)
	}

	unseen, cullErr := p.Frontier.CullKnown(ctx, candidates)
	if cullErr != nil {
		p.Observer.StageFailed("cull", t, cullErr)
		return cullErr.Kind().Disposition()
	}

	if submitErr := p.Frontier.Submit(ctx, unseen); submitErr != nil {
		p.Observer.StageFailed("submit", t, submitErr)
		return submitErr.Kind().Disposition()
	}

	return failure.Ack
}

func filterByHost(f filter.Filter, urls []url.URL) []url.URL {
	survivors := make([]url.URL, 0, len(urls))
	for _, u := range urls {
		if f.Pass(u.Hostname()) {
			survivors = append(survivors, u)
		}
	}
	return survivors
}
