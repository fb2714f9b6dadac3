package pipeline_test

import (
	"context"
	"net/url"

	"github.com/crawlfleet/crawlfleet/internal/archive"
	"github.com/crawlfleet/crawlfleet/internal/downloader"
	"github.com/crawlfleet/crawlfleet/internal/extractor"
	"github.com/crawlfleet/crawlfleet/internal/manager"
	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

type fakeObserver struct {
	failedStages  []string
	skippedStages []string
}

func (o *fakeObserver) StageFailed(stage string, t task.Task, err failure.ClassifiedError) {
	o.failedStages = append(o.failedStages, stage)
}

func (o *fakeObserver) StageSkipped(stage string, t task.Task, reason string) {
	o.skippedStages = append(o.skippedStages, stage)
}

type fakeDownloader struct {
	body []byte
	err  *downloader.Error
}

func (f fakeDownloader) Fetch(ctx context.Context, t task.Task) ([]byte, *downloader.Error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

type fakeExtractor struct {
	result extractor.Result
	err    *extractor.Error
}

func (f fakeExtractor) Extract(content []byte, base url.URL) (extractor.Result, *extractor.Error) {
	return f.result, f.err
}

type fakeArchiver struct {
	err *archive.Error
}

func (f fakeArchiver) Archive(ctx context.Context, items []extractor.DataItem) *archive.Error {
	return f.err
}

type fakeFrontier struct {
	cullResult []task.Task
	cullCalled bool
	cullErr    *manager.Error
	submitErr  *manager.Error
	submitted  []task.Task
}

func (f *fakeFrontier) CullKnown(ctx context.Context, tasks []task.Task) ([]task.Task, *manager.Error) {
	f.cullCalled = true
	if f.cullErr != nil {
		return nil, f.cullErr
	}
	if f.cullResult != nil {
		return f.cullResult, nil
	}
	return tasks, nil
}

func (f *fakeFrontier) Submit(ctx context.Context, tasks []task.Task) *manager.Error {
	f.submitted = tasks
	return f.submitErr
}

func parseURL(raw string) url.URL {
	u, _ := url.Parse(raw)
	return *u
}
