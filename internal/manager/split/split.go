// Package split ships the two-interface decomposition of the Manager
// contract: a Frontier (publish/subscribe the task queue) and a Collection
// (publish to the collection stream, query the seen set) composed
// together. Either shape is a valid implementation of the same contract;
// internal/manager's combined Manager is the one cmd/worker and cmd/proxy
// wire up by default, but this package proves the contract doesn't
// require a single combined type.
package split

import (
	"context"

	"github.com/crawlfleet/crawlfleet/internal/manager"
	"github.com/crawlfleet/crawlfleet/internal/task"
)

// Frontier publishes tasks to and consumes tasks from the frontier queue.
type Frontier interface {
	Submit(ctx context.Context, t task.Task) *manager.Error
	Subscribe(ctx context.Context, resolve manager.Resolver) *manager.Error
	Close() error
}

// Collection publishes tasks to the collection stream and answers
// membership queries against the seen set.
type Collection interface {
	Submit(ctx context.Context, t task.Task) *manager.Error
	CullKnown(ctx context.Context, tasks []task.Task) ([]task.Task, *manager.Error)
	MarkKnown(ctx context.Context, t task.Task) *manager.Error
	Close() error
}

// Manager composes a Frontier and a Collection into the same contract
// internal/manager.Manager exposes. Submit publishes to both explicitly
// rather than relying on one fan-out publish reaching both queues, since the
// two halves may not even share a broker connection.
type Manager struct {
	frontier   Frontier
	collection Collection
}

// New composes frontier and collection into a Manager.
func New(frontier Frontier, collection Collection) *Manager {
	return &Manager{frontier: frontier, collection: collection}
}

// Submit publishes t to the frontier, then to the collection stream.
// Partial progress is acceptable: a frontier-publish failure returns
// immediately without attempting the collection publish.
func (m *Manager) Submit(ctx context.Context, tasks []task.Task) *manager.Error {
	for _, t := range tasks {
		if err := m.frontier.Submit(ctx, t); err != nil {
			return err
		}
		if err := m.collection.Submit(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe delegates to the frontier half; the collection half has no
// subscribers in this decomposition (that's the Proxy's job, talking to
// the collection queue directly).
func (m *Manager) Subscribe(ctx context.Context, resolve manager.Resolver) *manager.Error {
	return m.frontier.Subscribe(ctx, resolve)
}

// CullKnown delegates to the collection half, which owns the seen set.
func (m *Manager) CullKnown(ctx context.Context, tasks []task.Task) ([]task.Task, *manager.Error) {
	return m.collection.CullKnown(ctx, tasks)
}

// MarkKnown delegates to the collection half.
func (m *Manager) MarkKnown(ctx context.Context, t task.Task) *manager.Error {
	return m.collection.MarkKnown(ctx, t)
}

// Close releases both halves, frontier first so a frontier consumer
// mid-flight isn't starved of a place to cull against.
func (m *Manager) Close() error {
	var firstErr error
	if err := m.frontier.Close(); err != nil {
		firstErr = err
	}
	if err := m.collection.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
