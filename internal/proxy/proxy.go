// Package proxy is the independent collection-queue consumer: no
// extraction, no cull, no filter, just deserialise-and-mark-known. It
// shares the Manager contract with the Worker but uses a disjoint slice of
// it, never touching the frontier queue or the broker's publish side.
package proxy

import (
	"context"

	"github.com/crawlfleet/crawlfleet/internal/manager"
	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

// Manager is the narrow slice of *manager.Manager the Proxy needs, kept as
// an interface so tests drive Run without a broker or store.
type Manager interface {
	SubscribeCollection(ctx context.Context, queue string, resolve manager.Resolver) *manager.Error
	MarkKnown(ctx context.Context, t task.Task) *manager.Error
	CollectionQueue() string
}

// Observer receives one notification per failed delivery, mirroring the
// pipeline package's Observer so telemetry can treat both services the
// same way.
type Observer interface {
	StageFailed(stage string, t task.Task, err failure.ClassifiedError)
}

type noopObserver struct{}

func (noopObserver) StageFailed(string, task.Task, failure.ClassifiedError) {}

// Proxy drains the collection queue into the store's seen set.
type Proxy struct {
	manager  Manager
	observer Observer
}

// New builds a Proxy. A nil Observer is replaced with a no-op.
func New(m Manager, obs Observer) Proxy {
	if obs == nil {
		obs = noopObserver{}
	}
	return Proxy{manager: m, observer: obs}
}

// Run subscribes to the collection queue and marks every delivered task
// known until ctx is cancelled or the broker connection fails. It blocks,
// same as Manager.SubscribeCollection. A dead or undeserialisable
// delivery is requeued, not dropped: the collection queue carries no
// retry-elsewhere path the way the frontier queue does.
func (p Proxy) Run(ctx context.Context) *manager.Error {
	return p.manager.SubscribeCollection(ctx, p.manager.CollectionQueue(), func(t task.Task) failure.Disposition {
		return p.resolve(ctx, t)
	})
}

func (p Proxy) resolve(ctx context.Context, t task.Task) failure.Disposition {
	if err := p.manager.MarkKnown(ctx, t); err != nil {
		p.observer.StageFailed("mark_known", t, err)
		return err.Kind().Disposition()
	}
	return failure.Ack
}
