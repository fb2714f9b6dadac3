package split

import (
	"context"

	"github.com/crawlfleet/crawlfleet/internal/manager"
	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

// BrokerFrontier is the Frontier half backed directly by a dialed
// manager.Broker. Subscribe consumes Queue; Submit publishes to the
// broker's fan-out exchange, so a submitted task reaches every queue bound
// to it, not Queue alone.
type BrokerFrontier struct {
	Broker *manager.Broker
	Queue  string
}

func (f BrokerFrontier) Submit(ctx context.Context, t task.Task) *manager.Error {
	if err := f.Broker.Publish(ctx, t.Serialize()); err != nil {
		return &manager.Error{Message: err.Error(), Cause: manager.ErrCausePublishFailed}
	}
	return nil
}

func (f BrokerFrontier) Subscribe(ctx context.Context, resolve manager.Resolver) *manager.Error {
	return f.Broker.Subscribe(ctx, f.Queue, func(body []byte) failure.Disposition {
		t, derr := task.Deserialize(body)
		if derr != nil {
			return derr.Kind().Disposition()
		}
		return resolve(t)
	})
}

func (f BrokerFrontier) Close() error {
	return f.Broker.Close()
}

// StoreCollection is the Collection half backed by a dialed manager.Store
// plus the broker the collection queue lives on.
type StoreCollection struct {
	Broker *manager.Broker
	Store  *manager.Store
}

func (c StoreCollection) Submit(ctx context.Context, t task.Task) *manager.Error {
	if err := c.Broker.Publish(ctx, t.Serialize()); err != nil {
		return &manager.Error{Message: err.Error(), Cause: manager.ErrCausePublishFailed}
	}
	return nil
}

func (c StoreCollection) CullKnown(ctx context.Context, tasks []task.Task) ([]task.Task, *manager.Error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	byKey := make(map[string]task.Task, len(tasks))
	keys := make([]string, len(tasks))
	for i, t := range tasks {
		keys[i] = t.Key()
		byKey[t.Key()] = t
	}

	unseenKeys, err := c.Store.CullKnown(ctx, keys)
	if err != nil {
		return nil, err
	}

	unseen := make([]task.Task, 0, len(unseenKeys))
	for _, key := range unseenKeys {
		unseen = append(unseen, byKey[key])
	}
	return unseen, nil
}

func (c StoreCollection) MarkKnown(ctx context.Context, t task.Task) *manager.Error {
	return c.Store.Add(ctx, t.Key())
}

func (c StoreCollection) Close() error {
	return c.Store.Close()
}
