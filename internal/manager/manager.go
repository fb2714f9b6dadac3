// Package manager is the combined broker+store adapter the Worker and
// Proxy depend on: subscribe to a queue, submit tasks to the frontier,
// cull tasks already in the seen set, and close both connections. See
// internal/manager/split for the two-interface decomposition of the same
// contract.
package manager

import (
	"context"

	"github.com/crawlfleet/crawlfleet/internal/task"
	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

// Resolver is called with a successfully deserialised Task and returns the
// disposition to apply to its delivery.
type Resolver func(t task.Task) failure.Disposition

// brokerClient and storeClient are the narrow capabilities Manager needs
// from Broker and Store, kept as interfaces so tests can substitute fakes
// without dialing a real AMQP server or Redis instance.
type brokerClient interface {
	Subscribe(ctx context.Context, queue string, handle Handler) *Error
	Publish(ctx context.Context, body []byte) error
	Close() error
}

type storeClient interface {
	Add(ctx context.Context, key string) *Error
	CullKnown(ctx context.Context, keys []string) ([]string, *Error)
	Close() error
}

// Manager is the combined broker+store adapter.
type Manager struct {
	broker          brokerClient
	store           storeClient
	frontierQueue   string
	collectionQueue string
}

// Config bundles the broker and store setup both Worker and Proxy need.
type Config struct {
	Broker BrokerConfig
	Store  StoreConfig
}

// Dial performs the full setup sequence: open the broker
// connection and channel, declare and bind the queues, and connect to the
// store (resolving a sentinel master address first when configured).
func Dial(ctx context.Context, cfg Config) (*Manager, *Error) {
	broker, err := DialBroker(cfg.Broker)
	if err != nil {
		return nil, err
	}

	store, err := DialStore(ctx, cfg.Store)
	if err != nil {
		broker.Close()
		return nil, err
	}

	return newManager(broker, store, cfg.Broker.FrontierQueue, cfg.Broker.CollectionQueue), nil
}

func newManager(broker brokerClient, store storeClient, frontierQueue, collectionQueue string) *Manager {
	return &Manager{
		broker:          broker,
		store:           store,
		frontierQueue:   frontierQueue,
		collectionQueue: collectionQueue,
	}
}

// Subscribe consumes the frontier queue. For each delivery it deserialises
// the body into a Task; a deserialisation failure drops the delivery with
// no requeue, never reaching resolve. Otherwise it invokes resolve and
// applies the returned Disposition. Subscribe blocks until ctx is
// cancelled or the broker connection fails.
func (m *Manager) Subscribe(ctx context.Context, queue string, resolve Resolver) *Error {
	return m.subscribe(ctx, queue, failure.Drop, resolve)
}

// SubscribeCollection consumes the collection queue for the Proxy. Unlike
// Subscribe, a deserialisation failure requeues the delivery rather than
// dropping it: dead/undeserialisable collection deliveries are requeued,
// not discarded.
func (m *Manager) SubscribeCollection(ctx context.Context, queue string, resolve Resolver) *Error {
	return m.subscribe(ctx, queue, failure.Requeue, resolve)
}

func (m *Manager) subscribe(ctx context.Context, queue string, onBadPayload failure.Disposition, resolve Resolver) *Error {
	return m.broker.Subscribe(ctx, queue, func(body []byte) failure.Disposition {
		t, derr := task.Deserialize(body)
		if derr != nil {
			return onBadPayload
		}
		return resolve(t)
	})
}

// Submit publishes each task to the fan-out exchange. Partial progress is
// acceptable; Submit returns as soon as any publish fails, and the caller
// treats that as Requeue of the task that was being resolved.
func (m *Manager) Submit(ctx context.Context, tasks []task.Task) *Error {
	for _, t := range tasks {
		if err := m.broker.Publish(ctx, t.Serialize()); err != nil {
			return &Error{Message: err.Error(), Cause: ErrCausePublishFailed}
		}
	}
	return nil
}

// Publish sends body to the fan-out exchange, satisfying archive.Publisher
// so a BrokerForwardSink can forward archived data items through the same
// connection the pipeline already holds.
func (m *Manager) Publish(ctx context.Context, body []byte) error {
	return m.broker.Publish(ctx, body)
}

// CullKnown queries the store for every task's key in a single pipelined
// round-trip and returns the subset not currently known, preserving the
// input order.
func (m *Manager) CullKnown(ctx context.Context, tasks []task.Task) ([]task.Task, *Error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	byKey := make(map[string]task.Task, len(tasks))
	keys := make([]string, len(tasks))
	for i, t := range tasks {
		key := t.Key()
		keys[i] = key
		byKey[key] = t
	}

	unseenKeys, err := m.store.CullKnown(ctx, keys)
	if err != nil {
		return nil, err
	}

	unseen := make([]task.Task, 0, len(unseenKeys))
	for _, key := range unseenKeys {
		unseen = append(unseen, byKey[key])
	}
	return unseen, nil
}

// MarkKnown inserts a task's key into the seen set, used by the Proxy's
// collection consumer rather than by the Worker's cull step.
func (m *Manager) MarkKnown(ctx context.Context, t task.Task) *Error {
	return m.store.Add(ctx, t.Key())
}

// CollectionQueue returns the queue name the Proxy subscribes to.
func (m *Manager) CollectionQueue() string {
	return m.collectionQueue
}

// FrontierQueue returns the queue name the Worker subscribes to.
func (m *Manager) FrontierQueue() string {
	return m.frontierQueue
}

// Close releases the broker channel/connection and the store connection.
// Idempotent.
func (m *Manager) Close() error {
	var firstErr error
	if err := m.broker.Close(); err != nil {
		firstErr = err
	}
	if err := m.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
