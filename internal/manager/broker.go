package manager

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/crawlfleet/crawlfleet/pkg/failure"
)

// BrokerConfig names everything the broker setup requires:
// a single fan-out exchange bound to both the frontier and the collection
// queue, with empty routing keys, so a publish to the exchange reaches
// both.
type BrokerConfig struct {
	URL             string
	Exchange        string
	FrontierQueue   string
	CollectionQueue string
	Prefetch        int
}

// Broker wraps one AMQP connection and channel: open connection+channel,
// declare both queues, declare the exchange, bind both queues with empty
// routing key, set prefetch. There is no reconnect loop here, a broker
// failure bubbles up and an external supervisor restarts the process.
type Broker struct {
	cfg  BrokerConfig
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialBroker opens the connection and performs the full broker setup.
func DialBroker(cfg BrokerConfig) (*Broker, *Error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}

	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}

	if _, err := ch.QueueDeclare(cfg.FrontierQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}
	if _, err := ch.QueueDeclare(cfg.CollectionQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}

	if err := ch.QueueBind(cfg.FrontierQueue, "", cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}
	if err := ch.QueueBind(cfg.CollectionQueue, "", cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}

	return &Broker{cfg: cfg, conn: conn, ch: ch}, nil
}

// Handler processes one delivery's body and returns the disposition to
// apply to it.
type Handler func(body []byte) failure.Disposition

// Subscribe consumes queue, applying handle to each delivery and acking,
// dropping, or requeuing per the returned Disposition. It blocks until ctx
// is cancelled or the delivery channel closes (broker failure).
func (b *Broker) Subscribe(ctx context.Context, queue string, handle Handler) *Error {
	deliveries, err := b.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return &Error{Message: err.Error(), Cause: ErrCauseBrokerUnreachable}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return &Error{Message: "delivery channel closed", Cause: ErrCauseBrokerUnreachable}
			}

			switch handle(delivery.Body) {
			case failure.Ack:
				delivery.Ack(false)
			case failure.Drop:
				delivery.Nack(false, false)
			case failure.Requeue:
				delivery.Nack(false, true)
			}
		}
	}
}

// Publish sends body to the fan-out exchange with an empty routing key, so
// it lands on both the frontier and collection queues.
func (b *Broker) Publish(ctx context.Context, body []byte) error {
	err := b.ch.PublishWithContext(ctx, b.cfg.Exchange, "", false, false, amqp.Publishing{
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the channel and connection. Idempotent: closing twice
// returns the underlying library's "channel/connection closed" error,
// which callers are expected to ignore on shutdown.
func (b *Broker) Close() error {
	var firstErr error
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
