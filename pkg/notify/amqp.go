package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// connection is the part of *amqp.Connection the publisher uses.
type connection interface {
	Channel() (channel, error)
	IsClosed() bool
	Close() error
}

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAMQP(url string) (connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

// AMQPPublisher keeps one connection and channel open and publishes
// persistent JSON messages to a durable queue on the default exchange.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger
	dial  func(url string) (connection, error)

	mu   sync.Mutex
	conn connection
	ch   channel
}

func NewAMQPPublisher(url, queue string, log *zap.Logger) (*AMQPPublisher, error) {
	return newAMQPPublisher(url, queue, dialAMQP, log)
}

func newAMQPPublisher(url, queue string, dial func(string) (connection, error), log *zap.Logger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		url:   url,
		queue: queue,
		log:   log.With(zap.String("component", "notify")),
		dial:  dial,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}

	p.conn = conn
	if err := p.openChannel(); err != nil {
		_ = conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// openChannel opens a channel on the current connection and declares the
// queue on it.
func (p *AMQPPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := DeclareQueue(ch, p.queue); err != nil {
		_ = ch.Close()
		return err
	}

	p.ch = ch
	return nil
}

// ensure restores whichever of the connection or channel the broker closed.
func (p *AMQPPublisher) ensure() error {
	if p.conn == nil || p.conn.IsClosed() {
		return p.connect()
	}
	if p.ch == nil || p.ch.IsClosed() {
		return p.openChannel()
	}
	return nil
}

// queueDeclarer is satisfied by *amqp.Channel.
type queueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// DeclareQueue declares the durable notification queue. Publisher and
// consumer both call it so either may start first.
func DeclareQueue(ch queueDeclarer, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensure(); err != nil {
		p.log.Warn("Broker reconnect failed", zap.Error(err))
		return err
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(n.Kind),
		Body:         body,
	})
	if err != nil {
		p.log.Warn("Failed to publish notification",
			zap.Error(err),
			zap.String("kind", string(n.Kind)),
		)
		return fmt.Errorf("publish %s: %w", n.Kind, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
