// AngelaMos | 2026
// publisher.go

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits domain events. Implementations must be safe for concurrent
// use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close() error
}

// Envelope is the JSON body of every published message.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type channel interface {
	ExchangeDeclare(
		name, kind string,
		durable, autoDelete, internal, noWait bool,
		args amqp.Table,
	) error
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	Close() error
}

// AMQPPublisher publishes persistent JSON messages to a topic exchange. The
// channel is shared, so publishes are serialised by mu.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	now      func() time.Time
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	p, err := newPublisher(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newPublisher(ch channel, exchange string) (*AMQPPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		now:      time.Now,
	}, nil
}

func (p *AMQPPublisher) Publish(
	ctx context.Context,
	routingKey string,
	data any,
) error {
	env := Envelope{
		ID:         uuid.New().String(),
		Type:       routingKey,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.ID,
			Timestamp:    env.OccurredAt,
			Type:         routingKey,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if err := p.ch.Close(); err != nil {
		firstErr = fmt.Errorf("close amqp channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close amqp connection: %w", err)
		}
	}
	return firstErr
}

// Noop drops every event. It stands in when events are disabled.
type Noop struct{}

func (Noop) Publish(ctx context.Context, routingKey string, _ any) error {
	slog.DebugContext(ctx, "event dropped, publisher disabled", "type", routingKey)
	return nil
}

func (Noop) Close() error { return nil }

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = Noop{}
)
