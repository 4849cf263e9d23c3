package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "cyberquest.events"

// Reconnect backoff bounds.
const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

// ErrNotConnected is returned by Publish while the broker connection is
// being re-established.
var ErrNotConnected = errors.New("amqp publisher not connected")

// AMQPPublisher publishes JSON events to a durable topic exchange, routed
// by event type. A lost connection or channel is re-dialed in the
// background with exponential backoff.
type AMQPPublisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
	done    chan struct{}
}

// NewAMQPPublisher connects to url and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := newAMQPPublisher(url, exchange)
	if err := p.connect(); err != nil {
		return nil, err
	}
	log.Printf("publishing events to amqp exchange %s", p.exchange)
	return p, nil
}

func newAMQPPublisher(url, exchange string) *AMQPPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPPublisher{url: url, exchange: exchange, done: make(chan struct{})}
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chanClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		ch.Close()
		conn.Close()
		return ErrNotConnected
	}
	p.conn, p.channel = conn, ch
	p.mu.Unlock()

	go p.watch(conn, connClosed, chanClosed)
	return nil
}

// watch waits for conn or its channel to close and reconnects unless the
// publisher itself was closed.
func (p *AMQPPublisher) watch(conn *amqp.Connection, connClosed, chanClosed <-chan *amqp.Error) {
	var reason *amqp.Error
	select {
	case reason = <-connClosed:
	case reason = <-chanClosed:
	case <-p.done:
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.conn, p.channel = nil, nil
	p.mu.Unlock()
	conn.Close()

	log.Printf("amqp connection lost: %v, reconnecting", reason)
	p.reconnect()
}

func (p *AMQPPublisher) reconnect() {
	delay := minReconnectDelay
	for {
		select {
		case <-p.done:
			return
		case <-time.After(delay):
		}
		err := p.connect()
		if err == nil {
			log.Printf("reconnected to amqp exchange %s", p.exchange)
			return
		}
		if errors.Is(err, ErrNotConnected) {
			return
		}
		log.Printf("amqp reconnect: %v", err)
		delay = nextReconnectDelay(delay)
	}
}

func nextReconnectDelay(d time.Duration) time.Duration {
	return min(2*d, maxReconnectDelay)
}

// Publish sends e with its type as the routing key. It fails fast with
// ErrNotConnected while a reconnect is pending.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return ErrNotConnected
	}
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		e.Type, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.ID,
			Timestamp:    e.OccurredAt,
			Type:         e.Type,
			Body:         body,
		},
	)
}

// Close stops reconnecting and closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.conn, p.channel = nil, nil
	return firstErr
}

// Connect returns an AMQP publisher for url, or a NopPublisher when url
// is empty.
func Connect(url, exchange string) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	return NewAMQPPublisher(url, exchange)
}
