// Package rabbitmq publishes ledger events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finn_ledger/internal/core/ports/repositories"
	"github.com/rabbitmq/amqp091-go"
)

// EventProducer holds the RabbitMQ connection and channel for publishing messages.
type EventProducer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *slog.Logger
}

// NewEventProducer dials RabbitMQ and declares the exchange.
func NewEventProducer(amqpURL, exchange string, logger *slog.Logger) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Use a bounded dial timeout so startup does not hang indefinitely
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	p := &EventProducer{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger.With(slog.String("component", "rabbitmq_producer")),
	}
	if err := p.declareExchange(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// PublishTransactionApplied publishes a TransactionAppliedEvent keyed by RoutingKeyTransactionApplied.
func (p *EventProducer) PublishTransactionApplied(ctx context.Context, txn domain.Transaction) error {
	event, err := newTransactionAppliedEvent(txn, time.Now())
	if err != nil {
		return err
	}
	return p.Publish(ctx, RoutingKeyTransactionApplied, event)
}

// Publish sends body as JSON to the producer's exchange.
// A failed publish reopens the channel and is tried once more.
func (p *EventProducer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         jsonBody,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	p.logger.WarnContext(ctx, "publish failed; reopening channel",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", routingKey),
		slog.String("error", err.Error()))

	if reopenErr := p.reopenChannel(); reopenErr != nil {
		return errors.Join(err, reopenErr)
	}
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *EventProducer) declareExchange() error {
	if err := p.channel.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	return nil
}

func (p *EventProducer) reopenChannel() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	if p.channel != nil {
		p.channel.Close()
	}
	p.channel = ch
	return p.declareExchange()
}

// EventProducerFallback logs and drops events. It is used when RabbitMQ is not configured or unreachable at startup.
type EventProducerFallback struct {
	logger *slog.Logger
}

// NewEventProducerFallback creates a fallback publisher.
func NewEventProducerFallback(logger *slog.Logger) *EventProducerFallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventProducerFallback{logger: logger.With(slog.String("component", "rabbitmq_producer"), slog.String("mode", "fallback"))}
}

func (p *EventProducerFallback) PublishTransactionApplied(ctx context.Context, txn domain.Transaction) error {
	p.logger.DebugContext(ctx, "transaction event publish skipped",
		slog.String("routing_key", RoutingKeyTransactionApplied),
		slog.String("transaction_id", txn.TransactionID))
	return nil
}

func (p *EventProducerFallback) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	// Stray characters before the scheme are dropped
	idx := strings.Index(strings.ToLower(clean), "amqp")
	if idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

var (
	_ portsrepo.EventPublisher = (*EventProducer)(nil)
	_ portsrepo.EventPublisher = (*EventProducerFallback)(nil)
)
