// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/domain/event"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
	"github.com/mutugading/marketplace-backend/pkg/circuitbreaker"
)

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements event.Publisher on a RabbitMQ topic exchange. Each
// event is routed by its name. Calls are guarded by a circuit breaker so an
// unreachable broker does not slow down request handling.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	timeout  time.Duration
	breaker  *circuitbreaker.Breaker
}

var _ event.Publisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(cfg *config.EventsConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log.Info().Str("exchange", cfg.Exchange).Msg("RabbitMQ publisher initialized")

	p := newPublisher(ch, cfg)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, cfg *config.EventsConfig) *Publisher {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{
		ch:       ch,
		exchange: cfg.Exchange,
		timeout:  timeout,
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:      "rabbitmq",
			Threshold: cfg.BreakerThreshold,
			Cooldown:  cfg.BreakerCooldown,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
			},
		}),
	}
}

// Publish sends the event as persistent JSON.
func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", e.Name, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.OccurredAt,
		Type:         e.Name,
		Body:         body,
	}

	return p.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		if err := p.ch.PublishWithContext(ctx, p.exchange, e.Name, false, false, msg); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", e.Name, err)
		}
		return nil
	})
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close rabbitmq channel")
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
