// Package event defines the domain events published by the marketplace.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	ProviderVerified    = "provider.verified"
	ProviderDeactivated = "provider.deactivated"
	EvaluationCreated   = "evaluation.created"
)

// Event is a fact that already happened in the domain.
type Event struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	AggregateID uuid.UUID         `json:"aggregate_id"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// New creates an event for the aggregate.
func New(name string, aggregateID uuid.UUID, attrs map[string]string) Event {
	return Event{
		ID:          uuid.New(),
		Name:        name,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Attributes:  attrs,
	}
}

// Publisher delivers events to interested parties. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
