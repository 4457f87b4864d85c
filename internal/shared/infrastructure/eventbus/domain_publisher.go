package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/shared/domain"
	"github.com/sony/gobreaker/v2"
)

// Envelope is the wire format for domain events.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	RoutingKey    string          `json:"routing_key"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Metadata      json.RawMessage `json:"metadata"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event for publishing.
func NewEnvelope(event domain.DomainEvent) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, err
	}

	return &Envelope{
		EventID:       event.EventID(),
		RoutingKey:    event.RoutingKey(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt(),
		Metadata:      metadata,
		Payload:       payload,
	}, nil
}

// BreakerConfig configures the publish circuit breaker.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns the default publish breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

// DomainEventPublisher publishes committed domain events on a best-effort
// basis. Failures are logged and never returned to the caller; a circuit
// breaker stops calling an unavailable broker.
type DomainEventPublisher struct {
	publisher Publisher
	breaker   *gobreaker.CircuitBreaker[any]
	logger    *slog.Logger
}

// NewDomainEventPublisher creates a new domain event publisher.
func NewDomainEventPublisher(publisher Publisher, cfg BreakerConfig, logger *slog.Logger) *DomainEventPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &DomainEventPublisher{
		publisher: publisher,
		breaker:   breaker,
		logger:    logger,
	}
}

// PublishAll publishes each event and returns how many were delivered.
func (p *DomainEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) int {
	published := 0
	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "failed to publish domain event",
				"routing_key", event.RoutingKey(),
				"event_id", event.EventID(),
				"error", err,
			)
			continue
		}
		published++
	}
	return published
}

func (p *DomainEventPublisher) publish(ctx context.Context, event domain.DomainEvent) error {
	envelope, err := NewEnvelope(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(ctx, event.RoutingKey(), body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("event broker unavailable: %w", err)
	}
	return err
}
