package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/models"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox/payloads"
)

// Payload is implemented by every event body the publisher knows how to route.
type Payload interface {
	Validate(aggregateID uuid.UUID) error
	Attributes() map[string]string
}

// Route binds an event type to its aggregate, its topic and its payload shape.
type Route struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	Topic         string

	decode func(json.RawMessage) (Payload, error)
}

// Routed is an outbox row ready to be sent.
type Routed struct {
	Route    Route
	Envelope outbox.PayloadEnvelope
	Payload  Payload
}

// Attributes returns the Pub/Sub attributes for the routed event.
func (r Routed) Attributes(row models.OutboxEvent) map[string]string {
	attrs := map[string]string{
		"event_id":       r.Envelope.EventID,
		"event_type":     string(row.EventType),
		"aggregate_type": string(row.AggregateType),
		"aggregate_id":   row.AggregateID.String(),
	}
	for k, v := range r.Payload.Attributes() {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}

func route[T any, P interface {
	*T
	Payload
}](eventType enums.OutboxEventType, aggregate enums.OutboxAggregateType, topic string) Route {
	return Route{
		EventType:     eventType,
		AggregateType: aggregate,
		Topic:         topic,
		decode: func(raw json.RawMessage) (Payload, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return P(&v), nil
		},
	}
}

// Registry resolves outbox rows to their topic and typed payload.
type Registry struct {
	routes map[enums.OutboxEventType]Route
}

func New(cfg config.PubSubConfig) (*Registry, error) {
	if cfg.QuotesTopic == "" {
		return nil, errors.New("quotes topic is required")
	}
	return &Registry{routes: map[enums.OutboxEventType]Route{
		enums.EventQuoteRequested: route[payloads.QuoteRequestedEvent](
			enums.EventQuoteRequested, enums.AggregateQuoteRequest, cfg.QuotesTopic),
	}}, nil
}

// Resolve decodes and validates row. Every error it returns is permanent.
func (r *Registry) Resolve(row models.OutboxEvent) (*Routed, error) {
	rt, ok := r.routes[row.EventType]
	if !ok {
		return nil, Permanent(fmt.Errorf("unsupported event type %s", row.EventType))
	}
	if rt.AggregateType != row.AggregateType {
		return nil, Permanent(fmt.Errorf("aggregate mismatch: expected %s got %s", rt.AggregateType, row.AggregateType))
	}
	if row.AggregateID == uuid.Nil {
		return nil, Permanent(errors.New("missing aggregate_id"))
	}

	envelope, err := outbox.DecodeEnvelope(row.Payload)
	if err != nil {
		return nil, Permanent(fmt.Errorf("%s: %w", row.EventType, err))
	}
	payload, err := rt.decode(envelope.Data)
	if err != nil {
		return nil, Permanent(fmt.Errorf("decode %s payload: %w", row.EventType, err))
	}
	if err := payload.Validate(row.AggregateID); err != nil {
		return nil, Permanent(fmt.Errorf("invalid %s payload: %w", row.EventType, err))
	}
	return &Routed{Route: rt, Envelope: envelope, Payload: payload}, nil
}
