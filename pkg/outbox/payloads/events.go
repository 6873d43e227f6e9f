package payloads

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// QuoteRequestedEvent is published after a quote request has been stored.
type QuoteRequestedEvent struct {
	QuoteRequestID uuid.UUID          `json:"quote_request_id"`
	Reference      string             `json:"reference"`
	FullName       string             `json:"full_name"`
	Email          string             `json:"email"`
	ClientType     enums.ClientType   `json:"client_type"`
	Phone          string             `json:"phone,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	Items          []QuoteRequestItem `json:"items"`
	RequestedAt    time.Time          `json:"requested_at"`
}

// QuoteRequestItem is one requested service inside a QuoteRequestedEvent.
type QuoteRequestItem struct {
	ServiceCode string         `json:"service_code"`
	ServiceName string         `json:"service_name"`
	Category    enums.Category `json:"category"`
	Quantity    int            `json:"quantity"`
	Details     map[string]any `json:"details,omitempty"`
}

// Validate checks the payload against the outbox row that carries it.
func (e QuoteRequestedEvent) Validate(aggregateID uuid.UUID) error {
	switch {
	case e.QuoteRequestID != aggregateID:
		return fmt.Errorf("quote_request_id %s does not match aggregate %s", e.QuoteRequestID, aggregateID)
	case strings.TrimSpace(e.Reference) == "":
		return errors.New("reference is required")
	case len(e.Items) == 0:
		return errors.New("quote request has no items")
	}
	return nil
}

// Attributes are copied onto the Pub/Sub message for subscriber filtering.
func (e QuoteRequestedEvent) Attributes() map[string]string {
	return map[string]string{
		"reference":   e.Reference,
		"client_type": string(e.ClientType),
	}
}
