package itinerary

import (
	"context"
	"time"

	pkgctx "github.com/baechuer/real-time-ressys/services/itinerary-service/internal/pkg/context"
)

const (
	EventVersion  = 1
	EventProducer = "itinerary-service"

	RoutingKeyItineraryBuilt = "itinerary.built"
)

// DomainEventEnvelope is the stable contract for domain events emitted by
// itinerary-service.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// ID lets publishers use the envelope's message id for deduplication.
func (e DomainEventEnvelope[T]) ID() string { return e.MessageID }

// ItineraryBuiltPayload is the business payload for routing key: itinerary.built
type ItineraryBuiltPayload struct {
	ItineraryID  string `json:"itinerary_id"`
	Place        string `json:"place"`
	EventName    string `json:"event_name,omitempty"`
	EventDate    string `json:"event_date,omitempty"`
	Days         int    `json:"days"`
	BudgetLevel  string `json:"budget_level"`
	GroupSize    int    `json:"group_size"`
	BudgetSource string `json:"budget_source"`
	Warnings     int    `json:"warnings"`
}

// TraceIDFromContext reads request_id if available.
func TraceIDFromContext(ctx context.Context) string {
	return pkgctx.GetRequestID(ctx)
}
