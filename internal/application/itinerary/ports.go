package itinerary

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/budget"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type EventRegistry interface {
	Get(ctx context.Context, id string) (domain.UniversalEvent, error)
}

// ContentGenerator returns the raw structured text for one brief. It is
// called at most once per build.
type ContentGenerator interface {
	Generate(ctx context.Context, b Brief) (string, error)
}

// PricingEstimator returns an authoritative breakdown, or nil when it has
// nothing to offer.
type PricingEstimator interface {
	Estimate(ctx context.Context, q budget.Query) (*domain.PriceBreakdown, error)
}

// SelectionStore keeps pending city selections keyed by selection_id.
type SelectionStore interface {
	PutSelection(ctx context.Context, selectionID, eventID string, ttl time.Duration) error
	GetSelection(ctx context.Context, selectionID string) (eventID string, found bool, err error)
	DeleteSelection(ctx context.Context, selectionID string) error
}

// ItineraryStore is the handoff store between a build and later reads
// (detail view, calendar export).
type ItineraryStore interface {
	SaveItinerary(ctx context.Context, rec *Record, ttl time.Duration) error
	GetItinerary(ctx context.Context, id string) (*Record, bool, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}

// Metrics observes generation calls. Outcome is one of the Outcome* values.
type Metrics interface {
	ObserveGeneration(outcome string, d time.Duration)
}

const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeError       = "error"
	OutcomeUnparsable  = "unparsable"
	OutcomeDayMismatch = "day_mismatch"
)
