package registry

import "github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"

// EventSource is the read-only catalog the registry queries.
type EventSource interface {
	Get(id string) (domain.UniversalEvent, bool)
	Each(fn func(e *domain.UniversalEvent) bool)
}
