package registry

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

type Registry struct {
	events EventSource
}

func New(events EventSource) *Registry {
	return &Registry{events: events}
}

// Get returns a copy of the catalog event or a not_found error.
func (r *Registry) Get(_ context.Context, id string) (domain.UniversalEvent, error) {
	e, ok := r.events.Get(id)
	if !ok {
		return domain.UniversalEvent{}, domain.ErrNotFound("event not found")
	}
	return e, nil
}
