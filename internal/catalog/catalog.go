package catalog

import (
	"sort"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

// Catalog is the immutable set of UniversalEvent records. It is built once at
// startup; every accessor hands out copies.
type Catalog struct {
	events []domain.UniversalEvent
	byID   map[string]int
}

// New validates every event and builds the catalog. Events are kept in start
// date order (name breaks ties).
func New(events []domain.UniversalEvent) (*Catalog, error) {
	c := &Catalog{
		events: make([]domain.UniversalEvent, 0, len(events)),
		byID:   make(map[string]int, len(events)),
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, domain.ErrInvalidRequestMeta("duplicate event_id", map[string]string{"event_id": e.ID})
		}
		c.byID[e.ID] = -1
		c.events = append(c.events, e.Clone())
	}

	sort.SliceStable(c.events, func(i, j int) bool {
		a, b := c.events[i], c.events[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.Name < b.Name
	})
	for i, e := range c.events {
		c.byID[e.ID] = i
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.events) }

func (c *Catalog) Get(id string) (domain.UniversalEvent, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.UniversalEvent{}, false
	}
	return c.events[i].Clone(), true
}

// Each calls fn for every event in catalog order until fn returns false.
// fn receives a pointer into the catalog and must not modify it.
func (c *Catalog) Each(fn func(e *domain.UniversalEvent) bool) {
	for i := range c.events {
		if !fn(&c.events[i]) {
			return
		}
	}
}

func (c *Catalog) All() []domain.UniversalEvent {
	out := make([]domain.UniversalEvent, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Clone())
	}
	return out
}
