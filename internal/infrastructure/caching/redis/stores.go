package redis

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/itinerary"
)

const (
	selectionPrefix = "itinerary:selection:"
	recordPrefix    = "itinerary:record:"
)

type pendingSelection struct {
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SelectionStore keeps pending city selections until they are resolved or expire.
type SelectionStore struct {
	c *Client
}

func NewSelectionStore(c *Client) *SelectionStore { return &SelectionStore{c: c} }

func (s *SelectionStore) PutSelection(ctx context.Context, selectionID, eventID string, ttl time.Duration) error {
	return s.c.Set(ctx, selectionPrefix+selectionID, pendingSelection{
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}, ttl)
}

func (s *SelectionStore) GetSelection(ctx context.Context, selectionID string) (string, bool, error) {
	var p pendingSelection
	found, err := s.c.Get(ctx, selectionPrefix+selectionID, &p)
	if err != nil || !found {
		return "", false, err
	}
	return p.EventID, true, nil
}

func (s *SelectionStore) DeleteSelection(ctx context.Context, selectionID string) error {
	return s.c.Delete(ctx, selectionPrefix+selectionID)
}

// ItineraryStore holds built itineraries for the detail view and calendar export.
type ItineraryStore struct {
	c *Client
}

func NewItineraryStore(c *Client) *ItineraryStore { return &ItineraryStore{c: c} }

func (s *ItineraryStore) SaveItinerary(ctx context.Context, rec *itinerary.Record, ttl time.Duration) error {
	return s.c.Set(ctx, recordPrefix+rec.ID, rec, ttl)
}

func (s *ItineraryStore) GetItinerary(ctx context.Context, id string) (*itinerary.Record, bool, error) {
	var rec itinerary.Record
	found, err := s.c.Get(ctx, recordPrefix+id, &rec)
	if err != nil || !found {
		return nil, false, err
	}
	return &rec, true, nil
}
