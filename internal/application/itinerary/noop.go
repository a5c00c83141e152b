package itinerary

import (
	"context"
	"time"
)

type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(ctx context.Context, routingKey string, payload any) error {
	return nil
}

type NoopSelectionStore struct{}

func (NoopSelectionStore) PutSelection(ctx context.Context, selectionID, eventID string, ttl time.Duration) error {
	return nil
}

func (NoopSelectionStore) GetSelection(ctx context.Context, selectionID string) (string, bool, error) {
	return "", false, nil
}

func (NoopSelectionStore) DeleteSelection(ctx context.Context, selectionID string) error { return nil }

type NoopItineraryStore struct{}

func (NoopItineraryStore) SaveItinerary(ctx context.Context, rec *Record, ttl time.Duration) error {
	return nil
}

func (NoopItineraryStore) GetItinerary(ctx context.Context, id string) (*Record, bool, error) {
	return nil, false, nil
}

type NoopMetrics struct{}

func (NoopMetrics) ObserveGeneration(string, time.Duration) {}
