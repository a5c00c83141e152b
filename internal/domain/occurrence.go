package domain

import "time"

type EventType string

const (
	EventTypeSports    EventType = "sports"
	EventTypeMusic     EventType = "music"
	EventTypeFestivals EventType = "festivals"
)

func (t EventType) Valid() bool {
	return t == "" || t == EventTypeSports || t == EventTypeMusic || t == EventTypeFestivals
}

// EventTypeFor maps a catalog category to the itinerary event type.
// Conferences and other categories have no itinerary event type.
func EventTypeFor(c Category) EventType {
	switch c {
	case CategorySports:
		return EventTypeSports
	case CategoryMusic:
		return EventTypeMusic
	case CategoryFestival:
		return EventTypeFestivals
	default:
		return ""
	}
}

// ResolvedOccurrence is one concrete instance of an event: one date, one
// venue, one city. It holds no reference back to the catalog.
type ResolvedOccurrence struct {
	EventName string    `json:"eventName"`
	EventDate time.Time `json:"eventDate"`
	Venue     string    `json:"venue"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	EventType EventType `json:"eventType,omitempty"`
	TicketURL string    `json:"ticketUrl,omitempty"`

	// Venue and session facts used to brief the content generator.
	StartTime          string  `json:"startTime,omitempty"`
	Round              string  `json:"round,omitempty"`
	Description        string  `json:"description,omitempty"`
	IATACode           string  `json:"iataCode,omitempty"`
	VenueCapacity      int     `json:"venueCapacity,omitempty"`
	HotelMultiplier    float64 `json:"hotelMultiplier,omitempty"`
	AdvanceBookingDays int     `json:"advanceBookingDays,omitempty"`
}
