package domain

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategorySports     Category = "sports"
	CategoryMusic      Category = "music"
	CategoryFestival   Category = "festival"
	CategoryConference Category = "conference"
	CategoryOther      Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySports, CategoryMusic, CategoryFestival, CategoryConference, CategoryOther:
		return true
	}
	return false
}

// UniversalEvent is a catalog event owning its cities, venues and sessions.
// Catalog events are built once and never mutated at request time.
type UniversalEvent struct {
	ID        string
	Name      string
	Category  Category
	MultiCity bool
	Cities    []EventCity
	Venues    []Venue
	Sessions  []Session
	StartDate time.Time
	EndDate   time.Time
	TicketURL string
	Pricing   PricingHints
}

type EventCity struct {
	ID        string
	Name      string
	Country   string
	IATACode  string
	Timezone  string
	Latitude  float64
	Longitude float64
}

type Venue struct {
	ID       string
	Name     string
	CityID   string
	Capacity int
	Address  string
}

// Session is one concrete occurrence (a match or a show) of an event.
type Session struct {
	ID          string
	VenueID     string
	CityID      string
	Date        time.Time
	Time        string // HH:MM local, optional
	Round       string
	Description string
}

// PricingHints are per-event numbers used by the hints-based pricing estimator.
// Amounts are per person; BaseDailyBudget is per day.
type PricingHints struct {
	Currency           string
	DemandMultiplier   float64
	AdvanceBookingDays int
	BaseDailyBudget    map[BudgetLevel]float64
	TicketPrice        map[BudgetLevel]float64
}

func (e *UniversalEvent) City(id string) (EventCity, bool) {
	for _, c := range e.Cities {
		if c.ID == id {
			return c, true
		}
	}
	return EventCity{}, false
}

func (e *UniversalEvent) Venue(id string) (Venue, bool) {
	for _, v := range e.Venues {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

func (e *UniversalEvent) Session(id string) (Session, bool) {
	for _, s := range e.Sessions {
		if s.ID == id {
			return s, true
		}
	}
	return Session{}, false
}

// Validate checks the referential invariants between cities, venues and sessions.
func (e *UniversalEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrInvalidRequest("event_id is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrInvalidRequestMeta("event name is required", map[string]string{"event_id": e.ID})
	}
	if !e.Category.Valid() {
		return ErrInvalidRequestMeta("invalid category", map[string]string{"event_id": e.ID, "category": string(e.Category)})
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() || e.EndDate.Before(e.StartDate) {
		return ErrInvalidRequestMeta("end_date must not be before start_date", map[string]string{"event_id": e.ID})
	}

	cities := make(map[string]struct{}, len(e.Cities))
	for _, c := range e.Cities {
		if c.ID == "" {
			return ErrInvalidRequestMeta("city_id is required", map[string]string{"event_id": e.ID})
		}
		if _, dup := cities[c.ID]; dup {
			return ErrInvalidRequestMeta("duplicate city_id", map[string]string{"event_id": e.ID, "city_id": c.ID})
		}
		cities[c.ID] = struct{}{}
	}

	venueCity := make(map[string]string, len(e.Venues))
	for _, v := range e.Venues {
		if _, dup := venueCity[v.ID]; dup {
			return ErrInvalidRequestMeta("duplicate venue_id", map[string]string{"event_id": e.ID, "venue_id": v.ID})
		}
		if _, ok := cities[v.CityID]; !ok {
			return ErrInvalidRequestMeta("venue references unknown city", map[string]string{"event_id": e.ID, "venue_id": v.ID, "city_id": v.CityID})
		}
		venueCity[v.ID] = v.CityID
	}

	sessions := make(map[string]struct{}, len(e.Sessions))
	for _, s := range e.Sessions {
		if _, dup := sessions[s.ID]; dup {
			return ErrInvalidRequestMeta("duplicate session_id", map[string]string{"event_id": e.ID, "session_id": s.ID})
		}
		sessions[s.ID] = struct{}{}

		cityID, ok := venueCity[s.VenueID]
		if !ok {
			return ErrInvalidRequestMeta("session references unknown venue", map[string]string{"event_id": e.ID, "session_id": s.ID, "venue_id": s.VenueID})
		}
		if s.CityID != cityID {
			return ErrInvalidRequestMeta("session city does not match venue city", map[string]string{"event_id": e.ID, "session_id": s.ID})
		}
		if s.Date.Before(Day(e.StartDate)) || s.Date.After(Day(e.EndDate)) {
			return ErrInvalidRequestMeta("session date outside event dates", map[string]string{"event_id": e.ID, "session_id": s.ID, "date": FormatDate(s.Date)})
		}
	}

	if e.MultiCity && len(e.Cities) < 2 {
		return ErrInvalidRequestMeta(fmt.Sprintf("multi_city event needs at least 2 cities, has %d", len(e.Cities)), map[string]string{"event_id": e.ID})
	}
	return nil
}

// Clone returns a deep copy so catalog records can be handed out without sharing slices.
func (e UniversalEvent) Clone() UniversalEvent {
	out := e
	out.Cities = append([]EventCity(nil), e.Cities...)
	out.Venues = append([]Venue(nil), e.Venues...)
	out.Sessions = append([]Session(nil), e.Sessions...)
	out.Pricing.BaseDailyBudget = cloneLevels(e.Pricing.BaseDailyBudget)
	out.Pricing.TicketPrice = cloneLevels(e.Pricing.TicketPrice)
	return out
}

func cloneLevels(m map[BudgetLevel]float64) map[BudgetLevel]float64 {
	if m == nil {
		return nil
	}
	out := make(map[BudgetLevel]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
