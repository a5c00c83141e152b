// Package resolver turns a catalog event into one concrete occurrence. Multi-city
// events need a (city, session) choice; the resolver holds no state between
// calls, so the caller carries the pending selection.
package resolver

import (
	"sort"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

type State string

const (
	StateAwaitingSelection State = "AWAITING_SELECTION"
	StateResolved          State = "RESOLVED"
)

const IntentCitySelection = "city_selection_required"

type SessionOption struct {
	SessionID   string `json:"session_id"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Round       string `json:"round,omitempty"`
	Description string `json:"description,omitempty"`
}

type CityOption struct {
	CityID   string          `json:"city_id"`
	Name     string          `json:"name"`
	Country  string          `json:"country"`
	IATACode string          `json:"iata_code,omitempty"`
	Sessions []SessionOption `json:"sessions"`
}

// CitySelection is the payload returned while a multi-city event awaits a choice.
type CitySelection struct {
	Intent      string       `json:"intent"`
	SelectionID string       `json:"selection_id,omitempty"`
	EventID     string       `json:"event_id"`
	EventName   string       `json:"event_name"`
	Cities      []CityOption `json:"cities"`
}

type Result struct {
	State      State
	Occurrence *domain.ResolvedOccurrence
	Selection  *CitySelection
}

// Options lists, per city in catalog order, the sessions held there sorted by
// date, then time, then id. Cities without sessions are left out since they
// cannot be selected.
func Options(e domain.UniversalEvent) *CitySelection {
	byCity := make(map[string][]domain.Session, len(e.Cities))
	for _, s := range e.Sessions {
		byCity[s.CityID] = append(byCity[s.CityID], s)
	}

	sel := &CitySelection{
		Intent:    IntentCitySelection,
		EventID:   e.ID,
		EventName: e.Name,
		Cities:    []CityOption{},
	}
	for _, c := range e.Cities {
		sessions := byCity[c.ID]
		if len(sessions) == 0 {
			continue
		}
		sortSessions(sessions)

		opt := CityOption{
			CityID:   c.ID,
			Name:     c.Name,
			Country:  c.Country,
			IATACode: c.IATACode,
			Sessions: make([]SessionOption, 0, len(sessions)),
		}
		for _, s := range sessions {
			opt.Sessions = append(opt.Sessions, SessionOption{
				SessionID:   s.ID,
				Date:        domain.FormatDate(s.Date),
				Time:        s.Time,
				Round:       s.Round,
				Description: s.Description,
			})
		}
		sel.Cities = append(sel.Cities, opt)
	}
	return sel
}

// Awaiting is the entry state of a multi-city interaction.
func Awaiting(e domain.UniversalEvent) Result {
	return Result{State: StateAwaitingSelection, Selection: Options(e)}
}

// Resolve validates a (city, session) choice against the event. On an invalid
// choice the returned result stays in AWAITING_SELECTION with the options
// attached, alongside an invalid_selection error.
func Resolve(e domain.UniversalEvent, cityID, sessionID string) (Result, error) {
	s, ok := e.Session(sessionID)
	if !ok {
		return Awaiting(e), domain.ErrInvalidSelection("session not found in event", map[string]string{
			"event_id": e.ID, "session_id": sessionID,
		})
	}
	c, ok := e.City(cityID)
	if !ok {
		return Awaiting(e), domain.ErrInvalidSelection("city not found in event", map[string]string{
			"event_id": e.ID, "city_id": cityID,
		})
	}
	if s.CityID != c.ID {
		return Awaiting(e), domain.ErrInvalidSelection("session does not take place in the selected city", map[string]string{
			"event_id": e.ID, "city_id": cityID, "session_id": sessionID,
		})
	}

	v, _ := e.Venue(s.VenueID)
	occ := occurrence(e, s.Date, v, c)
	occ.StartTime = s.Time
	occ.Round = s.Round
	occ.Description = s.Description
	return Result{State: StateResolved, Occurrence: &occ}, nil
}

// Direct builds the occurrence of a single-city event from what is on file:
// its earliest session, or the start date at the first venue when the event
// lists no sessions.
func Direct(e domain.UniversalEvent) domain.ResolvedOccurrence {
	if len(e.Sessions) > 0 {
		sessions := append([]domain.Session(nil), e.Sessions...)
		sortSessions(sessions)
		s := sessions[0]

		v, _ := e.Venue(s.VenueID)
		c, _ := e.City(s.CityID)
		occ := occurrence(e, s.Date, v, c)
		occ.StartTime = s.Time
		occ.Round = s.Round
		occ.Description = s.Description
		return occ
	}

	var v domain.Venue
	var c domain.EventCity
	if len(e.Venues) > 0 {
		v = e.Venues[0]
		c, _ = e.City(v.CityID)
	} else if len(e.Cities) > 0 {
		c = e.Cities[0]
	}
	return occurrence(e, e.StartDate, v, c)
}

func occurrence(e domain.UniversalEvent, date time.Time, v domain.Venue, c domain.EventCity) domain.ResolvedOccurrence {
	return domain.ResolvedOccurrence{
		EventName:          e.Name,
		EventDate:          domain.Day(date),
		Venue:              v.Name,
		City:               c.Name,
		Country:            c.Country,
		EventType:          domain.EventTypeFor(e.Category),
		TicketURL:          e.TicketURL,
		IATACode:           c.IATACode,
		VenueCapacity:      v.Capacity,
		HotelMultiplier:    e.Pricing.DemandMultiplier,
		AdvanceBookingDays: e.Pricing.AdvanceBookingDays,
	}
}

func sortSessions(ss []domain.Session) {
	sort.SliceStable(ss, func(i, j int) bool {
		a, b := ss[i], ss[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
}
