package dto

import (
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

type CityResp struct {
	CityID    string  `json:"city_id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	IATACode  string  `json:"iata_code,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type VenueResp struct {
	VenueID  string `json:"venue_id"`
	Name     string `json:"name"`
	CityID   string `json:"city_id"`
	Capacity int    `json:"capacity"`
	Address  string `json:"address,omitempty"`
}

type SessionResp struct {
	SessionID   string `json:"session_id"`
	VenueID     string `json:"venue_id"`
	CityID      string `json:"city_id"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Round       string `json:"round,omitempty"`
	Description string `json:"description,omitempty"`
}

// EventResp is the stable API model of a catalog event.
type EventResp struct {
	EventID   string        `json:"event_id"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	EventType string        `json:"event_type,omitempty"`
	MultiCity bool          `json:"multi_city"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	TicketURL string        `json:"ticket_url,omitempty"`
	Currency  string        `json:"currency,omitempty"`
	Cities    []CityResp    `json:"cities"`
	Venues    []VenueResp   `json:"venues"`
	Sessions  []SessionResp `json:"sessions"`
}

type ListResp[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func ToEventResp(e domain.UniversalEvent) EventResp {
	out := EventResp{
		EventID:   e.ID,
		Name:      e.Name,
		Category:  string(e.Category),
		EventType: string(domain.EventTypeFor(e.Category)),
		MultiCity: e.MultiCity,
		StartDate: domain.FormatDate(e.StartDate),
		EndDate:   domain.FormatDate(e.EndDate),
		TicketURL: e.TicketURL,
		Currency:  e.Pricing.Currency,
		Cities:    make([]CityResp, 0, len(e.Cities)),
		Venues:    make([]VenueResp, 0, len(e.Venues)),
		Sessions:  make([]SessionResp, 0, len(e.Sessions)),
	}
	for _, c := range e.Cities {
		out.Cities = append(out.Cities, CityResp{
			CityID: c.ID, Name: c.Name, Country: c.Country, IATACode: c.IATACode,
			Timezone: c.Timezone, Latitude: c.Latitude, Longitude: c.Longitude,
		})
	}
	for _, v := range e.Venues {
		out.Venues = append(out.Venues, VenueResp{
			VenueID: v.ID, Name: v.Name, CityID: v.CityID, Capacity: v.Capacity, Address: v.Address,
		})
	}
	for _, s := range e.Sessions {
		out.Sessions = append(out.Sessions, SessionResp{
			SessionID: s.ID, VenueID: s.VenueID, CityID: s.CityID, Date: domain.FormatDate(s.Date),
			Time: s.Time, Round: s.Round, Description: s.Description,
		})
	}
	return out
}

func ToEventList(events []domain.UniversalEvent) ListResp[EventResp] {
	items := make([]EventResp, 0, len(events))
	for _, e := range events {
		items = append(items, ToEventResp(e))
	}
	return ListResp[EventResp]{Items: items, Total: len(items)}
}
