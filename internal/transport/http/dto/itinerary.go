package dto

import (
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/itinerary"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

// CreateItineraryReq is the inbound build request. A trip is anchored on a
// catalog event (eventId), on an event given field by field (eventName and
// eventDate), or on a plain destination (location).
type CreateItineraryReq struct {
	Location string `json:"location" validate:"omitempty,max=120"`

	EventID     string `json:"eventId" validate:"omitempty,max=100"`
	CityID      string `json:"cityId" validate:"omitempty,max=100"`
	SessionID   string `json:"sessionId" validate:"omitempty,max=100"`
	SelectionID string `json:"selectionId" validate:"omitempty,max=100"`

	EventName    string `json:"eventName" validate:"omitempty,max=200"`
	EventDate    string `json:"eventDate" validate:"omitempty,date"`
	EventTime    string `json:"eventTime" validate:"omitempty,datetime=15:04"`
	EventVenue   string `json:"eventVenue" validate:"omitempty,max=200"`
	EventCity    string `json:"eventCity" validate:"omitempty,max=120"`
	EventCountry string `json:"eventCountry" validate:"omitempty,max=120"`
	EventType    string `json:"eventType" validate:"omitempty,oneof=sports music festivals"`
	TicketURL    string `json:"ticketUrl" validate:"omitempty,url"`

	Days      int    `json:"days" validate:"min=1,max=30"`
	Budget    string `json:"budget" validate:"required,budget_tier"`
	GroupSize *int   `json:"groupSize" validate:"omitempty,min=1,max=50"`
	GroupType string `json:"groupType" validate:"omitempty,oneof=solo couple family group"`
	StartDate string `json:"startDate" validate:"omitempty,date"`
	EndDate   string `json:"endDate" validate:"omitempty,date"`
	Currency  string `json:"currency" validate:"omitempty,len=3,alpha"`

	Optimize bool     `json:"optimize"`
	Team     string   `json:"team" validate:"omitempty,max=120"`
	MatchIDs []string `json:"matchIds" validate:"omitempty,max=20,dive,max=50"`
}

// ToPlanInput maps a validated request to the application input.
func (r CreateItineraryReq) ToPlanInput() itinerary.PlanInput {
	level, _ := domain.ParseBudgetLevel(r.Budget)
	groupSize := 1
	if r.GroupSize != nil {
		groupSize = *r.GroupSize
	}

	in := itinerary.PlanInput{
		EventID:     strings.TrimSpace(r.EventID),
		CityID:      strings.TrimSpace(r.CityID),
		SessionID:   strings.TrimSpace(r.SessionID),
		SelectionID: strings.TrimSpace(r.SelectionID),
		Trip: domain.ItineraryRequest{
			Destination: strings.TrimSpace(r.Location),
			Days:        r.Days,
			BudgetLevel: level,
			GroupSize:   groupSize,
			GroupType:   domain.GroupType(r.GroupType),
			StartDate:   datePtr(r.StartDate),
			EndDate:     datePtr(r.EndDate),
			Currency:    strings.ToUpper(r.Currency),
			Optimize:    r.Optimize,
			Team:        strings.TrimSpace(r.Team),
			MatchIDs:    r.MatchIDs,
		},
	}

	if in.EventID == "" && (strings.TrimSpace(r.EventName) != "" || r.EventDate != "") {
		occ := &domain.ResolvedOccurrence{
			EventName: strings.TrimSpace(r.EventName),
			Venue:     strings.TrimSpace(r.EventVenue),
			City:      firstNonEmpty(strings.TrimSpace(r.EventCity), in.Trip.Destination),
			Country:   strings.TrimSpace(r.EventCountry),
			EventType: domain.EventType(r.EventType),
			TicketURL: r.TicketURL,
			StartTime: r.EventTime,
		}
		if d := datePtr(r.EventDate); d != nil {
			occ.EventDate = *d
		}
		in.Occurrence = occ
	}
	return in
}

// ItineraryResp is the body of a successful build or detail read.
type ItineraryResp struct {
	Intent      string                `json:"intent"`
	ItineraryID string                `json:"itinerary_id"`
	CreatedAt   *time.Time            `json:"created_at,omitempty"`
	Itinerary   *domain.ItineraryData `json:"itinerary"`
}

func ToItineraryResp(rec *itinerary.Record) ItineraryResp {
	created := rec.CreatedAt
	return ItineraryResp{
		Intent:      itinerary.IntentItinerary,
		ItineraryID: rec.ID,
		CreatedAt:   &created,
		Itinerary:   &rec.Itinerary,
	}
}

func datePtr(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
