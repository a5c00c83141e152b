package domain

import (
	"encoding/json"
	"fmt"
)

// ItineraryData is the fully populated output of one itinerary build.
type ItineraryData struct {
	Overview       string          `json:"overview"`
	TripSummary    TripSummary     `json:"tripSummary"`
	Budget         Budget          `json:"budget"`
	Days           []DayPlan       `json:"days"`
	Accommodations []Accommodation `json:"accommodations"`
	Flights        []Flight        `json:"flights"`
	LocalTips      LocalTips       `json:"localTips"`
	EventAnchor    *EventAnchor    `json:"eventAnchor,omitempty"`

	RequestedDays int       `json:"requestedDays"`
	GeneratedDays int       `json:"generatedDays"`
	Warnings      []Warning `json:"warnings"`
}

// EventDays counts the days flagged as the event day.
func (d *ItineraryData) EventDays() int {
	n := 0
	for _, day := range d.Days {
		if day.IsEventDay {
			n++
		}
	}
	return n
}

func (d *ItineraryData) HasWarning(code WarningCode) bool {
	for _, w := range d.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

type TripSummary struct {
	TotalDays  int      `json:"totalDays"`
	Cities     []string `json:"cities"`
	Venues     []string `json:"venues"`
	Highlights []string `json:"highlights"`
}

type BudgetSource string

const (
	BudgetAuthoritative BudgetSource = "authoritative"
	BudgetGenerated     BudgetSource = "generated"
)

// Budget holds display-formatted amounts. Missing values are "N/A", never zero.
type Budget struct {
	TotalBudget  string          `json:"totalBudget"`
	Breakdown    BudgetBreakdown `json:"breakdown"`
	DailyAverage string          `json:"dailyAverage"`
	EventDayCost string          `json:"eventDayCost"`
	Currency     string          `json:"currency,omitempty"`
	Source       BudgetSource    `json:"source"`
}

type BudgetBreakdown struct {
	Accommodation string `json:"accommodation"`
	Transport     string `json:"transport"`
	Food          string `json:"food"`
	Event         string `json:"event"`
	Activities    string `json:"activities"`
}

// PriceBreakdown is an authoritative breakdown from a pricing collaborator.
type PriceBreakdown struct {
	Accommodation float64 `json:"accommodation"`
	Transport     float64 `json:"transport"`
	Food          float64 `json:"food"`
	EventTickets  float64 `json:"event_tickets"`
	Activities    float64 `json:"activities"`
	Total         float64 `json:"total"`
	PerDayAverage float64 `json:"per_day_average"`
	Currency      string  `json:"currency"`
}

func (p PriceBreakdown) CategorySum() float64 {
	return p.Accommodation + p.Transport + p.Food + p.EventTickets + p.Activities
}

type Accommodation struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Area          string `json:"area"`
	PricePerNight string `json:"pricePerNight"`
	Notes         string `json:"notes"`
}

type Flight struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Date          string `json:"date"`
	EstimatedCost string `json:"estimatedCost"`
	Notes         string `json:"notes"`
}

type LocalTips struct {
	Transport []string `json:"transport"`
	Customs   []string `json:"customs"`
	Safety    []string `json:"safety"`
	EventTips []string `json:"eventTips"`
}

type EventAnchor struct {
	EventName string    `json:"eventName"`
	EventDate string    `json:"eventDate"`
	Venue     string    `json:"venue"`
	EventType EventType `json:"eventType,omitempty"`
}

type WarningCode string

const (
	WarnDayCountMismatch   WarningCode = "day_count_mismatch"
	WarnFieldBackfilled    WarningCode = "field_backfilled"
	WarnEventOutsideWindow WarningCode = "event_outside_window"
	WarnPricingUnavailable WarningCode = "pricing_unavailable"
)

// Warning reports partial content; the build still succeeded.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

type Meal struct {
	Meal       string `json:"meal"`
	Suggestion string `json:"suggestion"`
	Cost       string `json:"cost"`
}

// DayPlan is one itinerary day. Morning, Afternoon and Evening are either a
// TimeBlock or, on the event day's designated slot, an EventBlock.
type DayPlan struct {
	Day            int      `json:"day"`
	Date           string   `json:"date"`
	City           string   `json:"city"`
	Theme          string   `json:"theme"`
	IsEventDay     bool     `json:"isEventDay"`
	Label          string   `json:"label"`
	Morning        Block    `json:"morning"`
	Afternoon      Block    `json:"afternoon"`
	Evening        Block    `json:"evening"`
	MealsAndDining []Meal   `json:"mealsAndDining"`
	Tips           []string `json:"tips"`
}

type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
)

func (d *DayPlan) Block(s Slot) Block {
	switch s {
	case SlotMorning:
		return d.Morning
	case SlotAfternoon:
		return d.Afternoon
	default:
		return d.Evening
	}
}

func (d *DayPlan) SetBlock(s Slot, b Block) {
	switch s {
	case SlotMorning:
		d.Morning = b
	case SlotAfternoon:
		d.Afternoon = b
	default:
		d.Evening = b
	}
}

func (d *DayPlan) UnmarshalJSON(b []byte) error {
	type alias DayPlan
	aux := struct {
		*alias
		Morning   json.RawMessage `json:"morning"`
		Afternoon json.RawMessage `json:"afternoon"`
		Evening   json.RawMessage `json:"evening"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	var err error
	if d.Morning, err = DecodeBlock(aux.Morning); err != nil {
		return fmt.Errorf("morning: %w", err)
	}
	if d.Afternoon, err = DecodeBlock(aux.Afternoon); err != nil {
		return fmt.Errorf("afternoon: %w", err)
	}
	if d.Evening, err = DecodeBlock(aux.Evening); err != nil {
		return fmt.Errorf("evening: %w", err)
	}
	return nil
}
