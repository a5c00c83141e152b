// Package calendar exports a built itinerary as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/itinerary"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

const (
	productID       = "-//itinerary-service//itinerary export//EN"
	uidDomain       = "itinerary-service"
	floatingLayout  = "20060102T150405"
	defaultDuration = 2 * time.Hour
)

// Encode renders one all-day entry per itinerary day and a timed entry for
// the event block. Event times are floating (venue local time).
func Encode(rec *itinerary.Record) string {
	data := rec.Itinerary

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calendarName(&data))

	for _, day := range data.Days {
		date, err := domain.ParseDate(day.Date)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s-day-%d@%s", rec.ID, day.Day, uidDomain))
		ev.SetDtStampTime(rec.CreatedAt)
		ev.SetAllDayStartAt(date)
		ev.SetAllDayEndAt(domain.AddDays(date, 1))
		ev.SetSummary(daySummary(day))
		if desc := dayDescription(day); desc != "" {
			ev.SetDescription(desc)
		}
		if day.City != "" {
			ev.SetLocation(day.City)
		}

		if slot, block, ok := eventBlock(day); ok {
			addEventEntry(cal, rec, day, date, slot, block)
		}
	}
	return cal.Serialize()
}

func addEventEntry(cal *ics.Calendar, rec *itinerary.Record, day domain.DayPlan, date time.Time, slot domain.Slot, b domain.EventBlock) {
	start, err := time.Parse("15:04", strings.TrimSpace(b.EventDetails.StartTime))
	if err != nil {
		return
	}
	startAt := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	d, err := time.ParseDuration(b.EventDetails.Duration)
	if err != nil || d <= 0 {
		d = defaultDuration
	}

	ev := cal.AddEvent(fmt.Sprintf("%s-event@%s", rec.ID, uidDomain))
	ev.SetDtStampTime(rec.CreatedAt)
	ev.SetProperty(ics.ComponentPropertyDtStart, startAt.Format(floatingLayout))
	ev.SetProperty(ics.ComponentPropertyDtEnd, startAt.Add(d).Format(floatingLayout))

	summary := b.Activities
	if rec.Itinerary.EventAnchor != nil && rec.Itinerary.EventAnchor.EventName != "" {
		summary = rec.Itinerary.EventAnchor.EventName
	}
	ev.SetSummary(summary)
	if b.Location != "" {
		ev.SetLocation(b.Location)
	}
	if b.EventDetails.TicketURL != "" {
		ev.SetProperty(ics.ComponentPropertyUrl, b.EventDetails.TicketURL)
	}
	if b.EventDetails.Doors != "" {
		ev.SetDescription(fmt.Sprintf("Doors %s, %s slot on day %d", b.EventDetails.Doors, slot, day.Day))
	}
}

func eventBlock(day domain.DayPlan) (domain.Slot, domain.EventBlock, bool) {
	for _, s := range []domain.Slot{domain.SlotMorning, domain.SlotAfternoon, domain.SlotEvening} {
		if b, ok := day.Block(s).(domain.EventBlock); ok {
			return s, b, true
		}
	}
	return "", domain.EventBlock{}, false
}

func daySummary(day domain.DayPlan) string {
	if day.Theme == "" {
		return fmt.Sprintf("Day %d", day.Day)
	}
	return fmt.Sprintf("Day %d: %s", day.Day, day.Theme)
}

func dayDescription(day domain.DayPlan) string {
	parts := []string{}
	if day.Label != "" {
		parts = append(parts, day.Label)
	}
	for _, s := range []domain.Slot{domain.SlotMorning, domain.SlotAfternoon, domain.SlotEvening} {
		b := day.Block(s)
		if b == nil {
			continue
		}
		if a := strings.TrimSpace(b.Common().Activities); a != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", s, a))
		}
	}
	return strings.Join(parts, " | ")
}

func calendarName(data *domain.ItineraryData) string {
	if data.EventAnchor != nil && data.EventAnchor.EventName != "" {
		return data.EventAnchor.EventName + " trip"
	}
	if len(data.Days) > 0 && data.Days[0].City != "" {
		return data.Days[0].City + " trip"
	}
	return "Itinerary"
}
