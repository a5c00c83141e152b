package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/phase"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

const doorsLead = 90 * time.Minute

// assemble turns generated content into a fully populated itinerary over the
// classified window. The budget is spliced in by the caller.
func assemble(g *generated, req domain.ItineraryRequest, sched phase.Schedule) domain.ItineraryData {
	place := req.Place()
	data := domain.ItineraryData{
		Overview:       g.Overview,
		Accommodations: g.Accommodations,
		Flights:        g.Flights,
		RequestedDays:  req.Days,
		GeneratedDays:  len(g.Days),
		Warnings:       []domain.Warning{},
	}

	data.Days = alignDays(g.Days, sched)
	if len(g.Days) != req.Days {
		data.Warnings = append(data.Warnings, domain.Warning{
			Code:    domain.WarnDayCountMismatch,
			Message: fmt.Sprintf("generated %d days, expected %d", len(g.Days), req.Days),
		})
	}

	eventSlot := domain.SlotEvening
	if req.Occurrence != nil {
		eventSlot = slotFor(req.Occurrence.StartTime)
	}
	for i := range data.Days {
		stampDay(&data.Days[i], sched.Days[i], place)
		normalizeBlocks(&data.Days[i])
		if i == sched.EventIndex && req.Occurrence != nil {
			placeEventBlock(&data.Days[i], eventSlot, req.Occurrence)
		}
	}
	if req.Occurrence != nil && !sched.EventInWindow() {
		data.Warnings = append(data.Warnings, domain.Warning{
			Code:    domain.WarnEventOutsideWindow,
			Message: "event date is outside the trip dates; no event day was scheduled",
		})
	}

	backfill(&data, g, req)

	if occ := req.Occurrence; occ != nil {
		data.EventAnchor = &domain.EventAnchor{
			EventName: occ.EventName,
			EventDate: domain.FormatDate(occ.EventDate),
			Venue:     occ.Venue,
			EventType: occ.EventType,
		}
	}
	return data
}

// alignDays maps generated days onto the window. When every generated day
// carries a distinct date inside the window the days are placed by date,
// otherwise by index. Extra days are dropped and gaps get placeholders.
func alignDays(gen []domain.DayPlan, sched phase.Schedule) []domain.DayPlan {
	n := len(sched.Days)
	out := make([]domain.DayPlan, n)
	filled := make([]bool, n)

	if idx, ok := indexByDate(gen, sched); ok {
		for gi, si := range idx {
			out[si], filled[si] = gen[gi], true
		}
	} else {
		for i := 0; i < n && i < len(gen); i++ {
			out[i], filled[i] = gen[i], true
		}
	}

	for i := range out {
		if !filled[i] {
			out[i] = placeholderDay()
		}
	}
	return out
}

// indexByDate returns the window index of every generated day. It fails when
// any day has no parseable date, a date outside the window, or a date already
// taken, so a generator that got the dates wrong keeps its days by index.
func indexByDate(gen []domain.DayPlan, sched phase.Schedule) ([]int, bool) {
	if len(gen) == 0 {
		return nil, false
	}
	idx := make([]int, len(gen))
	taken := map[int]bool{}
	for i, d := range gen {
		t, err := domain.ParseDate(d.Date)
		if err != nil {
			return nil, false
		}
		off := domain.DaysBetween(sched.Window.Start, t)
		if off < 0 || off >= len(sched.Days) || taken[off] {
			return nil, false
		}
		idx[i] = off
		taken[off] = true
	}
	return idx, true
}

func placeholderDay() domain.DayPlan {
	return domain.DayPlan{
		Theme:     "Free day",
		Morning:   domain.TimeBlock{BlockCommon: domain.BlockCommon{Time: "Morning", Activities: "Free time to explore at your own pace"}},
		Afternoon: domain.TimeBlock{BlockCommon: domain.BlockCommon{Time: "Afternoon", Activities: "Free time to explore at your own pace"}},
		Evening:   domain.TimeBlock{BlockCommon: domain.BlockCommon{Time: "Evening", Activities: "Dinner at a local restaurant"}},
	}
}

func stampDay(d *domain.DayPlan, p phase.DayPhase, place string) {
	d.Day = p.Day
	d.Date = domain.FormatDate(p.Date)
	d.Label = p.Label
	d.IsEventDay = p.IsEventDay
	if strings.TrimSpace(d.City) == "" {
		d.City = place
	}
	if strings.TrimSpace(d.Theme) == "" {
		d.Theme = "Explore " + place
	}
	if d.MealsAndDining == nil {
		d.MealsAndDining = []domain.Meal{}
	}
	if d.Tips == nil {
		d.Tips = []string{}
	}
}

// normalizeBlocks makes every slot a TimeBlock. Event blocks are only placed
// by placeEventBlock, whatever the generator claimed.
func normalizeBlocks(d *domain.DayPlan) {
	for _, s := range []domain.Slot{domain.SlotMorning, domain.SlotAfternoon, domain.SlotEvening} {
		switch b := d.Block(s).(type) {
		case nil:
			d.SetBlock(s, domain.TimeBlock{})
		case domain.EventBlock:
			d.SetBlock(s, domain.TimeBlock{BlockCommon: b.BlockCommon})
		}
	}
}

func placeEventBlock(d *domain.DayPlan, slot domain.Slot, occ *domain.ResolvedOccurrence) {
	common := d.Block(slot).Common()
	if strings.TrimSpace(common.Activities) == "" {
		common.Activities = "Attend " + occ.EventName
	}
	if occ.Venue != "" {
		common.Location = occ.Venue
	}
	if occ.StartTime != "" {
		common.Time = occ.StartTime
	}

	d.SetBlock(slot, domain.EventBlock{
		BlockCommon: common,
		EventDetails: domain.EventDetails{
			Doors:     doorsTime(occ.StartTime),
			StartTime: occ.StartTime,
			Duration:  durationFor(occ.EventType),
			TicketURL: occ.TicketURL,
		},
	})
	if d.Theme == "" || strings.HasPrefix(d.Theme, "Explore ") {
		d.Theme = occ.EventName
	}
}

// slotFor picks the slot of the event block from the HH:MM start time.
// Unknown times go to the evening.
func slotFor(startTime string) domain.Slot {
	t, err := time.Parse("15:04", strings.TrimSpace(startTime))
	if err != nil {
		return domain.SlotEvening
	}
	switch h := t.Hour(); {
	case h < 12:
		return domain.SlotMorning
	case h < 17:
		return domain.SlotAfternoon
	default:
		return domain.SlotEvening
	}
}

func doorsTime(startTime string) string {
	t, err := time.Parse("15:04", strings.TrimSpace(startTime))
	if err != nil {
		return ""
	}
	return t.Add(-doorsLead).Format("15:04")
}

func durationFor(t domain.EventType) string {
	switch t {
	case domain.EventTypeMusic:
		return "3h"
	case domain.EventTypeFestivals:
		return "6h"
	default:
		return "2h"
	}
}

// backfill gives every omitted top-level field its default and records a
// field_backfilled warning for each.
func backfill(data *domain.ItineraryData, g *generated, req domain.ItineraryRequest) {
	place := req.Place()
	filled := []string{}

	if strings.TrimSpace(data.Overview) == "" {
		data.Overview = "A " + strconv.Itoa(req.Days) + "-day trip to " + place + "."
		filled = append(filled, "overview")
	}

	if g.TripSummary != nil {
		data.TripSummary = *g.TripSummary
	} else {
		data.TripSummary = defaultSummary(req, place)
		filled = append(filled, "tripSummary")
	}
	data.TripSummary.TotalDays = len(data.Days)
	if data.TripSummary.Cities == nil {
		data.TripSummary.Cities = []string{}
	}
	if data.TripSummary.Venues == nil {
		data.TripSummary.Venues = []string{}
	}
	if data.TripSummary.Highlights == nil {
		data.TripSummary.Highlights = []string{}
	}

	if g.Budget == nil {
		filled = append(filled, "budget")
	}
	if data.Accommodations == nil {
		data.Accommodations = []domain.Accommodation{}
		filled = append(filled, "accommodations")
	}
	if data.Flights == nil {
		data.Flights = []domain.Flight{}
		filled = append(filled, "flights")
	}

	if g.LocalTips != nil {
		data.LocalTips = *g.LocalTips
	} else {
		filled = append(filled, "localTips")
	}
	data.LocalTips = fillTips(data.LocalTips)

	for _, f := range filled {
		data.Warnings = append(data.Warnings, domain.Warning{
			Code:    domain.WarnFieldBackfilled,
			Message: f + " was missing and has been filled with a default",
		})
	}
}

func defaultSummary(req domain.ItineraryRequest, place string) domain.TripSummary {
	s := domain.TripSummary{Cities: []string{}, Venues: []string{}, Highlights: []string{}}
	if place != "" {
		s.Cities = append(s.Cities, place)
	}
	if occ := req.Occurrence; occ != nil {
		if occ.Venue != "" {
			s.Venues = append(s.Venues, occ.Venue)
		}
		s.Highlights = append(s.Highlights, occ.EventName)
	}
	return s
}

func fillTips(t domain.LocalTips) domain.LocalTips {
	if t.Transport == nil {
		t.Transport = []string{}
	}
	if t.Customs == nil {
		t.Customs = []string{}
	}
	if t.Safety == nil {
		t.Safety = []string{}
	}
	if t.EventTips == nil {
		t.EventTips = []string{}
	}
	return t
}
