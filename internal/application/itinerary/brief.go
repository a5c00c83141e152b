package itinerary

import (
	"fmt"
	"strings"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/phase"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

// Brief is everything the content generator is told about one trip.
type Brief struct {
	Days         int
	Instructions string
	Prompt       string
}

const systemInstructions = "You are a travel planner that writes day-by-day itineraries. " +
	"Reply with a single JSON object and nothing else. Money values are strings with a currency symbol."

const shapeHint = `{
  "overview": "string",
  "tripSummary": {"totalDays": 0, "cities": ["string"], "venues": ["string"], "highlights": ["string"]},
  "budget": {"totalBudget": "string", "breakdown": {"accommodation": "string", "transport": "string", "food": "string", "event": "string", "activities": "string"}, "dailyAverage": "string", "eventDayCost": "string"},
  "days": [{
    "day": 1, "date": "YYYY-MM-DD", "city": "string", "theme": "string",
    "morning": {"time": "string", "activities": "string", "location": "string", "cost": "string"},
    "afternoon": {"time": "string", "activities": "string", "location": "string", "cost": "string"},
    "evening": {"time": "string", "activities": "string", "location": "string", "cost": "string"},
    "mealsAndDining": [{"meal": "string", "suggestion": "string", "cost": "string"}],
    "tips": ["string"]
  }],
  "accommodations": [{"name": "string", "type": "string", "area": "string", "pricePerNight": "string", "notes": "string"}],
  "flights": [{"from": "string", "to": "string", "date": "YYYY-MM-DD", "estimatedCost": "string", "notes": "string"}],
  "localTips": {"transport": ["string"], "customs": ["string"], "safety": ["string"], "eventTips": ["string"]}
}`

// BuildBrief writes the natural-language brief for one request and its
// classified window.
func BuildBrief(req domain.ItineraryRequest, sched phase.Schedule, currency string) Brief {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan a %d-day trip to %s", req.Days, req.Place())
	if occ := req.Occurrence; occ != nil && occ.Country != "" {
		fmt.Fprintf(&b, ", %s", occ.Country)
	}
	fmt.Fprintf(&b, " from %s to %s.\n", domain.FormatDate(sched.Window.Start), domain.FormatDate(sched.Window.End))

	fmt.Fprintf(&b, "Travellers: %s.\n", travellers(req))
	fmt.Fprintf(&b, "Budget tier: %s. Show prices in %s.\n", tierLabel(req.BudgetLevel), currency)
	if req.Optimize {
		b.WriteString("Travel style: optimize for minimal transit time and cost between activities.\n")
	} else {
		b.WriteString("Travel style: balanced sightseeing and rest.\n")
	}

	if occ := req.Occurrence; occ != nil {
		writeEventFacts(&b, occ, sched, req)
	}

	b.WriteString("\nDay schedule:\n")
	for _, d := range sched.Days {
		fmt.Fprintf(&b, "- Day %d (%s): %s\n", d.Day, domain.FormatDate(d.Date), d.Label)
	}

	fmt.Fprintf(&b, "\nReturn exactly %d entries in \"days\", one per day above, in order. Use this JSON shape:\n%s\n", req.Days, shapeHint)

	return Brief{Days: req.Days, Instructions: systemInstructions, Prompt: b.String()}
}

func writeEventFacts(b *strings.Builder, occ *domain.ResolvedOccurrence, sched phase.Schedule, req domain.ItineraryRequest) {
	b.WriteString("\nThe trip is built around an event:\n")
	fmt.Fprintf(b, "- Event: %s", occ.EventName)
	if occ.Round != "" {
		fmt.Fprintf(b, " (%s)", occ.Round)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "- Date: %s", domain.FormatDate(occ.EventDate))
	if occ.StartTime != "" {
		fmt.Fprintf(b, ", starts %s local time", occ.StartTime)
	}
	b.WriteString("\n")
	if occ.Venue != "" {
		fmt.Fprintf(b, "- Venue: %s", occ.Venue)
		if occ.VenueCapacity > 0 {
			fmt.Fprintf(b, ", capacity %d", occ.VenueCapacity)
		}
		b.WriteString("\n")
	}
	if occ.EventType != "" {
		fmt.Fprintf(b, "- Type: %s\n", occ.EventType)
	}
	if occ.Description != "" {
		fmt.Fprintf(b, "- About: %s\n", occ.Description)
	}
	if occ.HotelMultiplier > 1 {
		fmt.Fprintf(b, "- Hotel prices near the venue run about %.1fx normal on the event night.\n", occ.HotelMultiplier)
	}
	if occ.AdvanceBookingDays > 0 {
		fmt.Fprintf(b, "- Book accommodation and tickets at least %d days ahead.\n", occ.AdvanceBookingDays)
	}
	if occ.IATACode != "" {
		fmt.Fprintf(b, "- Nearest airport: %s\n", occ.IATACode)
	}
	if req.Team != "" {
		fmt.Fprintf(b, "- The travellers support %s.\n", req.Team)
	}
	if len(req.MatchIDs) > 0 {
		fmt.Fprintf(b, "- Matches of interest: %s\n", strings.Join(req.MatchIDs, ", "))
	}

	if sched.EventInWindow() {
		fmt.Fprintf(b, "Day %d is the event day: keep the event slot free and plan the rest of the day around it.\n", sched.EventIndex+1)
	} else {
		b.WriteString("The event falls outside the trip dates: plan an event-adjacent trip without attending it.\n")
	}
}

func travellers(req domain.ItineraryRequest) string {
	people := "1 person"
	if req.GroupSize > 1 {
		people = fmt.Sprintf("%d people", req.GroupSize)
	}
	if req.GroupType == "" {
		return people
	}
	return fmt.Sprintf("%s travelling as %s", people, req.GroupType)
}

func tierLabel(l domain.BudgetLevel) string {
	if l == domain.BudgetLevelMid {
		return "mid-range"
	}
	return string(l)
}
