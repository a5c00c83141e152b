// Package phase labels every day of a trip window relative to the event date.
package phase

import (
	"fmt"
	"strconv"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

type Phase string

const (
	PreEvent    Phase = "pre_event"
	EventDay    Phase = "event_day"
	PostEvent   Phase = "post_event"
	Destination Phase = "destination"
)

const (
	defaultPreEventDays = 2
	EventDayLabel       = "Event Day"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Days() int { return domain.DaysBetween(w.Start, w.End) + 1 }

func (w Window) Contains(d time.Time) bool {
	d = domain.Day(d)
	return !d.Before(domain.Day(w.Start)) && !d.After(domain.Day(w.End))
}

// DefaultWindow places up to two days before the event and fills the rest
// after it. Short trips lose post-event days first, then pre-event days, and
// always keep the event day.
func DefaultWindow(eventDate time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	pre := min(defaultPreEventDays, days-1)
	start := domain.AddDays(eventDate, -pre)
	return Window{Start: start, End: domain.AddDays(start, days-1)}
}

// ResolveWindow derives the trip window for days. Explicit dates win; a single
// date is extended by days; no dates fall back to DefaultWindow around the
// event or, for destination trips, to a trip starting the day after now.
func ResolveWindow(eventDate *time.Time, start, end *time.Time, days int, now time.Time) (Window, error) {
	switch {
	case start != nil && end != nil:
		w := Window{Start: domain.Day(*start), End: domain.Day(*end)}
		if w.End.Before(w.Start) {
			return Window{}, domain.ErrInvalidRequest("endDate must be >= startDate")
		}
		if w.Days() != days {
			return Window{}, domain.ErrInvalidRequestMeta("trip dates do not match days", map[string]string{
				"days": fmt.Sprintf("startDate..endDate spans %d days, days is %d", w.Days(), days),
			})
		}
		return w, nil
	case start != nil:
		s := domain.Day(*start)
		return Window{Start: s, End: domain.AddDays(s, days-1)}, nil
	case end != nil:
		e := domain.Day(*end)
		return Window{Start: domain.AddDays(e, -(days - 1)), End: e}, nil
	case eventDate != nil:
		return DefaultWindow(*eventDate, days), nil
	default:
		s := domain.AddDays(now, 1)
		return Window{Start: s, End: domain.AddDays(s, days-1)}, nil
	}
}

type DayPhase struct {
	Day        int
	Date       time.Time
	Phase      Phase
	Label      string
	IsEventDay bool
}

type Schedule struct {
	Window Window
	Days   []DayPhase

	// EventIndex is the 0-based index of the event day, -1 when the event is
	// absent or outside the window.
	EventIndex int
	PreEvent   int
	PostEvent  int
}

func (s Schedule) EventInWindow() bool { return s.EventIndex >= 0 }

// Classify labels each day of w. With no event every day is a destination
// day; with an event outside w the labels still count days before or after
// it but no day is the event day.
func Classify(eventDate *time.Time, w Window) Schedule {
	n := w.Days()
	if n < 0 {
		n = 0
	}
	s := Schedule{Window: w, Days: make([]DayPhase, 0, n), EventIndex: -1}

	for i := 0; i < n; i++ {
		d := domain.AddDays(w.Start, i)
		dp := DayPhase{Day: i + 1, Date: d}

		if eventDate == nil {
			dp.Phase = Destination
			dp.Label = "Day " + strconv.Itoa(i+1)
			s.Days = append(s.Days, dp)
			continue
		}

		offset := domain.DaysBetween(*eventDate, d)
		dp.Label = Label(offset)
		switch {
		case offset < 0:
			dp.Phase = PreEvent
			s.PreEvent++
		case offset > 0:
			dp.Phase = PostEvent
			s.PostEvent++
		default:
			dp.Phase = EventDay
			dp.IsEventDay = true
			s.EventIndex = i
		}
		s.Days = append(s.Days, dp)
	}
	return s
}

// Label names a day by its signed distance from the event day.
func Label(offset int) string {
	switch {
	case offset == 0:
		return EventDayLabel
	case offset == -1:
		return "1 day before"
	case offset < 0:
		return fmt.Sprintf("%d days before", -offset)
	case offset == 1:
		return "1 day after"
	default:
		return fmt.Sprintf("%d days after", offset)
	}
}
