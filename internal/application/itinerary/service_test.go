package itinerary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

func dayLabels(d *domain.ItineraryData) []string {
	out := make([]string, 0, len(d.Days))
	for _, day := range d.Days {
		out = append(out, day.Label)
	}
	return out
}

func eventBlocks(d *domain.ItineraryData) int {
	n := 0
	for i := range d.Days {
		for _, s := range []domain.Slot{domain.SlotMorning, domain.SlotAfternoon, domain.SlotEvening} {
			if domain.IsEventBlock(d.Days[i].Block(s)) {
				n++
			}
		}
	}
	return n
}

func TestAssemble_EventTrip(t *testing.T) {
	h := newHarness(t, nil)

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, int32(1), h.gen.calls.Load())
	require.Len(t, data.Days, 5)
	assert.Equal(t, 5, data.RequestedDays)
	assert.Equal(t, 5, data.GeneratedDays)
	assert.Equal(t, []string{"2 days before", "1 day before", "Event Day", "1 day after", "2 days after"}, dayLabels(data))
	assert.Equal(t, 1, data.EventDays())
	assert.True(t, data.Days[2].IsEventDay)
	assert.Equal(t, "2026-07-19", data.Days[2].Date)
	assert.Equal(t, "2026-07-17", data.Days[0].Date)

	// 15:00 start lands in the afternoon slot; the generator's own event
	// block claim on the evenings is dropped.
	assert.Equal(t, 1, eventBlocks(data))
	eb, ok := data.Days[2].Afternoon.(domain.EventBlock)
	require.True(t, ok)
	assert.Equal(t, "Afternoon 3", eb.Activities)
	assert.Equal(t, "MetLife Stadium", eb.Location)
	assert.Equal(t, "15:00", eb.Time)
	assert.Equal(t, "13:30", eb.EventDetails.Doors)
	assert.Equal(t, "15:00", eb.EventDetails.StartTime)
	assert.Equal(t, "2h", eb.EventDetails.Duration)
	assert.Equal(t, "https://tickets.example.com/final", eb.EventDetails.TicketURL)
	_, isTime := data.Days[2].Evening.(domain.TimeBlock)
	assert.True(t, isTime)

	require.NotNil(t, data.EventAnchor)
	assert.Equal(t, domain.EventAnchor{
		EventName: "Test Cup Final", EventDate: "2026-07-19", Venue: "MetLife Stadium", EventType: domain.EventTypeSports,
	}, *data.EventAnchor)

	// Pricing returned nothing: the generated budget passes through.
	assert.Equal(t, domain.BudgetGenerated, data.Budget.Source)
	assert.Equal(t, "$9,999", data.Budget.TotalBudget)
	assert.Equal(t, "N/A", data.Budget.Breakdown.Food)
	assert.Equal(t, "$2,000", data.Budget.EventDayCost)

	assert.Equal(t, 5, data.TripSummary.TotalDays)
	assert.Empty(t, data.Warnings)
	assert.Equal(t, []string{OutcomeOK}, h.metrics.outcomes)

	require.Len(t, h.gen.briefs, 1)
	b := h.gen.briefs[0]
	assert.Equal(t, 5, b.Days)
	assert.Contains(t, b.Prompt, "Test Cup Final")
	assert.Contains(t, b.Prompt, "Return exactly 5 entries")
	assert.Contains(t, b.Prompt, "Day 3 (2026-07-19): Event Day")
}

func TestAssemble_AuthoritativePricingWins(t *testing.T) {
	h := newHarness(t, nil)
	h.pricing.out = &domain.PriceBreakdown{
		Accommodation: 1320, Transport: 450, Food: 600, EventTickets: 760, Activities: 300,
		Total: 3430, PerDayAverage: 686, Currency: "USD",
	}

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)

	assert.Equal(t, domain.BudgetAuthoritative, data.Budget.Source)
	assert.Equal(t, "$3,430", data.Budget.TotalBudget)
	assert.Equal(t, "$600", data.Budget.Breakdown.Food)
	assert.Equal(t, "$1,446", data.Budget.EventDayCost)

	assert.Equal(t, "2026-07-17", domain.FormatDate(h.pricing.query.Start))
	assert.Equal(t, 5, h.pricing.query.Days)
	assert.Equal(t, "USD", h.pricing.query.Currency)
}

func TestAssemble_InvalidRequestBeforeAnyCall(t *testing.T) {
	h := newHarness(t, nil)

	req := eventTrip(t)
	req.Days = 0
	data, err := h.svc.Assemble(context.Background(), req)

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, int32(0), h.gen.calls.Load())
	assert.Equal(t, int32(0), h.pricing.calls.Load())
}

func TestAssemble_DatesDisagreeWithDays(t *testing.T) {
	h := newHarness(t, nil)

	req := eventTrip(t)
	req.Days = 3
	_, err := h.svc.Assemble(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, int32(0), h.gen.calls.Load())
}

func TestAssemble_GenerationTimeout(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.block = true

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, domain.CodeGenerationFailed, domain.CodeOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{OutcomeTimeout}, h.metrics.outcomes)
}

func TestAssemble_GenerationDeadlineHoldsWhenGeneratorIgnoresContext(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.stall = 2 * time.Second

	started := time.Now()
	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	elapsed := time.Since(started)

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Less(t, elapsed, time.Second, "returned after the generation timeout, not after the generator")
	assert.Equal(t, domain.CodeGenerationFailed, domain.CodeOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{OutcomeTimeout}, h.metrics.outcomes)
}

func TestAssemble_PricingDeadlineHoldsWhenEstimatorIgnoresContext(t *testing.T) {
	h := newHarness(t, nil)
	h.pricing.stall = 2 * time.Second
	h.pricing.out = &domain.PriceBreakdown{Total: 1, Currency: "USD"}

	started := time.Now()
	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	elapsed := time.Since(started)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, domain.BudgetGenerated, data.Budget.Source)
	assert.True(t, data.HasWarning(domain.WarnPricingUnavailable))
	assert.Len(t, data.Days, 5)
}

func TestAssemble_GenerationError(t *testing.T) {
	h := newHarness(t, nil)
	boom := errors.New("upstream 503")
	h.gen.err = boom

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, domain.CodeGenerationFailed, domain.CodeOf(err))
	assert.ErrorIs(t, err, boom)

	var ae *domain.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "could not build itinerary", ae.Message)
	assert.Equal(t, int32(1), h.gen.calls.Load(), "no retry")
}

func TestAssemble_UnparsableContent(t *testing.T) {
	for _, raw := range []string{"", "Sorry, I cannot help with that.", `{"days": "five"}`} {
		h := newHarness(t, nil)
		h.gen.raw = raw

		data, err := h.svc.Assemble(context.Background(), eventTrip(t))
		require.Error(t, err, raw)
		assert.Nil(t, data)
		assert.Equal(t, domain.CodeGenerationFailed, domain.CodeOf(err))
		assert.Equal(t, []string{OutcomeUnparsable}, h.metrics.outcomes)
	}
}

func TestAssemble_CodeFencedContent(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.raw = "```json\n" + generatedJSON(t, 5, false) + "\n```"

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)
	assert.Len(t, data.Days, 5)
}

func TestAssemble_PricingFailureIsSwallowed(t *testing.T) {
	h := newHarness(t, nil)
	h.pricing.err = errors.New("pricing down")

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)

	assert.Equal(t, domain.BudgetGenerated, data.Budget.Source)
	assert.True(t, data.HasWarning(domain.WarnPricingUnavailable))
	assert.Len(t, data.Days, 5)
}

func TestAssemble_PricingReturnsNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.raw = generatedJSON(t, 5, false)

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)

	assert.Equal(t, domain.BudgetGenerated, data.Budget.Source)
	assert.Equal(t, "N/A", data.Budget.TotalBudget)
	assert.Equal(t, "N/A", data.Budget.EventDayCost)
	assert.Equal(t, "USD", data.Budget.Currency)
	assert.False(t, data.HasWarning(domain.WarnPricingUnavailable))
	assert.True(t, data.HasWarning(domain.WarnFieldBackfilled))
	assert.NotEmpty(t, data.Overview)
	assert.NotNil(t, data.Accommodations)
	assert.NotNil(t, data.Flights)
}

func TestAssemble_LooseGeneratedBudget(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.raw = `{"overview": "x", "budget": {"totalBudget": 2400, "dailyAverage": "$480", "breakdown": {"food": 350.5}}, "days": []}`

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)
	assert.Equal(t, "2400", data.Budget.TotalBudget)
	assert.Equal(t, "350.5", data.Budget.Breakdown.Food)
	assert.Equal(t, "N/A", data.Budget.Breakdown.Transport)
	assert.Equal(t, "$480", data.Budget.EventDayCost)

	h.gen.raw = `{"overview": "x", "budget": ["not", "an", "object"], "days": []}`
	data, err = h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)
	assert.Equal(t, "N/A", data.Budget.TotalBudget)
	assert.True(t, data.HasWarning(domain.WarnFieldBackfilled))
}

func TestAssemble_DayCountMismatch(t *testing.T) {
	t.Run("under-delivery is padded", func(t *testing.T) {
		h := newHarness(t, nil)
		h.gen.raw = generatedJSON(t, 3, true)

		data, err := h.svc.Assemble(context.Background(), eventTrip(t))
		require.NoError(t, err)

		require.Len(t, data.Days, 5)
		assert.Equal(t, 5, data.RequestedDays)
		assert.Equal(t, 3, data.GeneratedDays)
		assert.True(t, data.HasWarning(domain.WarnDayCountMismatch))
		assert.Equal(t, "Theme 3", data.Days[2].Theme)
		assert.Equal(t, "Free day", data.Days[3].Theme)
		assert.Equal(t, "2026-07-21", data.Days[4].Date)
		assert.Equal(t, "2 days after", data.Days[4].Label)
		assert.Equal(t, "New York", data.Days[4].City)
		assert.Equal(t, 1, data.EventDays())
		assert.Equal(t, []string{OutcomeDayMismatch}, h.metrics.outcomes)
	})

	t.Run("over-delivery is truncated", func(t *testing.T) {
		h := newHarness(t, nil)
		h.gen.raw = generatedJSON(t, 7, true)

		data, err := h.svc.Assemble(context.Background(), eventTrip(t))
		require.NoError(t, err)

		require.Len(t, data.Days, 5)
		assert.Equal(t, 7, data.GeneratedDays)
		assert.True(t, data.HasWarning(domain.WarnDayCountMismatch))
		assert.Equal(t, "Theme 5", data.Days[4].Theme)
	})
}

func TestAssemble_AlignsByGeneratedDates(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.raw = `{"days": [
		{"date": "2026-07-21", "theme": "Last"},
		{"date": "2026-07-17", "theme": "First"},
		{"date": "2026-07-19", "theme": "Match"}
	]}`

	data, err := h.svc.Assemble(context.Background(), eventTrip(t))
	require.NoError(t, err)

	require.Len(t, data.Days, 5)
	assert.Equal(t, "First", data.Days[0].Theme)
	assert.Equal(t, "Free day", data.Days[1].Theme)
	assert.Equal(t, "Match", data.Days[2].Theme)
	assert.Equal(t, "Last", data.Days[4].Theme)
	for i, d := range data.Days {
		assert.Equal(t, i+1, d.Day)
	}
}

func TestAssemble_DatesOutsideWindowFallBackToIndex(t *testing.T) {
	for _, year := range []string{"2025", "2027"} {
		t.Run(year, func(t *testing.T) {
			h := newHarness(t, nil)
			h.gen.raw = `{"days": [
				{"date": "` + year + `-07-17", "theme": "A"},
				{"date": "` + year + `-07-18", "theme": "B"},
				{"date": "` + year + `-07-19", "theme": "C"},
				{"date": "` + year + `-07-20", "theme": "D"},
				{"date": "` + year + `-07-21", "theme": "E"}
			]}`

			data, err := h.svc.Assemble(context.Background(), eventTrip(t))
			require.NoError(t, err)

			require.Len(t, data.Days, 5)
			themes := make([]string, 0, len(data.Days))
			for _, d := range data.Days {
				themes = append(themes, d.Theme)
			}
			assert.Equal(t, []string{"A", "B", "C", "D", "E"}, themes)
			assert.Equal(t, "2026-07-17", data.Days[0].Date)
			assert.True(t, data.Days[2].IsEventDay)
			assert.False(t, data.HasWarning(domain.WarnDayCountMismatch))
		})
	}
}

func TestAssemble_DestinationTripBackfill(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.raw = `{"days": []}`

	data, err := h.svc.Assemble(context.Background(), domain.ItineraryRequest{
		Destination: "Lisbon",
		Days:        3,
		BudgetLevel: domain.BudgetLevelBudget,
		GroupSize:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, "A 3-day trip to Lisbon.", data.Overview)
	assert.Nil(t, data.EventAnchor)
	assert.Equal(t, []string{"Day 1", "Day 2", "Day 3"}, dayLabels(data))
	assert.Equal(t, "2026-03-02", data.Days[0].Date, "trip starts the day after now")
	assert.Equal(t, 0, data.EventDays())
	assert.Equal(t, 0, eventBlocks(data))
	assert.Equal(t, []string{"Lisbon"}, data.TripSummary.Cities)
	assert.Equal(t, 3, data.TripSummary.TotalDays)
	assert.NotNil(t, data.LocalTips.EventTips)

	backfilled := 0
	for _, w := range data.Warnings {
		if w.Code == domain.WarnFieldBackfilled {
			backfilled++
		}
	}
	assert.Equal(t, 6, backfilled)
	assert.True(t, data.HasWarning(domain.WarnDayCountMismatch))
}

func TestAssemble_EventOutsideWindow(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.raw = generatedJSON(t, 3, true)

	req := eventTrip(t)
	s, e := mustDate(t, "2026-08-01"), mustDate(t, "2026-08-03")
	req.StartDate, req.EndDate, req.Days = &s, &e, 3

	data, err := h.svc.Assemble(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, data.EventDays())
	assert.Equal(t, 0, eventBlocks(data))
	assert.True(t, data.HasWarning(domain.WarnEventOutsideWindow))
	assert.Equal(t, "13 days after", data.Days[0].Label)
	require.NotNil(t, data.EventAnchor)
}

func TestSlotFor(t *testing.T) {
	assert.Equal(t, domain.SlotMorning, slotFor("09:30"))
	assert.Equal(t, domain.SlotAfternoon, slotFor("12:00"))
	assert.Equal(t, domain.SlotAfternoon, slotFor("16:59"))
	assert.Equal(t, domain.SlotEvening, slotFor("17:00"))
	assert.Equal(t, domain.SlotEvening, slotFor(""))
	assert.Equal(t, domain.SlotEvening, slotFor("late"))
}
