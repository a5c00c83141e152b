package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/budget"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeRegistry map[string]domain.UniversalEvent

func (f fakeRegistry) Get(_ context.Context, id string) (domain.UniversalEvent, error) {
	e, ok := f[id]
	if !ok {
		return domain.UniversalEvent{}, domain.ErrNotFound("event not found")
	}
	return e.Clone(), nil
}

type fakeGenerator struct {
	calls  atomic.Int32
	raw    string
	err    error
	block  bool
	stall  time.Duration
	briefs []Brief
	mu     sync.Mutex
}

func (g *fakeGenerator) Generate(ctx context.Context, b Brief) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.briefs = append(g.briefs, b)
	g.mu.Unlock()
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if g.stall > 0 {
		time.Sleep(g.stall)
	}
	return g.raw, g.err
}

type fakePricing struct {
	calls atomic.Int32
	out   *domain.PriceBreakdown
	err   error
	stall time.Duration
	query budget.Query
}

func (p *fakePricing) Estimate(_ context.Context, q budget.Query) (*domain.PriceBreakdown, error) {
	p.calls.Add(1)
	if p.stall > 0 {
		time.Sleep(p.stall)
		return p.out, p.err
	}
	p.query = q
	return p.out, p.err
}

type memSelections struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
}

func newMemSelections() *memSelections {
	return &memSelections{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memSelections) PutSelection(_ context.Context, id, eventID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = eventID
	m.ttls[id] = ttl
	return nil
}

func (m *memSelections) GetSelection(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok, nil
}

func (m *memSelections) DeleteSelection(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

type memItineraries struct {
	mu   sync.Mutex
	recs map[string]*Record
}

func (m *memItineraries) SaveItinerary(_ context.Context, rec *Record, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recs == nil {
		m.recs = map[string]*Record{}
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *memItineraries) GetItinerary(_ context.Context, id string) (*Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	return r, ok, nil
}

type capturePublisher struct {
	mu   sync.Mutex
	keys []string
	msgs []any
	err  error
}

func (p *capturePublisher) PublishEvent(_ context.Context, rk string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, rk)
	p.msgs = append(p.msgs, payload)
	return p.err
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *countingMetrics) ObserveGeneration(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

// generatedJSON renders generator output with n days. Dates are left out so
// days are matched by index.
func generatedJSON(t *testing.T, n int, withBudget bool) string {
	t.Helper()
	days := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		days = append(days, map[string]any{
			"day":   i,
			"city":  "New York",
			"theme": fmt.Sprintf("Theme %d", i),
			"morning": map[string]any{
				"time": "9:00 AM", "activities": fmt.Sprintf("Morning %d", i), "location": "Midtown", "cost": "$20",
			},
			"afternoon": map[string]any{
				"time": "1:00 PM", "activities": fmt.Sprintf("Afternoon %d", i), "location": "Brooklyn", "cost": "$30",
			},
			"evening": map[string]any{
				"time": "7:00 PM", "activities": fmt.Sprintf("Evening %d", i), "location": "SoHo", "cost": "$60",
				"isEventBlock": true, "eventDetails": map[string]any{"doors": "6:00 PM"},
			},
			"mealsAndDining": []map[string]any{{"meal": "Lunch", "suggestion": "Deli", "cost": "$15"}},
			"tips":           []string{"Carry a MetroCard"},
		})
	}

	out := map[string]any{
		"overview": "Five days in New York around the final.",
		"tripSummary": map[string]any{
			"totalDays": n, "cities": []string{"New York"}, "venues": []string{"MetLife Stadium"}, "highlights": []string{"Final"},
		},
		"days":           days,
		"accommodations": []map[string]any{{"name": "Hotel A", "type": "hotel", "area": "Midtown", "pricePerNight": "$250", "notes": ""}},
		"flights":        []map[string]any{},
		"localTips": map[string]any{
			"transport": []string{"Take NJ Transit to the stadium"}, "customs": []string{}, "safety": []string{}, "eventTips": []string{"Arrive early"},
		},
	}
	if withBudget {
		out["budget"] = map[string]any{
			"totalBudget": "$9,999",
			"breakdown":   map[string]any{"accommodation": "$5,000", "transport": "$1,000"},
			"dailyAverage": "$2,000",
		}
	}

	b, err := json.Marshal(out)
	require.NoError(t, err)
	return string(b)
}

func finalOccurrence(t *testing.T) *domain.ResolvedOccurrence {
	return &domain.ResolvedOccurrence{
		EventName: "Test Cup Final",
		EventDate: mustDate(t, "2026-07-19"),
		Venue:     "MetLife Stadium",
		City:      "New York",
		Country:   "USA",
		EventType: domain.EventTypeSports,
		TicketURL: "https://tickets.example.com/final",
		StartTime: "15:00",
	}
}

func eventTrip(t *testing.T) domain.ItineraryRequest {
	s, e := mustDate(t, "2026-07-17"), mustDate(t, "2026-07-21")
	return domain.ItineraryRequest{
		Occurrence:  finalOccurrence(t),
		Days:        5,
		BudgetLevel: domain.BudgetLevelMid,
		GroupSize:   2,
		GroupType:   domain.GroupCouple,
		StartDate:   &s,
		EndDate:     &e,
	}
}

type harness struct {
	svc         *Service
	gen         *fakeGenerator
	pricing     *fakePricing
	selections  *memSelections
	itineraries *memItineraries
	pub         *capturePublisher
	metrics     *countingMetrics
}

func newHarness(t *testing.T, events fakeRegistry) *harness {
	t.Helper()
	h := &harness{
		gen:         &fakeGenerator{raw: generatedJSON(t, 5, true)},
		pricing:     &fakePricing{},
		selections:  newMemSelections(),
		itineraries: &memItineraries{},
		pub:         &capturePublisher{},
		metrics:     &countingMetrics{},
	}
	var n atomic.Int32
	h.svc = New(Deps{
		Registry:    events,
		Generator:   h.gen,
		Pricing:     h.pricing,
		Selections:  h.selections,
		Itineraries: h.itineraries,
		Publisher:   h.pub,
		Metrics:     h.metrics,
		Clock:       fixedClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		NewID:       func() string { return fmt.Sprintf("id-%d", n.Add(1)) },
	}, Config{GenerationTimeout: 200 * time.Millisecond, PricingTimeout: 100 * time.Millisecond, Currency: "USD"})
	return h
}
