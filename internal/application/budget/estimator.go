package budget

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

// Query is what a pricing collaborator gets to price one trip.
type Query struct {
	Occurrence  *domain.ResolvedOccurrence
	Start       time.Time
	Days        int
	BudgetLevel domain.BudgetLevel
	GroupSize   int
	Currency    string
}

// EventSource is the catalog view the estimator reads pricing hints from.
type EventSource interface {
	Each(fn func(e *domain.UniversalEvent) bool)
}

// Shares of the per-person daily base budget.
const (
	accommodationShare = 0.40
	transportShare     = 0.15
	foodShare          = 0.20
	activitiesShare    = 0.10
)

// HintsEstimator prices event trips from the catalog pricing hints of the
// event whose name matches the occurrence.
type HintsEstimator struct {
	events EventSource
}

func NewHintsEstimator(events EventSource) *HintsEstimator {
	return &HintsEstimator{events: events}
}

// Estimate returns nil without error when it has nothing to price: a
// destination trip, an unknown event, or no hints for the budget tier.
func (h *HintsEstimator) Estimate(ctx context.Context, q Query) (*domain.PriceBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Occurrence == nil || q.Days < 1 {
		return nil, nil
	}

	hints, ok := h.hintsFor(q.Occurrence.EventName)
	if !ok {
		return nil, nil
	}
	base, ok := hints.BaseDailyBudget[q.BudgetLevel]
	if !ok || base <= 0 {
		return nil, nil
	}

	group := float64(max(q.GroupSize, 1))
	days := float64(q.Days)
	mult := hints.DemandMultiplier
	if mult <= 0 {
		mult = 1
	}

	// One night per trip day but the last; the event night is charged at the
	// demand multiplier.
	nights := max(q.Days-1, 1)
	nightly := base * accommodationShare * group
	accommodation := 0.0
	for i := 0; i < nights; i++ {
		if domain.AddDays(q.Start, i).Equal(domain.Day(q.Occurrence.EventDate)) {
			accommodation += nightly * mult
		} else {
			accommodation += nightly
		}
	}

	p := domain.PriceBreakdown{
		Accommodation: cents(accommodation),
		Transport:     cents(base * transportShare * group * days),
		Food:          cents(base * foodShare * group * days),
		EventTickets:  cents(hints.TicketPrice[q.BudgetLevel] * group),
		Activities:    cents(base * activitiesShare * group * days),
		Currency:      hints.Currency,
	}
	if p.Currency == "" {
		p.Currency = q.Currency
	}
	p.Total = cents(p.CategorySum())
	p.PerDayAverage = cents(p.Total / days)
	return &p, nil
}

func (h *HintsEstimator) hintsFor(eventName string) (domain.PricingHints, bool) {
	name := strings.TrimSpace(eventName)
	var (
		hints domain.PricingHints
		found bool
	)
	h.events.Each(func(e *domain.UniversalEvent) bool {
		if strings.EqualFold(e.Name, name) {
			hints, found = e.Pricing, true
			return false
		}
		return true
	})
	return hints, found
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
