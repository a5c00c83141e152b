// Package budget builds the display budget of an itinerary and estimates an
// authoritative breakdown from catalog pricing hints.
package budget

import (
	"strings"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

// Allocate produces the itinerary budget. An authoritative breakdown always
// wins over the generated block, which is only a placeholder; without one the
// generated block is passed through with every missing field set to "N/A".
func Allocate(generated domain.Budget, authoritative *domain.PriceBreakdown, currency string) domain.Budget {
	if authoritative != nil {
		return fromAuthoritative(*authoritative, currency)
	}

	out := domain.Budget{
		TotalBudget: orNA(generated.TotalBudget),
		Breakdown: domain.BudgetBreakdown{
			Accommodation: orNA(generated.Breakdown.Accommodation),
			Transport:     orNA(generated.Breakdown.Transport),
			Food:          orNA(generated.Breakdown.Food),
			Event:         orNA(generated.Breakdown.Event),
			Activities:    orNA(generated.Breakdown.Activities),
		},
		DailyAverage: orNA(generated.DailyAverage),
		Currency:     generated.Currency,
		Source:       domain.BudgetGenerated,
	}
	out.EventDayCost = out.DailyAverage
	if out.Currency == "" {
		out.Currency = strings.ToUpper(currency)
	}
	return out
}

func fromAuthoritative(p domain.PriceBreakdown, fallbackCurrency string) domain.Budget {
	cur := p.Currency
	if cur == "" {
		cur = fallbackCurrency
	}
	cur = strings.ToUpper(cur)

	return domain.Budget{
		TotalBudget: FormatMoney(p.Total, cur),
		Breakdown: domain.BudgetBreakdown{
			Accommodation: FormatMoney(p.Accommodation, cur),
			Transport:     FormatMoney(p.Transport, cur),
			Food:          FormatMoney(p.Food, cur),
			Event:         FormatMoney(p.EventTickets, cur),
			Activities:    FormatMoney(p.Activities, cur),
		},
		DailyAverage: FormatMoney(p.PerDayAverage, cur),
		EventDayCost: FormatMoney(p.EventTickets+p.PerDayAverage, cur),
		Currency:     cur,
		Source:       domain.BudgetAuthoritative,
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
