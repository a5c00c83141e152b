package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

var errNoObject = errors.New("no JSON object in generated content")

// generated is the structured content as returned by the generator. Pointer
// and nil-slice fields tell omitted from empty.
type generated struct {
	Overview       string                 `json:"overview"`
	TripSummary    *domain.TripSummary    `json:"tripSummary"`
	Budget         *domain.Budget         `json:"-"`
	RawBudget      json.RawMessage        `json:"budget"`
	Days           []domain.DayPlan       `json:"days"`
	Accommodations []domain.Accommodation `json:"accommodations"`
	Flights        []domain.Flight        `json:"flights"`
	LocalTips      *domain.LocalTips      `json:"localTips"`
}

// parseGenerated decodes generator output. Markdown code fences and text
// around the outermost JSON object are tolerated.
func parseGenerated(raw string) (*generated, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, errNoObject
	}

	var g generated
	if err := json.Unmarshal([]byte(s[start:end+1]), &g); err != nil {
		return nil, fmt.Errorf("decode generated content: %w", err)
	}
	g.Budget = decodeBudget(g.RawBudget)
	return &g, nil
}

// looseText accepts a JSON string or number. Generators often emit bare
// amounts where a display string was asked for.
type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = looseText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = looseText(n.String())
	return nil
}

type looseBudget struct {
	TotalBudget  looseText `json:"totalBudget"`
	DailyAverage looseText `json:"dailyAverage"`
	EventDayCost looseText `json:"eventDayCost"`
	Currency     looseText `json:"currency"`
	Breakdown    struct {
		Accommodation looseText `json:"accommodation"`
		Transport     looseText `json:"transport"`
		Food          looseText `json:"food"`
		Event         looseText `json:"event"`
		Activities    looseText `json:"activities"`
	} `json:"breakdown"`
}

// decodeBudget returns nil when the budget block is absent or malformed; the
// block is a placeholder and never fails a build.
func decodeBudget(raw json.RawMessage) *domain.Budget {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var lb looseBudget
	if err := json.Unmarshal(raw, &lb); err != nil {
		return nil
	}
	return &domain.Budget{
		TotalBudget:  string(lb.TotalBudget),
		DailyAverage: string(lb.DailyAverage),
		EventDayCost: string(lb.EventDayCost),
		Currency:     string(lb.Currency),
		Breakdown: domain.BudgetBreakdown{
			Accommodation: string(lb.Breakdown.Accommodation),
			Transport:     string(lb.Breakdown.Transport),
			Food:          string(lb.Breakdown.Food),
			Event:         string(lb.Breakdown.Event),
			Activities:    string(lb.Breakdown.Activities),
		},
	}
}
