package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

//go:embed seed/events.yaml
var seedYAML []byte

type seedFile struct {
	Events []seedEvent `yaml:"events"`
}

type seedEvent struct {
	ID        string        `yaml:"event_id"`
	Name      string        `yaml:"name"`
	Category  string        `yaml:"category"`
	MultiCity bool          `yaml:"multi_city"`
	StartDate string        `yaml:"start_date"`
	EndDate   string        `yaml:"end_date"`
	TicketURL string        `yaml:"ticket_url"`
	Pricing   seedPricing   `yaml:"pricing"`
	Cities    []seedCity    `yaml:"cities"`
	Venues    []seedVenue   `yaml:"venues"`
	Sessions  []seedSession `yaml:"sessions"`
}

type seedPricing struct {
	Currency           string             `yaml:"currency"`
	DemandMultiplier   float64            `yaml:"demand_multiplier"`
	AdvanceBookingDays int                `yaml:"advance_booking_days"`
	BaseDailyBudget    map[string]float64 `yaml:"base_daily_budget"`
	TicketPrice        map[string]float64 `yaml:"ticket_price"`
}

type seedCity struct {
	ID        string  `yaml:"city_id"`
	Name      string  `yaml:"name"`
	Country   string  `yaml:"country"`
	IATACode  string  `yaml:"iata_code"`
	Timezone  string  `yaml:"timezone"`
	Latitude  float64 `yaml:"lat"`
	Longitude float64 `yaml:"lng"`
}

type seedVenue struct {
	ID       string `yaml:"venue_id"`
	Name     string `yaml:"name"`
	CityID   string `yaml:"city_id"`
	Capacity int    `yaml:"capacity"`
	Address  string `yaml:"address"`
}

type seedSession struct {
	ID          string `yaml:"session_id"`
	VenueID     string `yaml:"venue_id"`
	CityID      string `yaml:"city_id"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	Round       string `yaml:"round"`
	Description string `yaml:"description"`
}

// Default builds the catalog from the embedded seed.
func Default() (*Catalog, error) {
	events, err := DecodeYAML(bytes.NewReader(seedYAML))
	if err != nil {
		return nil, fmt.Errorf("embedded seed: %w", err)
	}
	return New(events)
}

// LoadFile builds the catalog from a YAML file in the seed format.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events, err := DecodeYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(events)
}

// DecodeYAML reads events in the seed format. It converts types only;
// integrity checks happen in New.
func DecodeYAML(r io.Reader) ([]domain.UniversalEvent, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}

	out := make([]domain.UniversalEvent, 0, len(f.Events))
	for _, se := range f.Events {
		e, err := se.toDomain()
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", se.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (se seedEvent) toDomain() (domain.UniversalEvent, error) {
	start, err := domain.ParseDate(se.StartDate)
	if err != nil {
		return domain.UniversalEvent{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := domain.ParseDate(se.EndDate)
	if err != nil {
		return domain.UniversalEvent{}, fmt.Errorf("end_date: %w", err)
	}

	e := domain.UniversalEvent{
		ID:        se.ID,
		Name:      se.Name,
		Category:  domain.Category(se.Category),
		MultiCity: se.MultiCity,
		StartDate: start,
		EndDate:   end,
		TicketURL: se.TicketURL,
		Pricing: domain.PricingHints{
			Currency:           se.Pricing.Currency,
			DemandMultiplier:   se.Pricing.DemandMultiplier,
			AdvanceBookingDays: se.Pricing.AdvanceBookingDays,
			BaseDailyBudget:    levels(se.Pricing.BaseDailyBudget),
			TicketPrice:        levels(se.Pricing.TicketPrice),
		},
	}
	for _, c := range se.Cities {
		e.Cities = append(e.Cities, domain.EventCity{
			ID: c.ID, Name: c.Name, Country: c.Country, IATACode: c.IATACode,
			Timezone: c.Timezone, Latitude: c.Latitude, Longitude: c.Longitude,
		})
	}
	for _, v := range se.Venues {
		e.Venues = append(e.Venues, domain.Venue{
			ID: v.ID, Name: v.Name, CityID: v.CityID, Capacity: v.Capacity, Address: v.Address,
		})
	}
	for _, s := range se.Sessions {
		d, err := domain.ParseDate(s.Date)
		if err != nil {
			return domain.UniversalEvent{}, fmt.Errorf("session %q date: %w", s.ID, err)
		}
		e.Sessions = append(e.Sessions, domain.Session{
			ID: s.ID, VenueID: s.VenueID, CityID: s.CityID, Date: d,
			Time: s.Time, Round: s.Round, Description: s.Description,
		})
	}
	return e, nil
}

func levels(m map[string]float64) map[domain.BudgetLevel]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[domain.BudgetLevel]float64, len(m))
	for k, v := range m {
		if lvl, ok := domain.ParseBudgetLevel(k); ok {
			out[lvl] = v
		}
	}
	return out
}
