package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

// CatalogRepo reads the event catalog tables. The catalog is loaded once at
// startup; there are no writes at request time.
type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// LoadEvents reads every event with its cities, venues and sessions.
// Integrity checks are left to catalog.New.
func (r *CatalogRepo) LoadEvents(ctx context.Context) ([]domain.UniversalEvent, error) {
	events, index, err := r.loadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog events: %w", err)
	}
	if err := r.loadCities(ctx, events, index); err != nil {
		return nil, fmt.Errorf("load catalog cities: %w", err)
	}
	if err := r.loadVenues(ctx, events, index); err != nil {
		return nil, fmt.Errorf("load catalog venues: %w", err)
	}
	if err := r.loadSessions(ctx, events, index); err != nil {
		return nil, fmt.Errorf("load catalog sessions: %w", err)
	}
	return events, nil
}

func (r *CatalogRepo) loadEvents(ctx context.Context) ([]domain.UniversalEvent, map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, listCatalogEventsSQL)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		events []domain.UniversalEvent
		index  = map[string]int{}
	)
	for rows.Next() {
		var (
			e                         domain.UniversalEvent
			category                  string
			baseB, baseM, baseL       float64
			ticketB, ticketM, ticketL float64
		)
		if err := rows.Scan(
			&e.ID, &e.Name, &category, &e.MultiCity, &e.StartDate, &e.EndDate,
			&e.TicketURL, &e.Pricing.Currency,
			&e.Pricing.DemandMultiplier, &e.Pricing.AdvanceBookingDays,
			&baseB, &baseM, &baseL,
			&ticketB, &ticketM, &ticketL,
		); err != nil {
			return nil, nil, err
		}
		e.Category = domain.Category(category)
		e.StartDate = domain.Day(e.StartDate)
		e.EndDate = domain.Day(e.EndDate)
		e.Pricing.BaseDailyBudget = tiers(baseB, baseM, baseL)
		e.Pricing.TicketPrice = tiers(ticketB, ticketM, ticketL)

		index[e.ID] = len(events)
		events = append(events, e)
	}
	return events, index, rows.Err()
}

func (r *CatalogRepo) loadCities(ctx context.Context, events []domain.UniversalEvent, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx, listCatalogCitiesSQL)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var c domain.EventCity
		if err := rows.Scan(&eventID, &c.ID, &c.Name, &c.Country, &c.IATACode, &c.Timezone, &c.Latitude, &c.Longitude); err != nil {
			return err
		}
		if i, ok := index[eventID]; ok {
			events[i].Cities = append(events[i].Cities, c)
		}
	}
	return rows.Err()
}

func (r *CatalogRepo) loadVenues(ctx context.Context, events []domain.UniversalEvent, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx, listCatalogVenuesSQL)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var v domain.Venue
		if err := rows.Scan(&eventID, &v.ID, &v.Name, &v.CityID, &v.Capacity, &v.Address); err != nil {
			return err
		}
		if i, ok := index[eventID]; ok {
			events[i].Venues = append(events[i].Venues, v)
		}
	}
	return rows.Err()
}

func (r *CatalogRepo) loadSessions(ctx context.Context, events []domain.UniversalEvent, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx, listCatalogSessionsSQL)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var s domain.Session
		if err := rows.Scan(&eventID, &s.ID, &s.VenueID, &s.CityID, &s.Date, &s.Time, &s.Round, &s.Description); err != nil {
			return err
		}
		s.Date = domain.Day(s.Date)
		if i, ok := index[eventID]; ok {
			events[i].Sessions = append(events[i].Sessions, s)
		}
	}
	return rows.Err()
}

// Ping reports database reachability for readiness checks.
func (r *CatalogRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func tiers(budget, mid, luxury float64) map[domain.BudgetLevel]float64 {
	out := map[domain.BudgetLevel]float64{}
	if budget > 0 {
		out[domain.BudgetLevelBudget] = budget
	}
	if mid > 0 {
		out[domain.BudgetLevelMid] = mid
	}
	if luxury > 0 {
		out[domain.BudgetLevelLuxury] = luxury
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
