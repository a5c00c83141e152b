package registry

import (
	"sort"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

type Filter struct {
	Name     string
	City     string
	Category string
	From     *time.Time
	To       *time.Time
}

func (f *Filter) Normalize() {
	f.Name = strings.ToLower(strings.TrimSpace(f.Name))
	f.City = domain.NormalizeCity(f.City)
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	if f.From != nil {
		d := domain.Day(*f.From)
		f.From = &d
	}
	if f.To != nil {
		d := domain.Day(*f.To)
		f.To = &d
	}
}

// Search returns the events matching every set field of f, ordered by start
// date then name. Name and city match by case-insensitive substring; the date
// range matches on inclusive overlap with the event dates. An inverted range
// matches nothing.
func (r *Registry) Search(f Filter) []domain.UniversalEvent {
	f.Normalize()

	out := []domain.UniversalEvent{}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return out
	}

	r.events.Each(func(e *domain.UniversalEvent) bool {
		if f.matches(e) {
			out = append(out, e.Clone())
		}
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (f *Filter) matches(e *domain.UniversalEvent) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(e.Name), f.Name) {
		return false
	}
	if f.Category != "" && string(e.Category) != f.Category {
		return false
	}
	if f.City != "" && !hasCity(e, f.City) {
		return false
	}
	if f.To != nil && domain.Day(e.StartDate).After(*f.To) {
		return false
	}
	if f.From != nil && domain.Day(e.EndDate).Before(*f.From) {
		return false
	}
	return true
}

func hasCity(e *domain.UniversalEvent, city string) bool {
	for _, c := range e.Cities {
		if c.ID == city || strings.Contains(domain.NormalizeCity(c.Name), city) {
			return true
		}
	}
	return false
}
