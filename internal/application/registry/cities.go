package registry

import (
	"sort"
	"strings"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

const (
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
)

// CitySuggestions returns distinct catalog city names whose normalized name
// starts with q, alphabetically.
func (r *Registry) CitySuggestions(q string, limit int) []string {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}
	prefix := domain.NormalizeCity(q)

	seen := map[string]string{}
	r.events.Each(func(e *domain.UniversalEvent) bool {
		for _, c := range e.Cities {
			key := domain.NormalizeCity(c.Name)
			if key == "" || !strings.HasPrefix(key, prefix) {
				continue
			}
			if _, ok := seen[key]; !ok {
				seen[key] = c.Name
			}
		}
		return true
	})

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}
