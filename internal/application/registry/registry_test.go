package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/catalog"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return New(c)
}

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func ids(events []domain.UniversalEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "name substring case-insensitive",
			filter: Filter{Name: "  football CUP "},
			want:   []string{"intl-football-cup-2026"},
		},
		{
			name:   "city name substring",
			filter: Filter{City: "angeles"},
			want:   []string{"intl-football-cup-2026"},
		},
		{
			name:   "city id",
			filter: Filter{City: "ber"},
			want:   []string{"northern-lights-tour-2026"},
		},
		{
			name:   "category",
			filter: Filter{Category: "Festival"},
			want:   []string{"lisbon-sound-2026"},
		},
		{
			name:   "range overlap is inclusive on the event end",
			filter: Filter{From: day(t, "2026-07-19"), To: day(t, "2026-07-19")},
			want:   []string{"intl-football-cup-2026"},
		},
		{
			name:   "range overlapping two events sorted by start date",
			filter: Filter{From: day(t, "2026-07-10"), To: day(t, "2026-08-21")},
			want:   []string{"intl-football-cup-2026", "lisbon-sound-2026", "northern-lights-tour-2026"},
		},
		{
			name:   "open-ended from",
			filter: Filter{From: day(t, "2026-10-01")},
			want:   []string{"cloud-systems-summit-2026"},
		},
		{
			name:   "combined filters",
			filter: Filter{Category: "music", City: "paris"},
			want:   []string{"northern-lights-tour-2026"},
		},
		{
			name:   "no match",
			filter: Filter{Name: "nothing like this"},
			want:   []string{},
		},
		{
			name:   "inverted range",
			filter: Filter{From: day(t, "2026-08-01"), To: day(t, "2026-07-01")},
			want:   []string{},
		},
		{
			name:   "unknown category",
			filter: Filter{Category: "opera"},
			want:   []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Search(tc.filter)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestSearch_EmptyFilterReturnsAllOrdered(t *testing.T) {
	r := newRegistry(t)

	got := r.Search(Filter{})
	assert.Equal(t, []string{
		"intl-football-cup-2026",
		"lisbon-sound-2026",
		"northern-lights-tour-2026",
		"cloud-systems-summit-2026",
	}, ids(got))
}

func TestGet(t *testing.T) {
	r := newRegistry(t)

	e, err := r.Get(context.Background(), "lisbon-sound-2026")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon Sound Festival", e.Name)

	_, err = r.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestCitySuggestions(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, []string{"Lisbon"}, r.CitySuggestions("li", 0))
	assert.Equal(t, []string{"Lisbon", "London", "Los Angeles"}, r.CitySuggestions(" L ", 0))
	assert.Equal(t, []string{"Lisbon"}, r.CitySuggestions("l", 1))
	assert.Empty(t, r.CitySuggestions("zzz", 5))
	assert.Len(t, r.CitySuggestions("", 0), 10)
	assert.Len(t, r.CitySuggestions("", 500), 11)
}
