package domain

import (
	"strings"
	"time"
)

type BudgetLevel string

const (
	BudgetLevelBudget BudgetLevel = "budget"
	BudgetLevelMid    BudgetLevel = "mid"
	BudgetLevelLuxury BudgetLevel = "luxury"
)

// ParseBudgetLevel accepts the canonical tiers plus the "mid-range" alias.
func ParseBudgetLevel(s string) (BudgetLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "budget":
		return BudgetLevelBudget, true
	case "mid", "mid-range", "midrange":
		return BudgetLevelMid, true
	case "luxury":
		return BudgetLevelLuxury, true
	}
	return "", false
}

type GroupType string

const (
	GroupSolo   GroupType = "solo"
	GroupCouple GroupType = "couple"
	GroupFamily GroupType = "family"
	GroupGroup  GroupType = "group"
)

func (g GroupType) Valid() bool {
	switch g {
	case "", GroupSolo, GroupCouple, GroupFamily, GroupGroup:
		return true
	}
	return false
}

const (
	MinTripDays = 1
	MaxTripDays = 30
)

// ItineraryRequest is the assembled input of one itinerary build.
// Occurrence is nil for pure destination trips.
type ItineraryRequest struct {
	Destination string
	Occurrence  *ResolvedOccurrence

	Days        int
	BudgetLevel BudgetLevel
	GroupSize   int
	GroupType   GroupType
	StartDate   *time.Time
	EndDate     *time.Time
	Currency    string

	Optimize bool
	Team     string
	MatchIDs []string
}

// Place is the city the trip is built around.
func (r *ItineraryRequest) Place() string {
	if r.Occurrence != nil && r.Occurrence.City != "" {
		return r.Occurrence.City
	}
	return strings.TrimSpace(r.Destination)
}

// Validate rejects malformed requests before any external call is made.
func (r *ItineraryRequest) Validate() error {
	if err := r.ValidateTrip(); err != nil {
		return err
	}
	if r.Occurrence == nil && strings.TrimSpace(r.Destination) == "" {
		return ErrInvalidRequest("a destination or an event is required")
	}
	if r.Occurrence != nil {
		if strings.TrimSpace(r.Occurrence.EventName) == "" {
			return ErrInvalidRequestMeta("invalid event", map[string]string{"eventName": "is required"})
		}
		if r.Occurrence.EventDate.IsZero() {
			return ErrInvalidRequestMeta("invalid event", map[string]string{"eventDate": "is required"})
		}
		if !r.Occurrence.EventType.Valid() {
			return ErrInvalidRequestMeta("invalid event", map[string]string{"eventType": "must be one of: sports, music, festivals"})
		}
	}
	return nil
}

// ValidateTrip checks the trip parameters only: length, budget, group and dates.
func (r *ItineraryRequest) ValidateTrip() error {
	if r.Days < MinTripDays || r.Days > MaxTripDays {
		return ErrInvalidRequestMeta("invalid trip length", map[string]string{
			"days": "must be between 1 and 30",
		})
	}
	switch r.BudgetLevel {
	case BudgetLevelBudget, BudgetLevelMid, BudgetLevelLuxury:
	default:
		return ErrInvalidRequestMeta("invalid budget", map[string]string{"budget": "must be one of: budget, mid-range, luxury"})
	}
	if r.GroupSize < 1 {
		return ErrInvalidRequestMeta("invalid group", map[string]string{"groupSize": "must be >= 1"})
	}
	if !r.GroupType.Valid() {
		return ErrInvalidRequestMeta("invalid group", map[string]string{"groupType": "must be one of: solo, couple, family, group"})
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return ErrInvalidRequest("endDate must be >= startDate")
	}
	return nil
}
