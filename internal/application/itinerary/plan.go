package itinerary

import (
	"context"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/resolver"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/logger"
)

const IntentItinerary = "itinerary"

// PlanInput is one inbound build request. The trip is built around, in order
// of precedence: a catalog event (EventID), an occurrence given field by
// field (Occurrence), or a plain destination (Trip.Destination).
type PlanInput struct {
	EventID     string
	CityID      string
	SessionID   string
	SelectionID string

	Occurrence *domain.ResolvedOccurrence

	Trip domain.ItineraryRequest
}

// PlanResult is either a built itinerary or a pending city selection.
type PlanResult struct {
	Intent      string
	ItineraryID string
	Itinerary   *domain.ItineraryData
	Selection   *resolver.CitySelection
}

// Record is the handoff object saved after a build.
type Record struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Itinerary domain.ItineraryData `json:"itinerary"`
}

func (s *Service) Plan(ctx context.Context, in PlanInput) (PlanResult, error) {
	trip := in.Trip
	if err := trip.ValidateTrip(); err != nil {
		return PlanResult{}, err
	}

	occ := in.Occurrence
	if id := strings.TrimSpace(in.EventID); id != "" {
		ev, err := s.registry.Get(ctx, id)
		if err != nil {
			return PlanResult{}, err
		}

		res, err := s.resolve(ctx, ev, in)
		if err != nil {
			return PlanResult{}, err
		}
		if res.State == resolver.StateAwaitingSelection {
			return PlanResult{Intent: resolver.IntentCitySelection, Selection: res.Selection}, nil
		}
		occ = res.Occurrence
	}

	trip.Occurrence = occ
	data, err := s.Assemble(ctx, trip)
	if err != nil {
		return PlanResult{}, err
	}

	rec := &Record{ID: s.newID(), CreatedAt: s.clock.Now().UTC(), Itinerary: *data}
	if err := s.itineraries.SaveItinerary(ctx, rec, s.cfg.ItineraryTTL); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("itinerary_id", rec.ID).Msg("save itinerary failed")
	}
	s.publishBuilt(ctx, rec, trip)

	return PlanResult{Intent: IntentItinerary, ItineraryID: rec.ID, Itinerary: data}, nil
}

// resolve runs the city resolver for a catalog event. Multi-city events with
// no choice yet open a pending selection; a quoted selection_id must belong
// to the event.
func (s *Service) resolve(ctx context.Context, ev domain.UniversalEvent, in PlanInput) (resolver.Result, error) {
	if !ev.MultiCity {
		if in.SessionID != "" {
			return resolver.Resolve(ev, firstNonEmpty(in.CityID, sessionCity(ev, in.SessionID)), in.SessionID)
		}
		occ := resolver.Direct(ev)
		return resolver.Result{State: resolver.StateResolved, Occurrence: &occ}, nil
	}

	if in.CityID == "" && in.SessionID == "" {
		res := resolver.Awaiting(ev)
		res.Selection.SelectionID = s.newID()
		if err := s.selections.PutSelection(ctx, res.Selection.SelectionID, ev.ID, s.cfg.SelectionTTL); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("event_id", ev.ID).Msg("store pending selection failed")
		}
		return res, nil
	}

	if in.SelectionID != "" {
		eventID, found, err := s.selections.GetSelection(ctx, in.SelectionID)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("selection_id", in.SelectionID).Msg("read pending selection failed")
		}
		if found && eventID != ev.ID {
			return resolver.Result{}, domain.ErrInvalidSelection("selection belongs to another event", map[string]string{
				"selection_id": in.SelectionID, "event_id": ev.ID,
			})
		}
	}

	res, err := resolver.Resolve(ev, in.CityID, in.SessionID)
	if err != nil {
		return res, err
	}
	if in.SelectionID != "" {
		if err := s.selections.DeleteSelection(ctx, in.SelectionID); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("selection_id", in.SelectionID).Msg("delete pending selection failed")
		}
	}
	return res, nil
}

func (s *Service) publishBuilt(ctx context.Context, rec *Record, trip domain.ItineraryRequest) {
	payload := ItineraryBuiltPayload{
		ItineraryID:  rec.ID,
		Place:        trip.Place(),
		Days:         trip.Days,
		BudgetLevel:  string(trip.BudgetLevel),
		GroupSize:    trip.GroupSize,
		BudgetSource: string(rec.Itinerary.Budget.Source),
		Warnings:     len(rec.Itinerary.Warnings),
	}
	if occ := trip.Occurrence; occ != nil {
		payload.EventName = occ.EventName
		payload.EventDate = domain.FormatDate(occ.EventDate)
	}

	env := DomainEventEnvelope[ItineraryBuiltPayload]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  s.newID(),
		TraceID:    TraceIDFromContext(ctx),
		OccurredAt: rec.CreatedAt,
		Payload:    payload,
	}
	if err := s.pub.PublishEvent(ctx, RoutingKeyItineraryBuilt, env); err != nil {
		logger.Ctx(ctx).Warn().
			Err(err).
			Str("rk", RoutingKeyItineraryBuilt).
			Str("itinerary_id", rec.ID).
			Msg("publish domain event failed")
	}
}

// Get returns a saved itinerary or not_found.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	rec, found, err := s.itineraries.GetItinerary(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound("itinerary not found")
	}
	return rec, nil
}

func sessionCity(ev domain.UniversalEvent, sessionID string) string {
	if ss, ok := ev.Session(sessionID); ok {
		return ss.CityID
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
