package itinerary

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/budget"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/phase"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/tracing"
)

type Config struct {
	GenerationTimeout time.Duration
	PricingTimeout    time.Duration
	SelectionTTL      time.Duration
	ItineraryTTL      time.Duration
	Currency          string
}

// Deps are the collaborators of the service. Registry, Generator and Clock
// are required; the rest fall back to no-ops.
type Deps struct {
	Registry    EventRegistry
	Generator   ContentGenerator
	Pricing     PricingEstimator
	Selections  SelectionStore
	Itineraries ItineraryStore
	Publisher   EventPublisher
	Metrics     Metrics
	Clock       Clock
	NewID       func() string
}

type generation struct {
	raw string
	err error
}

type pricing struct {
	price *domain.PriceBreakdown
	err   error
}

type Service struct {
	registry    EventRegistry
	generator   ContentGenerator
	pricing     PricingEstimator
	selections  SelectionStore
	itineraries ItineraryStore
	pub         EventPublisher
	metrics     Metrics
	clock       Clock
	newID       func() string

	cfg Config
}

func New(d Deps, cfg Config) *Service {
	if cfg.GenerationTimeout == 0 {
		cfg.GenerationTimeout = 45 * time.Second
	}
	if cfg.PricingTimeout == 0 {
		cfg.PricingTimeout = 3 * time.Second
	}
	if cfg.SelectionTTL == 0 {
		cfg.SelectionTTL = 30 * time.Minute
	}
	if cfg.ItineraryTTL == 0 {
		cfg.ItineraryTTL = 24 * time.Hour
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}

	s := &Service{
		registry:    d.Registry,
		generator:   d.Generator,
		pricing:     d.Pricing,
		selections:  d.Selections,
		itineraries: d.Itineraries,
		pub:         d.Publisher,
		metrics:     d.Metrics,
		clock:       d.Clock,
		newID:       d.NewID,
		cfg:         cfg,
	}
	if s.selections == nil {
		s.selections = NoopSelectionStore{}
	}
	if s.itineraries == nil {
		s.itineraries = NoopItineraryStore{}
	}
	if s.pub == nil {
		s.pub = NoopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = NoopMetrics{}
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Assemble builds one itinerary. It is all-or-nothing: any generation failure
// returns a generation_failed error and no data. Pricing failures only drop
// the authoritative budget.
func (s *Service) Assemble(ctx context.Context, req domain.ItineraryRequest) (*domain.ItineraryData, error) {
	ctx, span := tracing.StartSpan(ctx, "assemble",
		attribute.Int("itinerary.days", req.Days),
		attribute.Bool("itinerary.event", req.Occurrence != nil),
	)
	data, err := s.build(ctx, req)
	if data != nil {
		span.SetAttributes(
			attribute.Int("itinerary.generated_days", data.GeneratedDays),
			attribute.Int("itinerary.warnings", len(data.Warnings)),
			attribute.String("itinerary.budget_source", string(data.Budget.Source)),
		)
	}
	tracing.End(span, err)
	return data, err
}

func (s *Service) build(ctx context.Context, req domain.ItineraryRequest) (*domain.ItineraryData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.Currency
	}

	var eventDate *time.Time
	if req.Occurrence != nil {
		d := domain.Day(req.Occurrence.EventDate)
		eventDate = &d
	}
	window, err := phase.ResolveWindow(eventDate, req.StartDate, req.EndDate, req.Days, s.clock.Now())
	if err != nil {
		return nil, err
	}
	sched := phase.Classify(eventDate, window)
	brief := BuildBrief(req, sched, currency)

	genCtx, cancelGen := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancelGen()
	priceCtx, cancelPrice := context.WithTimeout(ctx, s.cfg.PricingTimeout)
	defer cancelPrice()

	// Both channels are buffered so a call that outlives its deadline can
	// still deliver and exit; its result is never read.
	genCh := make(chan generation, 1)
	priceCh := make(chan pricing, 1)

	// Generate content
	started := time.Now()
	go func() {
		raw, err := s.generator.Generate(genCtx, brief)
		genCh <- generation{raw: raw, err: err}
	}()

	// Fetch authoritative pricing
	if s.pricing != nil {
		go func() {
			p, err := s.pricing.Estimate(priceCtx, budget.Query{
				Occurrence:  req.Occurrence,
				Start:       window.Start,
				Days:        req.Days,
				BudgetLevel: req.BudgetLevel,
				GroupSize:   req.GroupSize,
				Currency:    currency,
			})
			priceCh <- pricing{price: p, err: err}
		}()
	} else {
		priceCh <- pricing{}
	}

	var gen generation
	select {
	case gen = <-genCh:
		if gen.err == nil && genCtx.Err() != nil {
			gen.err = genCtx.Err()
		}
	case <-genCtx.Done():
		gen.err = genCtx.Err()
	}
	genTook := time.Since(started)
	genErr, raw := gen.err, gen.raw

	if genErr != nil {
		outcome := OutcomeError
		if errors.Is(genErr, context.DeadlineExceeded) {
			outcome = OutcomeTimeout
		}
		s.metrics.ObserveGeneration(outcome, genTook)
		logger.Ctx(ctx).Error().Err(genErr).Str("outcome", outcome).Msg("content generation failed")
		return nil, domain.ErrGenerationFailed(genErr)
	}

	g, err := parseGenerated(raw)
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeUnparsable, genTook)
		logger.Ctx(ctx).Error().Err(err).Int("content_len", len(raw)).Msg("generated content unparsable")
		return nil, domain.ErrGenerationFailed(err)
	}
	if len(g.Days) != req.Days {
		s.metrics.ObserveGeneration(OutcomeDayMismatch, genTook)
	} else {
		s.metrics.ObserveGeneration(OutcomeOK, genTook)
	}

	// A price already delivered is kept even when generation outlasted the
	// pricing deadline.
	var pr pricing
	select {
	case pr = <-priceCh:
	default:
		select {
		case pr = <-priceCh:
		case <-priceCtx.Done():
			pr.err = priceCtx.Err()
		}
	}
	price, priceErr := pr.price, pr.err

	data := assemble(g, req, sched)

	if priceErr != nil {
		logger.Ctx(ctx).Warn().Err(priceErr).Msg("pricing unavailable")
		price = nil
		data.Warnings = append(data.Warnings, domain.Warning{
			Code:    domain.WarnPricingUnavailable,
			Message: "authoritative pricing unavailable; budget is an estimate",
		})
	}
	var genBudget domain.Budget
	if g.Budget != nil {
		genBudget = *g.Budget
	}
	data.Budget = budget.Allocate(genBudget, price, currency)

	return &data, nil
}
