package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/budget"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/itinerary"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/registry"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/catalog"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/infrastructure/llm/openai"
	rabbitpub "github.com/baechuer/real-time-ressys/services/itinerary-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/infrastructure/metrics"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/tracing"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/router"
)

const (
	serviceName    = "itinerary-service"
	serviceVersion = "1.0.0"
)

// sysClock implements itinerary.Clock using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// unconfiguredGenerator fails every build when no API key is set. Only
// allowed in dev; catalog and selection endpoints keep working.
type unconfiguredGenerator struct{}

var errGeneratorUnconfigured = errors.New("content generator not configured: OPENAI_API_KEY is empty")

func (unconfiguredGenerator) Generate(context.Context, itinerary.Brief) (string, error) {
	return "", errGeneratorUnconfigured
}

// App holds all dependencies for the service
type App struct {
	Config *config.Config
	Server *http.Server

	Redis     *redis.Client
	Publisher *rabbitpub.Publisher
}

func (a *App) Close() {
	if a.Publisher != nil {
		_ = a.Publisher.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracing(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.AppEnv,
		OTLPEndpoint:   cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("tracing init failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(sctx)
	}()

	db, err := openCatalogDB(ctx, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("catalog db init failed")
	}
	if db != nil {
		defer db.Close()
	}

	cat, err := loadCatalog(ctx, cfg, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("catalog load failed")
	}
	zlog.Info().Int("events", cat.Len()).Msg("catalog loaded")

	app, err := NewApp(cfg, cat, db, prometheus.DefaultRegisterer)
	if err != nil {
		zlog.Fatal().Err(err).Msg("app init failed")
	}
	defer app.Close()

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		zlog.Error().Err(err).Msg("server crashed")
	case <-ctx.Done():
		zlog.Info().Msg("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout+5*time.Second)
	defer cancel()
	if err := app.Server.Shutdown(sctx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openCatalogDB returns nil when no DATABASE_URL is configured.
func openCatalogDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// loadCatalog reads events from Postgres when db is set, else from
// CATALOG_PATH, else from the embedded seed.
func loadCatalog(ctx context.Context, cfg *config.Config, db *sql.DB) (*catalog.Catalog, error) {
	switch {
	case db != nil:
		events, err := postgres.NewCatalogRepo(db).LoadEvents(ctx)
		if err != nil {
			return nil, err
		}
		zlog.Info().Str("source", "postgres").Msg("catalog source")
		return catalog.New(events)
	case cfg.CatalogPath != "":
		zlog.Info().Str("source", cfg.CatalogPath).Msg("catalog source")
		return catalog.LoadFile(cfg.CatalogPath)
	default:
		zlog.Info().Str("source", "embedded").Msg("catalog source")
		return catalog.Default()
	}
}

func newRedis(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	return redis.New(url)
}

func NewApp(cfg *config.Config, cat *catalog.Catalog, db *sql.DB, reg prometheus.Registerer) (*App, error) {
	app := &App{Config: cfg}
	var checkers []handlers.ReadinessChecker

	// 1) Infrastructure
	if db != nil {
		checkers = append(checkers, handlers.NewPingChecker("postgres", db.PingContext))
	}

	var (
		selections  itinerary.SelectionStore = itinerary.NoopSelectionStore{}
		itineraries itinerary.ItineraryStore = itinerary.NoopItineraryStore{}
	)
	switch rc, err := newRedis(cfg.RedisURL); {
	case err != nil:
		zlog.Warn().Err(err).Msg("redis unavailable: selections and itineraries will not be kept")
	case rc == nil:
		zlog.Warn().Msg("REDIS_URL empty: selections and itineraries will not be kept")
	default:
		app.Redis = rc
		selections = redis.NewSelectionStore(rc)
		itineraries = redis.NewItineraryStore(rc)
		checkers = append(checkers, handlers.NewPingChecker("redis", rc.Ping))
		zlog.Info().Msg("redis stores ready")
	}

	var pub itinerary.EventPublisher = itinerary.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("rabbit publisher init: %w", err)
		}
		app.Publisher = p
		pub = p
		checkers = append(checkers, handlers.NewPingChecker("rabbitmq", p.Ping))
		zlog.Info().Str("exchange", p.Exchange()).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	var gen itinerary.ContentGenerator = unconfiguredGenerator{}
	if cfg.OpenAIAPIKey != "" {
		g, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithBaseURL(cfg.OpenAIBaseURL),
			openai.WithModel(cfg.OpenAIModel),
			openai.WithHTTPClient(&http.Client{Timeout: cfg.GenerationTimeout + 5*time.Second}),
		)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("generator init: %w", err)
		}
		gen = g
	} else {
		zlog.Warn().Msg("OPENAI_API_KEY empty: itinerary builds will fail")
	}

	// 2) Application
	events := registry.New(cat)
	svc := itinerary.New(itinerary.Deps{
		Registry:    events,
		Generator:   gen,
		Pricing:     budget.NewHintsEstimator(cat),
		Selections:  selections,
		Itineraries: itineraries,
		Publisher:   pub,
		Metrics:     metrics.NewGeneration(reg),
		Clock:       sysClock{},
	}, itinerary.Config{
		GenerationTimeout: cfg.GenerationTimeout,
		PricingTimeout:    cfg.PricingTimeout,
		SelectionTTL:      cfg.SelectionTTL,
		ItineraryTTL:      cfg.ItineraryTTL,
		Currency:          cfg.DefaultCurrency,
	})

	// 3) Transport
	ev := handlers.NewEventsHandler(events)
	it := handlers.NewItinerariesHandler(svc)
	z := handlers.NewHealthHandler(checkers...)

	// 4) Router
	httpHandler := router.New(ev, it, z, cfg)

	// 5) Server
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return app, nil
}
