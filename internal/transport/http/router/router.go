package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/handlers"
	mw "github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/middleware"
)

const serviceName = "itinerary-service"

func New(
	ev *handlers.EventsHandler,
	it *handlers.ItinerariesHandler,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.Tracing(serviceName))
	r.Use(mw.Metrics)
	r.Use(mw.AccessLog)

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/itinerary/v1", func(r chi.Router) {
		r.Get("/events", ev.List)
		r.Get("/events/{event_id}", ev.Get)
		r.Get("/events/{event_id}/cities", ev.Cities)
		r.Get("/cities", ev.CitySuggestions)

		r.Get("/itineraries/{itinerary_id}", it.Get)
		r.Get("/itineraries/{itinerary_id}/calendar.ics", it.Calendar)

		// builds call the content generator; limit them per IP
		r.Group(func(r chi.Router) {
			if cfg.RLEnabled {
				r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
			}
			r.Post("/itineraries", it.Create)
		})
	})

	return r
}
