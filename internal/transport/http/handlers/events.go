package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/registry"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/resolver"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/response"
)

type EventsHandler struct {
	reg *registry.Registry
}

func NewEventsHandler(reg *registry.Registry) *EventsHandler {
	return &EventsHandler{reg: reg}
}

// List searches the catalog. from/to are YYYY-MM-DD.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := q.Get("category")
	if category != "" && !domain.Category(category).Valid() {
		response.Err(w, r, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			"category": "must be one of: sports, music, festival, conference, other",
		}))
		return
	}

	from, err := queryDate(q.Get("from"))
	if err != nil {
		response.Err(w, r, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			"from": "must be YYYY-MM-DD",
		}))
		return
	}
	to, err := queryDate(q.Get("to"))
	if err != nil {
		response.Err(w, r, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			"to": "must be YYYY-MM-DD",
		}))
		return
	}

	items := h.reg.Search(registry.Filter{
		Name:     q.Get("q"),
		City:     q.Get("city"),
		Category: category,
		From:     from,
		To:       to,
	})
	response.Data(w, http.StatusOK, dto.ToEventList(items))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.reg.Get(r.Context(), chi.URLParam(r, "event_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventResp(ev))
}

// Cities returns the city-selection options of an event.
func (h *EventsHandler) Cities(w http.ResponseWriter, r *http.Request) {
	ev, err := h.reg.Get(r.Context(), chi.URLParam(r, "event_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, resolver.Options(ev))
}

// CitySuggestions serves the destination autocomplete.
func (h *EventsHandler) CitySuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.Err(w, r, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
				"limit": "must be a non-negative integer",
			}))
			return
		}
		limit = n
	}

	items := h.reg.CitySuggestions(q.Get("q"), limit)
	response.Data(w, http.StatusOK, dto.ListResp[string]{Items: items, Total: len(items)})
}

func queryDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
