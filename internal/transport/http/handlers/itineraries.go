package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/itinerary"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/export/calendar"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/transport/http/validate"
)

type ItinerariesHandler struct {
	svc *itinerary.Service
}

func NewItinerariesHandler(svc *itinerary.Service) *ItinerariesHandler {
	return &ItinerariesHandler{svc: svc}
}

// Create builds an itinerary, or answers with the city-selection payload when
// a multi-city event still needs a choice.
func (h *ItinerariesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItineraryReq
	if err := validate.Body(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	res, err := h.svc.Plan(r.Context(), req.ToPlanInput())
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if res.Selection != nil {
		response.Data(w, http.StatusOK, res.Selection)
		return
	}
	response.Data(w, http.StatusCreated, dto.ItineraryResp{
		Intent:      res.Intent,
		ItineraryID: res.ItineraryID,
		Itinerary:   res.Itinerary,
	})
}

func (h *ItinerariesHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "itinerary_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToItineraryResp(rec))
}

// Calendar exports a saved itinerary as text/calendar.
func (h *ItinerariesHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "itinerary_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.ics"`, rec.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(calendar.Encode(rec)))
}
