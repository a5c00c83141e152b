package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/domain"
	pkgctx "github.com/baechuer/real-time-ressys/services/itinerary-service/internal/pkg/context"
)

func TestErr(t *testing.T) {
	t.Run("maps_domain_error_to_correct_status", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"validation", domain.ErrInvalidRequest("invalid trip length"), http.StatusBadRequest, "validation_error"},
			{"not_found", domain.ErrNotFound("event not found"), http.StatusNotFound, "not_found"},
			{"invalid_selection", domain.ErrInvalidSelection("city not found in event", nil), http.StatusUnprocessableEntity, "invalid_selection"},
			{"generation_failed", domain.ErrGenerationFailed(errors.New("upstream 503")), http.StatusBadGateway, "generation_failed"},
			{"generic_error", errors.New("db crash"), http.StatusInternalServerError, "internal_error"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rr := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
				Err(rr, req, tt.err)

				assert.Equal(t, tt.wantStatus, rr.Code)

				var body ErrorBody
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Error.Code)
			})
		}
	})

	t.Run("cause_is_not_rendered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		Err(rr, req, domain.ErrGenerationFailed(errors.New("secret upstream detail")))

		assert.NotContains(t, rr.Body.String(), "secret upstream detail")
		assert.Contains(t, rr.Body.String(), "could not build itinerary")
	})

	t.Run("carries_meta_and_request_id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(pkgctx.WithRequestID(req.Context(), "req-1"))
		Err(rr, req, domain.ErrInvalidRequestMeta("invalid trip length", map[string]string{"days": "must be between 1 and 30"}))

		var body ErrorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "req-1", body.Error.RequestID)
		assert.Equal(t, "must be between 1 and 30", body.Error.Meta["days"])
	})
}

func TestData(t *testing.T) {
	t.Run("wraps_payload_in_data_envelope", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Data(rr, http.StatusOK, map[string]string{"id": "123"})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

		var env Envelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
		dataMap := env.Data.(map[string]any)
		assert.Equal(t, "123", dataMap["id"])
	})
}
