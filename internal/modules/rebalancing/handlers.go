package rebalancing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// Handler handles allocation update HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "rebalancing").Logger(),
	}
}

// RegisterRoutes registers all rebalancing routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Put("/portfolios/{id}/allocations", h.HandleUpdateAllocations)
}

// UpdateAllocationsRequest is the target weight set, keyed by ticker.
type UpdateAllocationsRequest struct {
	Weights map[string]float64 `json:"weights"`
}

// HandleUpdateAllocations validates and commits a portfolio's target
// allocation. Invalid weights are rejected with the previous allocations
// left in place.
func (h *Handler) HandleUpdateAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio ID")
		return
	}

	var req UpdateAllocationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.service.Rebalance(id, req.Weights); err != nil {
		switch {
		case errors.Is(err, domain.ErrAllocationInvalid):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.log.Error().Err(err).Int64("portfolio_id", id).Msg("Failed to update allocations")
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio_id": id,
		"tickers":      len(req.Weights),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
