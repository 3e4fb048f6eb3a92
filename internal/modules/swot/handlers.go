package swot

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// Handler handles SWOT HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new SWOT handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "swot").Logger(),
	}
}

// RegisterRoutes registers all SWOT routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/swot/{ticker}", h.HandleAnalyze)
}

// HandleAnalyze returns the SWOT report for one ticker.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
	if ticker == "" {
		h.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	report, err := h.service.AnalyzeTicker(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, domain.ErrDataUnavailable) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to analyze ticker")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
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
