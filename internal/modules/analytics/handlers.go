package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// Handler handles analytics HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

// RegisterRoutes registers all analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolios/{id}/performance", h.HandlePerformance)
	r.Get("/portfolios/compare", h.HandleCompare)
	r.Get("/ratio", h.HandleRatio)
}

// HandlePerformance returns the full performance and risk report for a
// single portfolio.
func (h *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio ID")
		return
	}

	report, err := h.service.ComputePerformance(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int64("portfolio_id", id).Msg("Failed to compute performance")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// HandleCompare compares portfolios given as ?ids=1,2,3
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		h.writeError(w, http.StatusBadRequest, "ids query parameter is required")
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid portfolio ID: "+part)
			return
		}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		h.writeError(w, http.StatusBadRequest, "at least 2 portfolio IDs are required")
		return
	}

	report, err := h.service.ComparePortfolios(r.Context(), ids)
	if err != nil {
		h.log.Error().Err(err).Ints64("portfolio_ids", ids).Msg("Failed to compare portfolios")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// HandleRatio returns the price-ratio series for ?a=TICKER&b=TICKER,
// with an optional ?days= lookback.
func (h *Handler) HandleRatio(w http.ResponseWriter, r *http.Request) {
	tickerA := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("a")))
	tickerB := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("b")))
	if tickerA == "" || tickerB == "" {
		h.writeError(w, http.StatusBadRequest, "both a and b query parameters are required")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	series, err := h.service.ComputeTradeRatio(r.Context(), tickerA, tickerB, days)
	if err != nil {
		h.log.Error().Err(err).
			Str("ticker_a", tickerA).
			Str("ticker_b", tickerB).
			Msg("Failed to compute trade ratio")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, series)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrNoOverlap),
		errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
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
