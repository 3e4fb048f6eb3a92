package marketdata

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles market data HTTP requests
type Handler struct {
	service     *Service
	tickers     TickerSource
	benchmark   string
	historyDays int
	log         zerolog.Logger
}

// NewHandler creates a new market data handler
func NewHandler(service *Service, tickers TickerSource, benchmark string, historyDays int, log zerolog.Logger) *Handler {
	return &Handler{
		service:     service,
		tickers:     tickers,
		benchmark:   benchmark,
		historyDays: historyDays,
		log:         log.With().Str("handler", "marketdata").Logger(),
	}
}

// RegisterRoutes registers all market data routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/marketdata/refresh", h.HandleRefresh)
}

// HandleRefresh re-fetches cached history for every tracked ticker plus
// the benchmark. Individual symbol failures are logged, not returned.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.tickers.ListTickers()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list tickers")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	symbols = append(symbols, h.benchmark)

	end := time.Now()
	start := end.AddDate(0, 0, -h.historyDays)
	h.service.RefreshAll(r.Context(), symbols, start, end)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"refreshed": len(symbols),
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
