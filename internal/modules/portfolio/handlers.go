package portfolio

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

// Handler handles portfolio HTTP requests
type Handler struct {
	repo    *Repository
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(repo *Repository, service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		repo:    repo,
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// RegisterRoutes registers all portfolio routes. Kept flat so sibling
// modules can hang their own routes off /portfolios/{id}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolios", h.HandleList)
	r.Post("/portfolios", h.HandleCreate)
	r.Get("/portfolios/{id}", h.HandleGet)
	r.Delete("/portfolios/{id}", h.HandleDelete)
	r.Get("/portfolios/{id}/summary", h.HandleSummary)
	r.Post("/portfolios/{id}/stocks", h.HandleAddStock)
	r.Delete("/portfolios/{id}/stocks/{ticker}", h.HandleRemoveStock)
}

// HandleList returns all portfolios
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.repo.ListPortfolios()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list portfolios")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if portfolios == nil {
		portfolios = []domain.Portfolio{}
	}
	h.writeJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolioRequest is the body for portfolio creation.
type CreatePortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate creates a new, empty portfolio
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.repo.CreatePortfolio(req.Name, req.Description)
	if err != nil {
		h.log.Error().Err(err).Str("name", req.Name).Msg("Failed to create portfolio")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id, "name": req.Name})
}

// HandleGet returns one portfolio with its allocations and positions
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	p, err := h.repo.GetPortfolio(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Int64("portfolio_id", id).Msg("Failed to get portfolio")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// HandleDelete removes a portfolio and its allocations
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeletePortfolio(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Int64("portfolio_id", id).Msg("Failed to delete portfolio")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSummary returns the portfolio's valuation breakdown
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Int64("portfolio_id", id).Msg("Failed to build summary")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// AddStockRequest is the body for adding a holding to a portfolio.
type AddStockRequest struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
	Weight float64 `json:"weight"`
}

// HandleAddStock adds a holding, snapshotting its current price and
// sector from the market data provider.
func (h *Handler) HandleAddStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req AddStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if req.Ticker == "" {
		h.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	if req.Shares < 0 || req.Weight < 0 || req.Weight > 1 {
		h.writeError(w, http.StatusBadRequest, "shares must be >= 0 and weight in [0, 1]")
		return
	}

	pos, err := h.service.AddStock(r.Context(), id, req.Ticker, req.Shares, req.Weight)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrDataUnavailable):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to add stock")
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, pos)
}

// HandleRemoveStock drops a holding from a portfolio
func (h *Handler) HandleRemoveStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	if err := h.repo.RemoveFromPortfolio(id, ticker); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to remove stock")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio ID")
		return 0, false
	}
	return id, true
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
