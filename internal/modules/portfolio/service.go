package portfolio

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/clients/yahoo"
	"github.com/quantfolio/quantfolio/internal/domain"
)

// InfoProvider supplies the quote snapshot used when adding a stock.
type InfoProvider interface {
	GetStockInfo(ctx context.Context, symbol string) (*yahoo.StockInfo, error)
}

// Service orchestrates portfolio-of-record operations.
type Service struct {
	repo     *Repository
	provider InfoProvider
	log      zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(repo *Repository, provider InfoProvider, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		log:      log.With().Str("service", "portfolio").Logger(),
	}
}

// AddStock registers a ticker as a position, resolving its sector and
// current price from the provider, and assigns it to the portfolio with
// the given target weight.
func (s *Service) AddStock(ctx context.Context, portfolioID int64, ticker string, shares, weight float64) (*domain.Position, error) {
	info, err := s.provider.GetStockInfo(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, ticker, err)
	}

	pos := domain.Position{
		Ticker: ticker,
		Shares: shares,
		Sector: "Unknown",
	}
	if info.Sector != nil {
		pos.Sector = *info.Sector
	}
	if info.CurrentPrice != nil {
		pos.CurrentPrice = *info.CurrentPrice
	}

	if err := s.repo.UpsertPosition(pos); err != nil {
		return nil, err
	}
	if err := s.repo.AddToPortfolio(portfolioID, ticker, weight); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("ticker", ticker).
		Float64("shares", shares).
		Int64("portfolio_id", portfolioID).
		Msg("Added stock")

	return &pos, nil
}

// GetSummary computes the current-value view of a portfolio from a fresh
// snapshot of its positions and prices.
func (s *Service) GetSummary(portfolioID int64) (*Summary, error) {
	p, err := s.repo.GetPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		PortfolioID:      p.ID,
		Name:             p.Name,
		SectorAllocation: make(map[string]float64),
	}

	for _, pos := range p.Positions {
		value := pos.MarketValue()
		summary.TotalValue += value
		summary.SectorAllocation[pos.Sector] += value
		summary.Positions = append(summary.Positions, PositionBreakdown{
			Ticker: pos.Ticker,
			Shares: pos.Shares,
			Value:  value,
			Sector: pos.Sector,
		})
	}

	// Weights are value shares, distinct from target allocations.
	if summary.TotalValue > 0 {
		for i := range summary.Positions {
			summary.Positions[i].Weight = summary.Positions[i].Value / summary.TotalValue
		}
	}

	sort.Slice(summary.Positions, func(i, j int) bool {
		return summary.Positions[i].Value > summary.Positions[j].Value
	})

	return summary, nil
}
