package swot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/clients/yahoo"
	"github.com/quantfolio/quantfolio/internal/domain"
)

// InfoSource supplies company fundamentals.
type InfoSource interface {
	GetStockInfo(ctx context.Context, symbol string) (*yahoo.StockInfo, error)
}

// PriceSource supplies daily bars for the technical side of the report.
type PriceSource interface {
	GetPriceHistory(ctx context.Context, ticker string, start, end time.Time) ([]domain.PriceBar, error)
}

// Service builds SWOT reports from fundamentals plus a year of prices.
type Service struct {
	info   InfoSource
	prices PriceSource
	log    zerolog.Logger
}

// NewService creates a new SWOT service
func NewService(info InfoSource, prices PriceSource, log zerolog.Logger) *Service {
	return &Service{
		info:   info,
		prices: prices,
		log:    log.With().Str("service", "swot").Logger(),
	}
}

// AnalyzeTicker fetches fundamentals and one year of history for the
// ticker and derives its SWOT report. Fundamentals are required; price
// history is not, the technical findings just come up empty without it.
func (s *Service) AnalyzeTicker(ctx context.Context, ticker string) (*Report, error) {
	info, err := s.info.GetStockInfo(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fundamentals for %s: %w", ticker, domain.ErrDataUnavailable)
	}

	end := time.Now()
	bars, err := s.prices.GetPriceHistory(ctx, ticker, end.AddDate(-1, 0, 0), end)
	if err != nil {
		s.log.Warn().Err(err).
			Str("ticker", ticker).
			Msg("No price history, technical findings skipped")
		bars = nil
	}

	return Analyze(ticker, info, bars), nil
}
