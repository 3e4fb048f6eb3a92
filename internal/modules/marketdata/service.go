package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// Provider fetches daily history from an upstream market-data source.
type Provider interface {
	GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PriceBar, error)
}

// Service is the price series store: locally cached OHLCV history backed
// by an upstream provider. A miss triggers a provider fetch; a symbol the
// provider cannot serve yields domain.ErrDataUnavailable.
type Service struct {
	historyDB *HistoryDB
	provider  Provider
	log       zerolog.Logger
}

// NewService creates a new market data service
func NewService(historyDB *HistoryDB, provider Provider, log zerolog.Logger) *Service {
	return &Service{
		historyDB: historyDB,
		provider:  provider,
		log:       log.With().Str("service", "marketdata").Logger(),
	}
}

// GetPriceHistory returns daily bars for a ticker within [start, end],
// ordered by date ascending. The local store is consulted first; on a
// miss the provider is queried and the result cached.
func (s *Service) GetPriceHistory(ctx context.Context, ticker string, start, end time.Time) ([]domain.PriceBar, error) {
	startDate := start.Format("2006-01-02")
	endDate := end.Format("2006-01-02")

	bars, err := s.historyDB.GetDailyPrices(ticker, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to read price history for %s: %w", ticker, err)
	}
	if len(bars) > 0 {
		return bars, nil
	}

	if err := s.RefreshSymbol(ctx, ticker, start, end); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, ticker, err)
	}

	bars, err = s.historyDB.GetDailyPrices(ticker, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to read price history for %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s has no bars in window", domain.ErrDataUnavailable, ticker)
	}

	return bars, nil
}

// RefreshSymbol fetches the provider's history for one symbol and stores it.
func (s *Service) RefreshSymbol(ctx context.Context, symbol string, start, end time.Time) error {
	bars, err := s.provider.GetDailyHistory(ctx, symbol, start, end)
	if err != nil {
		return fmt.Errorf("provider fetch failed for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("provider returned no bars for %s", symbol)
	}

	if err := s.historyDB.SaveDailyPrices(symbol, bars); err != nil {
		return fmt.Errorf("failed to store bars for %s: %w", symbol, err)
	}

	s.log.Info().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Msg("Refreshed price history")

	return nil
}

// RefreshAll refreshes every symbol, fetching up to maxConcurrent symbols
// in parallel. One symbol's failure never aborts the rest: its absence
// degrades downstream aggregates instead.
func (s *Service) RefreshAll(ctx context.Context, symbols []string, start, end time.Time) {
	const maxConcurrent = 4

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for _, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}

		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.RefreshSymbol(ctx, symbol, start, end); err != nil {
				s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to refresh symbol")
			}
		}(symbol)
	}

	wg.Wait()
}
