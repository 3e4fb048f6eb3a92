package marketdata

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TickerSource lists the tickers whose history should be kept warm.
type TickerSource interface {
	ListTickers() ([]string, error)
}

// PriceRefreshJob refreshes cached history for all tracked tickers plus
// the benchmark. Registered with the scheduler for nightly runs.
type PriceRefreshJob struct {
	service     *Service
	tickers     TickerSource
	benchmark   string
	historyDays int
	log         zerolog.Logger
}

// NewPriceRefreshJob creates the nightly refresh job.
func NewPriceRefreshJob(service *Service, tickers TickerSource, benchmark string, historyDays int, log zerolog.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		service:     service,
		tickers:     tickers,
		benchmark:   benchmark,
		historyDays: historyDays,
		log:         log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name implements scheduler.Job.
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Run implements scheduler.Job.
func (j *PriceRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	symbols, err := j.tickers.ListTickers()
	if err != nil {
		return err
	}
	symbols = append(symbols, j.benchmark)

	end := time.Now()
	start := end.AddDate(0, 0, -j.historyDays)

	j.log.Info().Int("symbols", len(symbols)).Msg("Refreshing price history")
	j.service.RefreshAll(ctx, symbols, start, end)

	return nil
}
