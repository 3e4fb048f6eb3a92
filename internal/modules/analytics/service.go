package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
	"github.com/quantfolio/quantfolio/internal/modules/portfolio"
	"github.com/quantfolio/quantfolio/pkg/formulas"
)

// PriceSource supplies ordered daily bars for a ticker and window.
type PriceSource interface {
	GetPriceHistory(ctx context.Context, ticker string, start, end time.Time) ([]domain.PriceBar, error)
}

// PortfolioSource loads a fresh portfolio snapshot for one computation.
type PortfolioSource interface {
	GetPortfolio(id int64) (*domain.Portfolio, error)
}

// Params are the external numeric assumptions behind benchmark-relative
// metrics. They are configuration, not derived values.
type Params struct {
	RiskFreeRate        float64
	AssumedMarketReturn float64
	BenchmarkSymbol     string
	HistoryDays         int
}

// Service is the analytics engine: a pure, synchronous computation
// pipeline over snapshots supplied by its collaborators. Every report is
// recomputed on demand; nothing here is cached or mutated.
type Service struct {
	prices     PriceSource
	portfolios PortfolioSource
	params     Params
	log        zerolog.Logger
}

// NewService creates a new analytics service
func NewService(prices PriceSource, portfolios PortfolioSource, params Params, log zerolog.Logger) *Service {
	return &Service{
		prices:     prices,
		portfolios: portfolios,
		params:     params,
		log:        log.With().Str("service", "analytics").Logger(),
	}
}

// ComputePerformance builds the full performance and risk report for one
// portfolio. Returns domain.ErrInsufficientData when no constituent has
// price history.
func (s *Service) ComputePerformance(ctx context.Context, portfolioID int64) (*PerformanceReport, error) {
	p, err := s.portfolios.GetPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -s.params.HistoryDays)

	constituents := make([]Constituent, 0, len(p.Allocations))
	for _, alloc := range p.Allocations {
		bars, err := s.prices.GetPriceHistory(ctx, alloc.Ticker, start, end)
		if err != nil {
			// Absent data degrades the aggregate; it never stalls the
			// whole portfolio computation.
			s.log.Warn().Err(err).
				Str("ticker", alloc.Ticker).
				Int64("portfolio_id", portfolioID).
				Msg("No price history for constituent")
			continue
		}
		constituents = append(constituents, Constituent{
			Ticker:  alloc.Ticker,
			Weight:  alloc.Weight,
			Returns: DailyReturns(bars),
		})
	}

	series := AggregateWeighted(constituents)
	if len(series) == 0 {
		return nil, fmt.Errorf("portfolio %d: %w", portfolioID, domain.ErrInsufficientData)
	}

	report := &PerformanceReport{
		PortfolioID:      p.ID,
		Name:             p.Name,
		SectorAllocation: make(map[string]float64),
		DailyReturns:     series,
	}
	s.fillValuation(report, p)
	s.fillMetrics(ctx, report, series, start, end)

	return report, nil
}

// fillValuation computes total value, per-position breakdown and sector
// allocation from the snapshot's positions and current prices.
func (s *Service) fillValuation(report *PerformanceReport, p *domain.Portfolio) {
	for _, pos := range p.Positions {
		value := pos.MarketValue()
		report.TotalValue += value
		report.SectorAllocation[pos.Sector] += value
		report.Positions = append(report.Positions, portfolio.PositionBreakdown{
			Ticker: pos.Ticker,
			Shares: pos.Shares,
			Value:  value,
			Sector: pos.Sector,
		})
	}
	if report.TotalValue > 0 {
		for i := range report.Positions {
			report.Positions[i].Weight = report.Positions[i].Value / report.TotalValue
		}
	}
}

// fillMetrics derives all performance and risk measures from the
// aggregated series, degrading benchmark-relative metrics to zero when
// the benchmark cannot be retrieved.
func (s *Service) fillMetrics(ctx context.Context, report *PerformanceReport, series domain.ReturnSeries, start, end time.Time) {
	returns := series.Values()

	report.Metrics = Metrics{
		TotalReturn:      formulas.TotalReturn(returns),
		AnnualizedReturn: formulas.AnnualizedReturn(returns),
		Volatility:       formulas.AnnualizedVolatility(returns),
		SharpeRatio:      formulas.SharpeRatio(returns),
		SortinoRatio:     formulas.SortinoRatio(returns),
		CalmarRatio:      formulas.CalmarRatio(returns),
		MaxDrawdown:      formulas.MaxDrawdown(returns),
	}
	report.RiskMetrics = RiskMetrics{
		VaR95:  formulas.HistoricalVaR(returns, 0.95),
		VaR99:  formulas.HistoricalVaR(returns, 0.99),
		CVaR95: formulas.CVaR(returns, 0.95),
		CVaR99: formulas.CVaR(returns, 0.99),
	}

	benchmark, err := s.benchmarkReturns(ctx, start, end)
	if err != nil {
		// Degraded, not absent: the report still renders, with the
		// status telling "could not compute" apart from "truly zero".
		s.log.Warn().Err(err).
			Str("benchmark", s.params.BenchmarkSymbol).
			Msg("Benchmark unavailable, beta/alpha/tracking error degraded to 0")
		report.BenchmarkStatus = BenchmarkUnavailable
		return
	}

	portRets, benchRets := AlignSeries(series, benchmark)
	beta := formulas.Beta(portRets, benchRets)

	report.Metrics.Beta = beta
	report.Metrics.Alpha = formulas.Alpha(
		report.Metrics.AnnualizedReturn,
		beta,
		s.params.RiskFreeRate,
		s.params.AssumedMarketReturn,
	)
	report.RiskMetrics.TrackingError = formulas.TrackingError(portRets, benchRets)
	report.BenchmarkStatus = BenchmarkComputed
}

// benchmarkReturns fetches the benchmark's return series for the window.
func (s *Service) benchmarkReturns(ctx context.Context, start, end time.Time) (domain.ReturnSeries, error) {
	bars, err := s.prices.GetPriceHistory(ctx, s.params.BenchmarkSymbol, start, end)
	if err != nil {
		return nil, err
	}
	series := DailyReturns(bars)
	if len(series) == 0 {
		return nil, fmt.Errorf("benchmark %s: %w", s.params.BenchmarkSymbol, domain.ErrInsufficientData)
	}
	return series, nil
}

// ComparePortfolios analyzes several portfolios side by side. Portfolios
// whose report cannot be produced are excluded, not fatal; fewer than 2
// usable portfolios is domain.ErrInsufficientData, never a one-row
// comparison.
func (s *Service) ComparePortfolios(ctx context.Context, portfolioIDs []int64) (*ComparisonReport, error) {
	var reports []*PerformanceReport
	for _, id := range portfolioIDs {
		report, err := s.ComputePerformance(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).
				Int64("portfolio_id", id).
				Msg("Skipping portfolio in comparison")
			continue
		}
		reports = append(reports, report)
	}

	if len(reports) < 2 {
		return nil, fmt.Errorf("%d usable of %d requested portfolios: %w",
			len(reports), len(portfolioIDs), domain.ErrInsufficientData)
	}

	comparison := &ComparisonReport{
		CorrelationMatrix: make([][]float64, len(reports)),
		CumulativeReturns: make(map[string][]CurvePoint),
	}

	for i, report := range reports {
		comparison.Portfolios = append(comparison.Portfolios, ComparisonRow{
			PortfolioID: report.PortfolioID,
			Name:        report.Name,
			Metrics:     report.Metrics,
			RiskMetrics: report.RiskMetrics,
		})

		// Pearson correlation over each pair's shared dates.
		comparison.CorrelationMatrix[i] = make([]float64, len(reports))
		for j := range reports {
			if i == j {
				comparison.CorrelationMatrix[i][j] = 1
				continue
			}
			x, y := AlignSeries(report.DailyReturns, reports[j].DailyReturns)
			comparison.CorrelationMatrix[i][j] = formulas.Correlation(x, y)
		}

		// Curves compound from each series' own first observation.
		curve := formulas.CumulativeCurve(report.DailyReturns.Values())
		points := make([]CurvePoint, len(curve))
		for k, v := range curve {
			points[k] = CurvePoint{Date: report.DailyReturns[k].Date, Value: v}
		}
		comparison.CumulativeReturns[report.Name] = points
	}

	return comparison, nil
}

// ComputeTradeRatio builds the price-ratio signal between two tickers
// over a lookback window of calendar days.
func (s *Service) ComputeTradeRatio(ctx context.Context, tickerA, tickerB string, days int) (*RatioSeries, error) {
	if days <= 0 {
		days = s.params.HistoryDays
	}
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	barsA, err := s.prices.GetPriceHistory(ctx, tickerA, start, end)
	if err != nil {
		return nil, err
	}
	barsB, err := s.prices.GetPriceHistory(ctx, tickerB, start, end)
	if err != nil {
		return nil, err
	}

	return ComputeRatio(tickerA, tickerB, barsA, barsB)
}
