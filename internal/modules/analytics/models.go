package analytics

import (
	"github.com/quantfolio/quantfolio/internal/domain"
	"github.com/quantfolio/quantfolio/internal/modules/portfolio"
)

// BenchmarkStatus distinguishes metrics that are truly zero from metrics
// that could not be computed because the benchmark was unavailable.
type BenchmarkStatus string

const (
	// BenchmarkComputed means beta/alpha/tracking error reflect real data.
	BenchmarkComputed BenchmarkStatus = "computed"
	// BenchmarkUnavailable means benchmark retrieval failed and the
	// dependent metrics were degraded to 0.
	BenchmarkUnavailable BenchmarkStatus = "unavailable"
)

// Metrics holds the risk-adjusted performance measures of one return
// series. Degenerate denominators report 0, never NaN.
type Metrics struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`
	CalmarRatio      float64 `json:"calmar_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	Beta             float64 `json:"beta"`
	Alpha            float64 `json:"alpha"`
}

// RiskMetrics holds tail-risk and benchmark-relative measures.
type RiskMetrics struct {
	VaR95         float64 `json:"var_95"`
	VaR99         float64 `json:"var_99"`
	CVaR95        float64 `json:"cvar_95"`
	CVaR99        float64 `json:"cvar_99"`
	TrackingError float64 `json:"tracking_error"`
}

// PerformanceReport is the full on-demand analysis of one portfolio.
// Derived from a fresh snapshot of positions and prices; never the
// source of truth.
type PerformanceReport struct {
	PortfolioID      int64                         `json:"portfolio_id"`
	Name             string                        `json:"name"`
	TotalValue       float64                       `json:"total_value"`
	Positions        []portfolio.PositionBreakdown `json:"positions"`
	SectorAllocation map[string]float64            `json:"sector_allocation"`
	DailyReturns     domain.ReturnSeries           `json:"daily_returns"`
	Metrics          Metrics                       `json:"metrics"`
	RiskMetrics      RiskMetrics                   `json:"risk_metrics"`
	BenchmarkStatus  BenchmarkStatus               `json:"benchmark_status"`
}

// CurvePoint is one dated value of a cumulative growth curve.
type CurvePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ComparisonRow is one portfolio's metrics inside a comparison.
type ComparisonRow struct {
	PortfolioID int64       `json:"portfolio_id"`
	Name        string      `json:"name"`
	Metrics     Metrics     `json:"metrics"`
	RiskMetrics RiskMetrics `json:"risk_metrics"`
}

// ComparisonReport compares several portfolios: a metrics table, the
// Pearson correlation matrix of their return series (pairwise aligned by
// shared dates) and each portfolio's cumulative-return curve from its
// own first observation.
type ComparisonReport struct {
	Portfolios        []ComparisonRow         `json:"portfolios"`
	CorrelationMatrix [][]float64             `json:"correlation_matrix"`
	CumulativeReturns map[string][]CurvePoint `json:"cumulative_returns"`
}

// RatioPoint is one dated price ratio with its trailing moving average.
// Trend is nil inside the leading SMA warmup window.
type RatioPoint struct {
	Date  string   `json:"date"`
	Ratio float64  `json:"ratio"`
	Trend *float64 `json:"trend,omitempty"`
}

// RatioSeries is the pairwise price-ratio signal between two tickers
// over the intersection of their trading calendars.
type RatioSeries struct {
	TickerA      string       `json:"ticker_a"`
	TickerB      string       `json:"ticker_b"`
	Points       []RatioPoint `json:"points"`
	CurrentRatio float64      `json:"current_ratio"`
}
