package swot

import (
	"strings"

	"github.com/markcheno/go-talib"

	"github.com/quantfolio/quantfolio/internal/clients/yahoo"
	"github.com/quantfolio/quantfolio/internal/domain"
	"github.com/quantfolio/quantfolio/pkg/formulas"
)

// Fundamental and technical thresholds behind the qualitative findings.
const (
	largeCapFloor       = 1e10
	highMarginFloor     = 0.15
	strongGrowthFloor   = 0.10
	highDebtFloor       = 1.0
	highVolatilityFloor = 0.30

	shortTrendPeriod = 20
	longTrendPeriod  = 50
)

// Report is a qualitative strengths/weaknesses/opportunities/threats
// breakdown for a single ticker.
type Report struct {
	Ticker        string   `json:"ticker"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
	Volatility    float64  `json:"volatility"`
}

// growthIndustries are treated as expansion opportunities.
var growthIndustries = map[string]bool{
	"technology":       true,
	"healthcare":       true,
	"renewable energy": true,
}

// Analyze derives a SWOT report from fundamentals and a year of daily
// bars. Missing fundamentals simply contribute no findings; an empty
// report is a valid outcome, not an error.
func Analyze(ticker string, info *yahoo.StockInfo, bars []domain.PriceBar) *Report {
	report := &Report{Ticker: ticker}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}
	report.Volatility = formulas.AnnualizedVolatility(formulas.Returns(closes))

	report.fillStrengths(info, closes)
	report.fillWeaknesses(info, closes)
	report.fillOpportunities(info)
	report.fillThreats(info)

	return report
}

func (r *Report) fillStrengths(info *yahoo.StockInfo, closes []float64) {
	if info.MarketCap != nil && *info.MarketCap > largeCapFloor {
		r.Strengths = append(r.Strengths, "Strong market position (large cap)")
	}
	if info.ProfitMargin != nil && *info.ProfitMargin > highMarginFloor {
		r.Strengths = append(r.Strengths, "High profit margins")
	}
	if info.RevenueGrowth != nil && *info.RevenueGrowth > strongGrowthFloor {
		r.Strengths = append(r.Strengths, "Strong revenue growth")
	}
	if trend := trendDirection(closes); trend > 0 {
		r.Strengths = append(r.Strengths, "Positive technical trend")
	}
}

func (r *Report) fillWeaknesses(info *yahoo.StockInfo, closes []float64) {
	if info.DebtToEquity != nil && *info.DebtToEquity > highDebtFloor {
		r.Weaknesses = append(r.Weaknesses, "High debt-to-equity ratio")
	}
	if info.ProfitMargin != nil && *info.ProfitMargin < 0 {
		r.Weaknesses = append(r.Weaknesses, "Negative profit margins")
	}
	if trend := trendDirection(closes); trend < 0 {
		r.Weaknesses = append(r.Weaknesses, "Negative technical trend")
	}
}

func (r *Report) fillOpportunities(info *yahoo.StockInfo) {
	if info.Industry != nil && growthIndustries[strings.ToLower(*info.Industry)] {
		r.Opportunities = append(r.Opportunities, "Operating in high-growth industry")
	}
	if info.Country != nil && *info.Country != "US" {
		r.Opportunities = append(r.Opportunities, "International market presence")
	}
}

func (r *Report) fillThreats(info *yahoo.StockInfo) {
	if r.Volatility > highVolatilityFloor {
		r.Threats = append(r.Threats, "High market volatility")
	}
	if info.Sector == nil {
		return
	}
	switch *info.Sector {
	case "Technology", "Consumer Cyclical":
		r.Threats = append(r.Threats, "High competitive pressure")
	case "Healthcare", "Financial Services":
		r.Threats = append(r.Threats, "Regulatory risks")
	}
}

// trendDirection compares the latest close against its 20- and 50-day
// moving averages: +1 when close > SMA20 > SMA50, -1 when the stack is
// fully inverted, 0 otherwise or with too little history.
func trendDirection(closes []float64) int {
	if len(closes) < longTrendPeriod {
		return 0
	}

	short := talib.Sma(closes, shortTrendPeriod)
	long := talib.Sma(closes, longTrendPeriod)
	last := len(closes) - 1

	switch {
	case closes[last] > short[last] && short[last] > long[last]:
		return 1
	case closes[last] < short[last] && short[last] < long[last]:
		return -1
	default:
		return 0
	}
}
