package swot

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantfolio/quantfolio/internal/clients/yahoo"
	"github.com/quantfolio/quantfolio/internal/domain"
)

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

// trendingBars produces n daily bars whose closes follow the given
// step per day, starting from base.
func trendingBars(n int, base, step float64) []domain.PriceBar {
	out := make([]domain.PriceBar, n)
	for i := range out {
		out[i] = domain.PriceBar{
			Date:  fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
			Close: base + step*float64(i),
		}
	}
	return out
}

func TestAnalyzeFundamentals(t *testing.T) {
	tests := []struct {
		name string
		info yahoo.StockInfo
		want func(t *testing.T, r *Report)
	}{
		{
			name: "large cap with high margins",
			info: yahoo.StockInfo{MarketCap: f64(2e10), ProfitMargin: f64(0.20)},
			want: func(t *testing.T, r *Report) {
				assert.Contains(t, r.Strengths, "Strong market position (large cap)")
				assert.Contains(t, r.Strengths, "High profit margins")
			},
		},
		{
			name: "growth company",
			info: yahoo.StockInfo{RevenueGrowth: f64(0.25)},
			want: func(t *testing.T, r *Report) {
				assert.Contains(t, r.Strengths, "Strong revenue growth")
			},
		},
		{
			name: "leveraged and unprofitable",
			info: yahoo.StockInfo{DebtToEquity: f64(2.5), ProfitMargin: f64(-0.05)},
			want: func(t *testing.T, r *Report) {
				assert.Contains(t, r.Weaknesses, "High debt-to-equity ratio")
				assert.Contains(t, r.Weaknesses, "Negative profit margins")
			},
		},
		{
			name: "foreign healthcare company",
			info: yahoo.StockInfo{Industry: str("Healthcare"), Country: str("Denmark"), Sector: str("Healthcare")},
			want: func(t *testing.T, r *Report) {
				assert.Contains(t, r.Opportunities, "Operating in high-growth industry")
				assert.Contains(t, r.Opportunities, "International market presence")
				assert.Contains(t, r.Threats, "Regulatory risks")
			},
		},
		{
			name: "US tech sector",
			info: yahoo.StockInfo{Country: str("US"), Sector: str("Technology")},
			want: func(t *testing.T, r *Report) {
				assert.NotContains(t, r.Opportunities, "International market presence")
				assert.Contains(t, r.Threats, "High competitive pressure")
			},
		},
		{
			name: "no fundamentals at all",
			info: yahoo.StockInfo{},
			want: func(t *testing.T, r *Report) {
				assert.Empty(t, r.Strengths)
				assert.Empty(t, r.Weaknesses)
				assert.Empty(t, r.Opportunities)
				assert.Empty(t, r.Threats)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, Analyze("TEST", &tt.info, nil))
		})
	}
}

func TestAnalyzeTechnicals(t *testing.T) {
	t.Run("steady uptrend is a strength", func(t *testing.T) {
		report := Analyze("TEST", &yahoo.StockInfo{}, trendingBars(120, 100, 0.5))
		assert.Contains(t, report.Strengths, "Positive technical trend")
		assert.NotContains(t, report.Weaknesses, "Negative technical trend")
	})

	t.Run("steady downtrend is a weakness", func(t *testing.T) {
		report := Analyze("TEST", &yahoo.StockInfo{}, trendingBars(120, 200, -0.5))
		assert.Contains(t, report.Weaknesses, "Negative technical trend")
		assert.NotContains(t, report.Strengths, "Positive technical trend")
	})

	t.Run("too little history yields no trend finding", func(t *testing.T) {
		report := Analyze("TEST", &yahoo.StockInfo{}, trendingBars(30, 100, 0.5))
		assert.NotContains(t, report.Strengths, "Positive technical trend")
		assert.NotContains(t, report.Weaknesses, "Negative technical trend")
	})

	t.Run("choppy series is a volatility threat", func(t *testing.T) {
		bars := make([]domain.PriceBar, 120)
		price := 100.0
		for i := range bars {
			// Alternate +5% / -5% days: annualized volatility far above
			// the threat threshold.
			if i%2 == 0 {
				price *= 1.05
			} else {
				price *= 0.95
			}
			bars[i] = domain.PriceBar{
				Date:  fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
				Close: price,
			}
		}

		report := Analyze("TEST", &yahoo.StockInfo{}, bars)
		assert.Greater(t, report.Volatility, 0.3)
		assert.Contains(t, report.Threats, "High market volatility")
	})

	t.Run("volatility is annualized", func(t *testing.T) {
		report := Analyze("TEST", &yahoo.StockInfo{}, trendingBars(120, 100, 0))
		assert.False(t, math.IsNaN(report.Volatility))
		assert.Zero(t, report.Volatility)
	})
}
