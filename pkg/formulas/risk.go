package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// HistoricalVaR calculates Value at Risk at the given confidence level
// from the empirical return distribution. For 95% confidence this is the
// 5th percentile of returns, reported as a (typically negative)
// fractional loss.
func HistoricalVaR(dailyReturns []float64, confidence float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	sorted := make([]float64, len(dailyReturns))
	copy(sorted, dailyReturns)
	sort.Float64s(sorted)

	return stat.Quantile(1-confidence, stat.Empirical, sorted, nil)
}

// CVaR calculates Conditional Value at Risk: the mean of all returns at
// or below the VaR threshold (the empirical tail expectation). For any
// non-degenerate distribution CVaR ≤ VaR at the same confidence.
func CVaR(dailyReturns []float64, confidence float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	threshold := HistoricalVaR(dailyReturns, confidence)

	var sum float64
	count := 0
	for _, r := range dailyReturns {
		if r <= threshold {
			sum += r
			count++
		}
	}
	if count == 0 {
		return threshold
	}
	return sum / float64(count)
}

// ParametricVaR calculates VaR assuming normally distributed returns,
// using the fitted mean and standard deviation. Useful as a smoother
// estimate when the historical sample is short.
func ParametricVaR(dailyReturns []float64, confidence float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}

	normal := distuv.Normal{
		Mu:    Mean(dailyReturns),
		Sigma: StdDev(dailyReturns),
	}
	if normal.Sigma == 0 {
		return 0
	}
	return normal.Quantile(1 - confidence)
}

// Beta calculates the portfolio's sensitivity to a benchmark:
// cov(returns, benchmark) / var(benchmark). The two series must already
// be aligned to the same calendar. Returns 0 when the benchmark has zero
// variance.
func Beta(dailyReturns, benchmarkReturns []float64) float64 {
	if len(dailyReturns) < 2 || len(dailyReturns) != len(benchmarkReturns) {
		return 0
	}

	benchVar := Variance(benchmarkReturns)
	if benchVar == 0 {
		return 0
	}
	return Covariance(dailyReturns, benchmarkReturns) / benchVar
}

// Alpha calculates the CAPM excess return:
// portfolioReturn − (riskFreeRate + beta × (marketReturn − riskFreeRate)).
// All rates are annualized fractions.
func Alpha(portfolioReturn, beta, riskFreeRate, marketReturn float64) float64 {
	return portfolioReturn - (riskFreeRate + beta*(marketReturn-riskFreeRate))
}

// TrackingError calculates the annualized standard deviation of the
// difference between portfolio and benchmark returns over an aligned
// calendar.
func TrackingError(dailyReturns, benchmarkReturns []float64) float64 {
	if len(dailyReturns) < 2 || len(dailyReturns) != len(benchmarkReturns) {
		return 0
	}

	diff := make([]float64, len(dailyReturns))
	for i := range dailyReturns {
		diff[i] = dailyReturns[i] - benchmarkReturns[i]
	}
	return StdDev(diff) * math.Sqrt(TradingDaysPerYear)
}
