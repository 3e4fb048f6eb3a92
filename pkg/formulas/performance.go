package formulas

import "math"

// Risk-adjusted performance ratios over daily return series.
//
// All ratios follow a fail-soft policy: a degenerate denominator (zero
// volatility, no negative observations, zero drawdown) yields 0, never
// NaN or an error. A metric being "not applicable" renders as a neutral
// value in reports.

// TotalReturn calculates the compounded total return: Π(1+r) − 1.
func TotalReturn(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	cum := 1.0
	for _, r := range dailyReturns {
		cum *= 1 + r
	}
	return cum - 1
}

// CumulativeCurve builds the cumulative-product growth curve compounded
// from the series start: curve[i] = Π(1+r) over returns[0..i].
func CumulativeCurve(dailyReturns []float64) []float64 {
	curve := make([]float64, len(dailyReturns))
	cum := 1.0
	for i, r := range dailyReturns {
		cum *= 1 + r
		curve[i] = cum
	}
	return curve
}

// MaxDrawdown calculates the worst peak-to-trough decline of the
// cumulative growth curve. The result is ≤ 0; -0.25 means a 25% decline
// from the running peak.
func MaxDrawdown(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	maxDD := 0.0
	peak := 1.0
	cum := 1.0

	for _, r := range dailyReturns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		if peak > 0 {
			dd := (cum - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio calculates annualized return over annualized volatility.
// Returns 0 when volatility is 0 (no risk-adjusted signal).
func SharpeRatio(dailyReturns []float64) float64 {
	vol := AnnualizedVolatility(dailyReturns)
	if vol == 0 {
		return 0
	}
	return AnnualizedReturn(dailyReturns) / vol
}

// DownsideDeviation calculates sqrt(mean of squared negative returns).
// Returns 0 when the series has no negative observations.
func DownsideDeviation(dailyReturns []float64) float64 {
	var sumSq float64
	count := 0
	for _, r := range dailyReturns {
		if r < 0 {
			sumSq += r * r
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(count))
}

// SortinoRatio calculates annualized return over annualized downside
// deviation. Returns 0 when there are no negative observations.
func SortinoRatio(dailyReturns []float64) float64 {
	dd := DownsideDeviation(dailyReturns)
	if dd == 0 {
		return 0
	}
	return AnnualizedReturn(dailyReturns) / (dd * math.Sqrt(TradingDaysPerYear))
}

// CalmarRatio calculates annualized return over the magnitude of the
// maximum drawdown. Returns 0 when the series never drew down.
func CalmarRatio(dailyReturns []float64) float64 {
	maxDD := MaxDrawdown(dailyReturns)
	if maxDD == 0 {
		return 0
	}
	return AnnualizedReturn(dailyReturns) / math.Abs(maxDD)
}
