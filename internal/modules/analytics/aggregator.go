package analytics

import (
	"sort"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// Constituent pairs one instrument's daily returns with its portfolio
// weight.
type Constituent struct {
	Ticker  string
	Weight  float64
	Returns domain.ReturnSeries
}

// DailyReturns converts ordered price bars to a dated return series by
// differencing closes. The first bar has no return. Bars with a zero
// prior close are skipped rather than dividing by zero.
func DailyReturns(bars []domain.PriceBar) domain.ReturnSeries {
	if len(bars) < 2 {
		return nil
	}

	series := make(domain.ReturnSeries, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		series = append(series, domain.ReturnPoint{
			Date:  bars[i].Date,
			Value: (bars[i].Close - prev) / prev,
		})
	}
	return series
}

// AggregateWeighted combines constituent return series into one weighted
// portfolio series.
//
// The output's date domain is the union of the constituents' return
// dates: on a date where an instrument has no observation it contributes
// 0 for that date instead of dropping the date. This trades strict
// calendar purity for continuity of the aggregate; pairwise work
// (benchmark alignment, ratios, correlations) still intersects.
//
// An empty result means no constituent had history, which callers must
// treat as insufficient data, not zero performance.
func AggregateWeighted(constituents []Constituent) domain.ReturnSeries {
	weighted := make(map[string]float64)
	for _, c := range constituents {
		for _, p := range c.Returns {
			weighted[p.Date] += c.Weight * p.Value
		}
	}
	if len(weighted) == 0 {
		return nil
	}

	dates := make([]string, 0, len(weighted))
	for date := range weighted {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	series := make(domain.ReturnSeries, len(dates))
	for i, date := range dates {
		series[i] = domain.ReturnPoint{Date: date, Value: weighted[date]}
	}
	return series
}

// AlignSeries intersects two return series on their shared dates and
// returns the paired values in date order.
func AlignSeries(a, b domain.ReturnSeries) (x, y []float64) {
	bByDate := make(map[string]float64, len(b))
	for _, p := range b {
		bByDate[p.Date] = p.Value
	}

	for _, p := range a {
		if v, ok := bByDate[p.Date]; ok {
			x = append(x, p.Value)
			y = append(y, v)
		}
	}
	return x, y
}
