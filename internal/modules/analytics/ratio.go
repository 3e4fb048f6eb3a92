package analytics

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// RatioTrendPeriod is the trailing window of the ratio trend line.
const RatioTrendPeriod = 20

// ComputeRatio builds the price-ratio series closeA/closeB over the
// strict intersection of the two tickers' trading calendars, with a
// trailing simple moving average as the trend line. Disjoint calendars
// are a structural failure: domain.ErrNoOverlap.
func ComputeRatio(tickerA, tickerB string, barsA, barsB []domain.PriceBar) (*RatioSeries, error) {
	closeB := make(map[string]float64, len(barsB))
	for _, bar := range barsB {
		closeB[bar.Date] = bar.Close
	}

	var dates []string
	var ratios []float64
	for _, bar := range barsA {
		b, ok := closeB[bar.Date]
		if !ok || b == 0 {
			continue
		}
		dates = append(dates, bar.Date)
		ratios = append(ratios, bar.Close/b)
	}

	if len(ratios) == 0 {
		return nil, fmt.Errorf("%w: %s/%s share no trading dates", domain.ErrNoOverlap, tickerA, tickerB)
	}

	// The trend line is undefined for the first period-1 positions:
	// those lead with no value rather than erroring.
	var trend []float64
	if len(ratios) >= RatioTrendPeriod {
		trend = talib.Sma(ratios, RatioTrendPeriod)
	}

	points := make([]RatioPoint, len(ratios))
	for i := range ratios {
		points[i] = RatioPoint{Date: dates[i], Ratio: ratios[i]}
		if trend != nil && i >= RatioTrendPeriod-1 {
			v := trend[i]
			points[i].Trend = &v
		}
	}

	return &RatioSeries{
		TickerA:      tickerA,
		TickerB:      tickerB,
		Points:       points,
		CurrentRatio: ratios[len(ratios)-1],
	}, nil
}
