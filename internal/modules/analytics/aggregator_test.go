package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantfolio/quantfolio/internal/domain"
)

func bars(dates []string, closes []float64) []domain.PriceBar {
	out := make([]domain.PriceBar, len(dates))
	for i := range dates {
		out[i] = domain.PriceBar{Date: dates[i], Close: closes[i]}
	}
	return out
}

func TestDailyReturns(t *testing.T) {
	t.Run("differences closes", func(t *testing.T) {
		series := DailyReturns(bars(
			[]string{"2024-01-02", "2024-01-03", "2024-01-04"},
			[]float64{100, 101, 99.99},
		))

		assert.Len(t, series, 2)
		assert.Equal(t, "2024-01-03", series[0].Date)
		assert.InDelta(t, 0.01, series[0].Value, 1e-9)
		assert.Equal(t, "2024-01-04", series[1].Date)
		assert.InDelta(t, -0.01, series[1].Value, 1e-9)
	})

	t.Run("fewer than two bars", func(t *testing.T) {
		assert.Nil(t, DailyReturns(nil))
		assert.Nil(t, DailyReturns(bars([]string{"2024-01-02"}, []float64{100})))
	})

	t.Run("zero prior close is skipped", func(t *testing.T) {
		series := DailyReturns(bars(
			[]string{"2024-01-02", "2024-01-03", "2024-01-04"},
			[]float64{0, 50, 55},
		))

		assert.Len(t, series, 1)
		assert.Equal(t, "2024-01-04", series[0].Date)
		assert.InDelta(t, 0.10, series[0].Value, 1e-9)
	})
}

func TestAggregateWeighted(t *testing.T) {
	t.Run("weighted sum on shared dates", func(t *testing.T) {
		series := AggregateWeighted([]Constituent{
			{Ticker: "AAA", Weight: 0.6, Returns: domain.ReturnSeries{
				{Date: "2024-01-03", Value: 0.01},
				{Date: "2024-01-04", Value: -0.02},
			}},
			{Ticker: "BBB", Weight: 0.4, Returns: domain.ReturnSeries{
				{Date: "2024-01-03", Value: 0.03},
				{Date: "2024-01-04", Value: 0.01},
			}},
		})

		assert.Len(t, series, 2)
		assert.InDelta(t, 0.6*0.01+0.4*0.03, series[0].Value, 1e-12)
		assert.InDelta(t, 0.6*-0.02+0.4*0.01, series[1].Value, 1e-12)
	})

	t.Run("union of dates with zero fill", func(t *testing.T) {
		// BBB is missing 2024-01-04 entirely. The date survives with
		// only AAA's weighted contribution.
		series := AggregateWeighted([]Constituent{
			{Ticker: "AAA", Weight: 0.5, Returns: domain.ReturnSeries{
				{Date: "2024-01-03", Value: 0.02},
				{Date: "2024-01-04", Value: 0.04},
			}},
			{Ticker: "BBB", Weight: 0.5, Returns: domain.ReturnSeries{
				{Date: "2024-01-03", Value: 0.02},
				{Date: "2024-01-05", Value: 0.02},
			}},
		})

		assert.Equal(t, []string{"2024-01-03", "2024-01-04", "2024-01-05"}, series.Dates())
		assert.InDelta(t, 0.02, series[0].Value, 1e-12)
		assert.InDelta(t, 0.02, series[1].Value, 1e-12) // AAA alone
		assert.InDelta(t, 0.01, series[2].Value, 1e-12) // BBB alone
	})

	t.Run("output is date ordered", func(t *testing.T) {
		series := AggregateWeighted([]Constituent{
			{Ticker: "AAA", Weight: 1.0, Returns: domain.ReturnSeries{
				{Date: "2024-01-05", Value: 0.01},
				{Date: "2024-01-03", Value: 0.02},
				{Date: "2024-01-04", Value: 0.03},
			}},
		})

		assert.Equal(t, []string{"2024-01-03", "2024-01-04", "2024-01-05"}, series.Dates())
	})

	t.Run("no history anywhere", func(t *testing.T) {
		assert.Nil(t, AggregateWeighted(nil))
		assert.Nil(t, AggregateWeighted([]Constituent{{Ticker: "AAA", Weight: 1.0}}))
	})
}

func TestAlignSeries(t *testing.T) {
	a := domain.ReturnSeries{
		{Date: "2024-01-03", Value: 0.01},
		{Date: "2024-01-04", Value: 0.02},
		{Date: "2024-01-05", Value: 0.03},
	}
	b := domain.ReturnSeries{
		{Date: "2024-01-04", Value: -0.01},
		{Date: "2024-01-05", Value: -0.02},
		{Date: "2024-01-08", Value: -0.03},
	}

	x, y := AlignSeries(a, b)

	assert.Equal(t, []float64{0.02, 0.03}, x)
	assert.Equal(t, []float64{-0.01, -0.02}, y)

	t.Run("disjoint calendars align to nothing", func(t *testing.T) {
		x, y := AlignSeries(a, domain.ReturnSeries{{Date: "2023-06-01", Value: 0.5}})
		assert.Empty(t, x)
		assert.Empty(t, y)
	})
}
