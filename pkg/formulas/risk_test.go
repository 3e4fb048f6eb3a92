package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoricalVaR(t *testing.T) {
	tests := []struct {
		name       string
		returns    []float64
		confidence float64
		want       float64
		tolerance  float64
	}{
		{
			name:       "95% confidence picks the worst 5% cutoff",
			returns:    []float64{-0.10, -0.05, -0.02, 0.0, 0.02, 0.05, 0.10, 0.15, 0.20, 0.25},
			confidence: 0.95,
			want:       -0.10,
			tolerance:  0.01,
		},
		{
			name:       "99% confidence reaches the single worst return",
			returns:    []float64{-0.30, -0.20, -0.10, 0.0, 0.10, 0.20, 0.30, 0.40, 0.50, 0.60},
			confidence: 0.99,
			want:       -0.30,
			tolerance:  0.01,
		},
		{
			name:       "empty series",
			returns:    []float64{},
			confidence: 0.95,
			want:       0,
			tolerance:  1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HistoricalVaR(tt.returns, tt.confidence), tt.tolerance)
		})
	}
}

func TestCVaR(t *testing.T) {
	t.Run("tail mean is at least as bad as the percentile cutoff", func(t *testing.T) {
		series := [][]float64{
			{-0.10, -0.05, -0.02, 0.0, 0.02, 0.05, 0.10, 0.15, 0.20, 0.25},
			{-0.30, -0.25, -0.20, -0.15, -0.10, -0.05, 0.0, 0.05},
			{0.01, -0.02, 0.03, -0.01, 0.02, -0.04, 0.05, -0.03},
		}
		for _, returns := range series {
			for _, confidence := range []float64{0.95, 0.99} {
				v := HistoricalVaR(returns, confidence)
				cv := CVaR(returns, confidence)
				assert.LessOrEqual(t, cv, v, "CVaR must not exceed VaR at %.2f", confidence)
			}
		}
	})

	t.Run("all tail values average", func(t *testing.T) {
		// Worst 20% of ten equally likely returns is the two worst.
		returns := []float64{-0.10, -0.08, -0.02, 0.0, 0.02, 0.05, 0.10, 0.15, 0.20, 0.25}
		got := CVaR(returns, 0.80)
		assert.InDelta(t, (-0.10-0.08)/2, got, 0.01)
	})

	t.Run("empty series", func(t *testing.T) {
		assert.Equal(t, 0.0, CVaR(nil, 0.95))
	})
}

func TestParametricVaR(t *testing.T) {
	t.Run("normal fit places the cutoff below the mean", func(t *testing.T) {
		returns := []float64{0.01, -0.02, 0.03, -0.01, 0.02, -0.03, 0.04, -0.02}
		got := ParametricVaR(returns, 0.95)
		assert.Less(t, got, Mean(returns))
	})

	t.Run("zero variance yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ParametricVaR([]float64{0.01, 0.01, 0.01}, 0.95))
	})
}

func TestBeta(t *testing.T) {
	tests := []struct {
		name      string
		portfolio []float64
		benchmark []float64
		want      float64
		tolerance float64
	}{
		{
			name:      "identical series has beta one",
			portfolio: []float64{0.01, -0.02, 0.03, -0.01},
			benchmark: []float64{0.01, -0.02, 0.03, -0.01},
			want:      1.0,
			tolerance: 1e-12,
		},
		{
			name:      "leveraged series doubles beta",
			portfolio: []float64{0.02, -0.04, 0.06, -0.02},
			benchmark: []float64{0.01, -0.02, 0.03, -0.01},
			want:      2.0,
			tolerance: 1e-12,
		},
		{
			name:      "flat benchmark has zero variance",
			portfolio: []float64{0.01, -0.02, 0.03, -0.01},
			benchmark: []float64{0.01, 0.01, 0.01, 0.01},
			want:      0,
			tolerance: 1e-12,
		},
		{
			name:      "mismatched lengths",
			portfolio: []float64{0.01, 0.02},
			benchmark: []float64{0.01},
			want:      0,
			tolerance: 1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Beta(tt.portfolio, tt.benchmark), tt.tolerance)
		})
	}
}

func TestAlpha(t *testing.T) {
	// CAPM: alpha = r_p − (r_f + beta × (r_m − r_f))
	assert.InDelta(t, 0.02, Alpha(0.12, 1.0, 0.02, 0.10), 1e-12)
	assert.InDelta(t, 0.0, Alpha(0.10, 1.0, 0.02, 0.10), 1e-12)
	assert.InDelta(t, -0.06, Alpha(0.10, 2.0, 0.02, 0.10), 1e-12)
}

func TestTrackingError(t *testing.T) {
	t.Run("identical series track perfectly", func(t *testing.T) {
		series := []float64{0.01, -0.02, 0.03, -0.01}
		assert.InDelta(t, 0.0, TrackingError(series, series), 1e-12)
	})

	t.Run("constant offset has zero tracking error", func(t *testing.T) {
		portfolio := []float64{0.02, -0.01, 0.04, 0.0}
		benchmark := []float64{0.01, -0.02, 0.03, -0.01}
		assert.InDelta(t, 0.0, TrackingError(portfolio, benchmark), 1e-12)
	})

	t.Run("divergent series has positive tracking error", func(t *testing.T) {
		portfolio := []float64{0.05, -0.05, 0.05, -0.05}
		benchmark := []float64{0.01, 0.01, 0.01, 0.01}
		assert.Greater(t, TrackingError(portfolio, benchmark), 0.0)
	})
}
