package domain

import "time"

// PriceBar represents one daily OHLCV observation for a ticker.
// Dates use the YYYY-MM-DD format throughout, so lexicographic order
// matches calendar order.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume *int64  `json:"volume,omitempty"`
}

// Position represents a holding in the portfolio of record.
type Position struct {
	Ticker       string    `json:"ticker"`
	Shares       float64   `json:"shares"`
	Sector       string    `json:"sector"`
	CurrentPrice float64   `json:"current_price"`
	LastUpdated  time.Time `json:"last_updated"`
}

// MarketValue returns the current value of the position.
func (p Position) MarketValue() float64 {
	return p.Shares * p.CurrentPrice
}

// Allocation represents one ticker's target weight within a portfolio.
// Weights are fractions in [0, 1]; a portfolio's stored weights need not
// sum to 1 at rest, but a rebalance only commits a set that does.
type Allocation struct {
	PortfolioID int64   `json:"portfolio_id"`
	Ticker      string  `json:"ticker"`
	Weight      float64 `json:"weight"`
}

// Portfolio is a named collection of positions with target allocations.
type Portfolio struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	Positions   []Position   `json:"positions"`
	Allocations []Allocation `json:"allocations"`
}

// ReturnPoint is one dated fractional daily return.
type ReturnPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ReturnSeries is an ordered sequence of daily returns. An empty series
// means "insufficient data", never zero performance.
type ReturnSeries []ReturnPoint

// Values extracts the raw return values in date order.
func (s ReturnSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Dates extracts the dates in order.
func (s ReturnSeries) Dates() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}
