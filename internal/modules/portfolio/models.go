package portfolio

// PositionBreakdown is one position's contribution to a portfolio's
// current value.
type PositionBreakdown struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
	Sector string  `json:"sector"`
}

// Summary is the current-value view of a portfolio: total value,
// per-position breakdown and value by sector. Recomputed on demand from
// current positions and prices, never persisted.
type Summary struct {
	PortfolioID      int64               `json:"portfolio_id"`
	Name             string              `json:"name"`
	TotalValue       float64             `json:"total_value"`
	Positions        []PositionBreakdown `json:"positions"`
	SectorAllocation map[string]float64  `json:"sector_allocation"`
}
