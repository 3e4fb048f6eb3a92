package yahoo

// StockInfo contains the quote and fundamental snapshot for a ticker.
// Pointer fields are absent when the provider does not report them.
type StockInfo struct {
	Symbol        string   `json:"symbol"`
	Name          *string  `json:"name,omitempty"`
	CurrentPrice  *float64 `json:"current_price,omitempty"`
	Sector        *string  `json:"sector,omitempty"`
	Industry      *string  `json:"industry,omitempty"`
	Country       *string  `json:"country,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	ProfitMargin  *float64 `json:"profit_margin,omitempty"`
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
}

// chartResponse mirrors the Yahoo Finance v8 chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// quoteResponse mirrors the Yahoo Finance v7 quote API envelope.
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}
