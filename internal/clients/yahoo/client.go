package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// Client is a Yahoo Finance API client
type Client struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://query1.finance.yahoo.com",
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// NewClientWithBaseURL creates a client pointed at an alternate endpoint,
// used by tests against an httptest server.
func NewClientWithBaseURL(baseURL string, log zerolog.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

// GetDailyHistory fetches daily OHLCV bars for a symbol over the given
// window, ordered by date ascending. Bars with no close are skipped.
func (c *Client) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PriceBar, error) {
	params := url.Values{}
	params.Add("period1", fmt.Sprintf("%d", start.Unix()))
	params.Add("period2", fmt.Sprintf("%d", end.Unix()))
	params.Add("interval", "1d")
	params.Add("events", "history")

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	var result chartResponse
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %v", symbol, result.Chart.Error)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data returned for %s", symbol)
	}

	res := result.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	var bars []domain.PriceBar
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := domain.PriceBar{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Msg("Fetched daily history")

	return bars, nil
}

// GetStockInfo fetches the quote and fundamental snapshot for a symbol,
// retrying with exponential backoff on transient failures.
func (c *Client) GetStockInfo(ctx context.Context, symbol string) (*StockInfo, error) {
	const maxRetries = 3

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		info, err := c.getQuoteInfo(ctx, symbol)
		if err == nil {
			return &StockInfo{
				Symbol:        symbol,
				Name:          getStringPtr(info, "longName"),
				CurrentPrice:  firstFloat64(info, "currentPrice", "regularMarketPrice"),
				Sector:        getStringPtr(info, "sector"),
				Industry:      getStringPtr(info, "industry"),
				Country:       getStringPtr(info, "country"),
				MarketCap:     getFloat64(info, "marketCap"),
				ProfitMargin:  getFloat64(info, "profitMargins"),
				RevenueGrowth: getFloat64(info, "revenueGrowth"),
				DebtToEquity:  getFloat64(info, "debtToEquity"),
				PERatio:       getFloat64(info, "trailingPE"),
				DividendYield: getFloat64(info, "dividendYield"),
			}, nil
		}

		lastErr = err
		if attempt < maxRetries-1 {
			waitTime := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn().Err(err).
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("wait", waitTime).
				Msg("Failed to get quote, retrying")

			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// getQuoteInfo fetches quote information from the Yahoo Finance quote API
func (c *Client) getQuoteInfo(ctx context.Context, symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,regularMarketPrice,currentPrice,longName,sector,industry,country,"+
		"marketCap,profitMargins,revenueGrowth,debtToEquity,trailingPE,dividendYield")

	reqURL := c.baseURL + "/v7/finance/quote?" + params.Encode()

	var result quoteResponse
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// getJSON performs a GET request and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Helper functions to safely extract values from the quote map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func firstFloat64(m map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		if val := getFloat64(m, key); val != nil && *val > 0 {
			return val
		}
	}
	return nil
}

func getStringPtr(m map[string]interface{}, key string) *string {
	if val, ok := m[key]; ok && val != nil {
		if s, isString := val.(string); isString && s != "" {
			return &s
		}
	}
	return nil
}
