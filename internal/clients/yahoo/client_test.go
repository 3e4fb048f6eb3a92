package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDailyHistory(t *testing.T) {
	// Three trading days, the middle one with a null close.
	chartBody := `{
		"chart": {
			"result": [{
				"timestamp": [1704153600, 1704240000, 1704326400],
				"indicators": {
					"quote": [{
						"open":   [184.2, null, 182.1],
						"high":   [186.0, null, 183.5],
						"low":    [183.9, null, 181.0],
						"close":  [185.6, null, 182.7],
						"volume": [52000000, null, 48000000]
					}]
				}
			}],
			"error": null
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zerolog.Nop())
	bars, err := client.GetDailyHistory(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// The null-close day is dropped.
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-01-02", bars[0].Date)
	assert.InDelta(t, 185.6, bars[0].Close, 1e-9)
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, int64(52000000), *bars[0].Volume)
	assert.Equal(t, "2024-01-04", bars[1].Date)
}

func TestGetStockInfo(t *testing.T) {
	quoteBody := `{
		"quoteResponse": {
			"result": [{
				"symbol": "AAPL",
				"longName": "Apple Inc.",
				"regularMarketPrice": 185.6,
				"sector": "Technology",
				"industry": "Consumer Electronics",
				"country": "US",
				"marketCap": 2870000000000,
				"profitMargins": 0.26,
				"revenueGrowth": 0.02,
				"debtToEquity": 1.45,
				"trailingPE": 29.1
			}],
			"error": null
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v7/finance/quote")
		w.Write([]byte(quoteBody))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zerolog.Nop())
	info, err := client.GetStockInfo(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", info.Symbol)
	require.NotNil(t, info.Name)
	assert.Equal(t, "Apple Inc.", *info.Name)
	require.NotNil(t, info.CurrentPrice)
	assert.InDelta(t, 185.6, *info.CurrentPrice, 1e-9)
	require.NotNil(t, info.MarketCap)
	assert.InDelta(t, 2.87e12, *info.MarketCap, 1)
	require.NotNil(t, info.DebtToEquity)
	assert.InDelta(t, 1.45, *info.DebtToEquity, 1e-9)
	assert.Nil(t, info.DividendYield)
}

func TestGetStockInfoRetries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"quoteResponse": {"result": [{"symbol": "AAPL"}], "error": null}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zerolog.Nop())
	info, err := client.GetStockInfo(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, "AAPL", info.Symbol)
}

func TestGetDailyHistoryAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": [], "error": {"code": "Not Found"}}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zerolog.Nop())
	_, err := client.GetDailyHistory(context.Background(), "NOPE",
		time.Now().AddDate(0, 0, -5), time.Now())
	assert.Error(t, err)
}
