package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/quantfolio/internal/domain"
)

func newTestRouter(history map[string][]domain.PriceBar, portfolios map[int64]*domain.Portfolio) *chi.Mux {
	svc := NewService(
		&stubPrices{history: history},
		&stubPortfolios{portfolios: portfolios},
		testParams(),
		zerolog.Nop(),
	)

	r := chi.NewRouter()
	NewHandler(svc, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func TestHandlePerformance(t *testing.T) {
	router := newTestRouter(testHistory(), map[int64]*domain.Portfolio{
		1: testPortfolio(1, "Growth"),
	})

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/1/performance", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var report PerformanceReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, "Growth", report.Name)
		assert.Equal(t, BenchmarkComputed, report.BenchmarkStatus)
	})

	t.Run("unknown portfolio is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/99/performance", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/abc/performance", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no price history is 422", func(t *testing.T) {
		empty := newTestRouter(map[string][]domain.PriceBar{}, map[int64]*domain.Portfolio{
			1: testPortfolio(1, "Growth"),
		})

		rec := httptest.NewRecorder()
		empty.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/1/performance", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHandleCompare(t *testing.T) {
	router := newTestRouter(testHistory(), map[int64]*domain.Portfolio{
		1: testPortfolio(1, "Growth"),
		2: testPortfolio(2, "Value"),
	})

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/compare?ids=1,2", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var report ComparisonReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Len(t, report.Portfolios, 2)
	})

	t.Run("missing ids is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/compare", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("single id is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/compare?ids=1", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too many failures is 422", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portfolios/compare?ids=1,98,99", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHandleRatio(t *testing.T) {
	router := newTestRouter(testHistory(), nil)

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ratio?a=aaa&b=bbb", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var series RatioSeries
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
		// Tickers are upper-cased before lookup.
		assert.Equal(t, "AAA", series.TickerA)
		assert.Len(t, series.Points, 5)
	})

	t.Run("missing ticker param is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ratio?a=AAA", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad days is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ratio?a=AAA&b=BBB&days=-5", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown symbol is 422", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ratio?a=AAA&b=ZZZ", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
