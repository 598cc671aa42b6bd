package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

const quoteResponse = `{"quoteResponse":{"result":[
{"symbol":"VAS.AX","longName":"Vanguard Australian Shares Index ETF","fullExchangeName":"ASX","currency":"AUD",
 "regularMarketPrice":101.5,"fiftyTwoWeekLow":90,"fiftyTwoWeekHigh":110,"fiftyDayAverage":100,"twoHundredDayAverage":98,
 "fiftyTwoWeekChangePercent":7.5,"trailingPE":18.2,"priceToBook":2.1,"trailingAnnualDividendYield":0.035,
 "ytdReturn":0.042,"threeYearAverageReturn":0.061,"fiveYearAverageReturn":0.078},
{"symbol":"NDQ.AX","shortName":"BETANASDAQ","regularMarketPreviousClose":45.2,"trailingPE":null}
],"error":null}}`

// chartResponse has three daily bars in a +11:00 exchange, the last one without close.
const chartResponse = `{"chart":{"result":[{"meta":{"symbol":"VAS.AX","gmtoffset":39600},
"timestamp":[1704150000,1704236400,1704322800],
"indicators":{"quote":[{"close":[100.5,101.25,null]}]}}],"error":null}}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]ClientOption{
		WithBaseURL(server.URL),
		WithChartURL(server.URL),
		WithHTTPClient(server.Client()),
		WithLogger(arbor.NewLogger()),
		WithRateLimit(100),
		WithCurrency("AUD"),
	}, opts...)
	return NewClient(opts...)
}

func TestClient_Quotes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		assert.Equal(t, "VAS.AX,NDQ.AX,XXX.AX", r.URL.Query().Get("symbols"))
		w.Write([]byte(quoteResponse))
	})

	quotes, err := client.Quotes(context.Background(), []string{"VAS.AX", "NDQ.AX", "XXX.AX"})
	require.NoError(t, err)
	require.Len(t, quotes, 2, "unknown tickers are absent")

	vas := quotes["VAS.AX"]
	assert.Equal(t, "Vanguard Australian Shares Index ETF", vas.FullName.Or(""))
	assert.Equal(t, "ASX", vas.Exchange.Or(""))
	price, ok := vas.Price.Get()
	require.True(t, ok)
	assert.True(t, price.Equal(stockgains.M(101.5, "AUD")))
	assert.InDelta(t, 3.5, float64(vas.Yield.Or(0)), 1e-9)
	assert.InDelta(t, 6.1, float64(vas.ThreeYearReturn.Or(0)), 1e-9)
	assert.InDelta(t, 7.5, float64(vas.FiftyTwoWeekChange.Or(0)), 1e-9)
	assert.InDelta(t, 18.2, vas.PERatio.Or(0), 1e-9)
	assert.False(t, vas.Beta.OK())

	ndq := quotes["NDQ.AX"]
	assert.Equal(t, "BETANASDAQ", ndq.FullName.Or(""))
	price, ok = ndq.Price.Get()
	require.True(t, ok, "previous close is used without a market price")
	assert.True(t, price.Equal(stockgains.M(45.2, "AUD")))
	assert.False(t, ndq.PERatio.OK(), "null fields are unknown")
	assert.False(t, ndq.FiftyTwoWeekHigh.OK())
}

func TestClient_History(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v8/finance/chart/VAS.AX", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(chartResponse))
	}, WithDailyCache(t.TempDir()))

	ctx := context.Background()
	bars, err := client.History(ctx, "VAS.AX", date.MustParse("2024-01-01"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-01-02", bars[0].Date.String(), "dates are in the exchange timezone")
	assert.True(t, bars[1].Close.Equal(stockgains.M(101.25, "AUD")))

	// served from the daily cache
	_, err = client.History(ctx, "VAS.AX", date.MustParse("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	bars, err = client.History(ctx, "VAS.AX", date.MustParse("2024-01-03"))
	require.NoError(t, err)
	assert.Len(t, bars, 1, "bars before from are dropped")
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	})

	_, err := client.Quotes(context.Background(), []string{"VAS.AX"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "error = %v, want an *APIError", err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "/v7/finance/quote", apiErr.Endpoint)

	// the Book reports provider failures as market data errors
	_, err = stockgains.FetchQuotes(context.Background(), client, []string{"VAS.AX"})
	assert.ErrorIs(t, err, stockgains.ErrMarketDataUnavailable)
	assert.True(t, errors.As(err, &apiErr))
}

func TestClient_ChartError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := client.History(context.Background(), "OLD.AX", date.MustParse("2024-01-01"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "delisted")
}
