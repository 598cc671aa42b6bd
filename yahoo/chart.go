package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/date"
)

// History implements stockgains.MarketData: the daily closes of ticker from the
// given day until today.
//
// Days without a close are skipped.
func (c *Client) History(ctx context.Context, ticker string, from date.Date) ([]stockgains.Bar, error) {
	path := "/v8/finance/chart/" + url.PathEscape(ticker)
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	// tomorrow at midnight keeps the URL, hence the cache key, stable all day
	params.Set("period2", strconv.FormatInt(date.Today().Add(1).Unix(), 10))
	params.Set("interval", "1d")
	jobj, err := c.get(ctx, c.chartClient, c.chartURL, path, params)
	if err != nil {
		return nil, err
	}
	if msg, ok := text(jobj, "$.chart.error.description"); ok {
		return nil, &APIError{StatusCode: 200, Message: msg, Endpoint: path}
	}

	if _, ok := lookup("$.chart.result[0].meta", jobj); !ok {
		return nil, fmt.Errorf("yahoo: no chart for %q", ticker)
	}
	ts := list("$.chart.result[0].timestamp", jobj)
	cl := list("$.chart.result[0].indicators.quote[0].close", jobj)
	if len(ts) != len(cl) {
		return nil, fmt.Errorf("yahoo: malformed chart for %q: %d timestamps, %d closes", ticker, len(ts), len(cl))
	}
	offset, _ := number(jobj, "$.chart.result[0].meta.gmtoffset")
	zone := time.FixedZone("exchange", int(offset))

	bars := make([]stockgains.Bar, 0, len(ts))
	for i := range ts {
		sec, ok := ts[i].(float64)
		if !ok {
			continue
		}
		price, ok := cl[i].(float64)
		if !ok || price <= 0 {
			continue
		}
		on := date.FromTime(time.Unix(int64(sec), 0).In(zone))
		if on.Before(from) {
			continue
		}
		bars = append(bars, stockgains.Bar{Date: on, Close: stockgains.M(price, c.currency)})
	}
	c.logger.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("yahoo history")
	return bars, nil
}
