package yahoo

import (
	"context"
	"net/url"
	"strings"

	"github.com/etnz/stockgains"
)

// Quotes implements stockgains.MarketData. Tickers unknown to Yahoo are absent from
// the result.
//
// Every field missing from the response is left unknown.
func (c *Client) Quotes(ctx context.Context, tickers []string) (map[string]stockgains.Quote, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(tickers, ","))
	jobj, err := c.get(ctx, c.httpClient, c.baseURL, "/v7/finance/quote", params)
	if err != nil {
		return nil, err
	}
	if msg, ok := text(jobj, "$.quoteResponse.error.description"); ok {
		return nil, &APIError{StatusCode: 200, Message: msg, Endpoint: "/v7/finance/quote"}
	}

	results := list("$.quoteResponse.result", jobj)
	quotes := make(map[string]stockgains.Quote, len(results))
	for _, item := range results {
		q := c.parseQuote(item)
		if q.Ticker == "" {
			continue
		}
		quotes[q.Ticker] = q
	}
	c.logger.Debug().Int("requested", len(tickers)).Int("received", len(quotes)).Msg("yahoo quotes")
	return quotes, nil
}

func (c *Client) parseQuote(item any) stockgains.Quote {
	q := stockgains.Quote{}
	q.Ticker, _ = text(item, "$.symbol")
	q.Ticker = strings.ToUpper(q.Ticker)

	q.FullName = c.text(item, "$.longName", "$.shortName")
	q.Exchange = c.text(item, "$.fullExchangeName", "$.exchange")
	q.Currency = c.text(item, "$.currency")

	q.Price = c.money(item, "$.regularMarketPrice", "$.regularMarketPreviousClose")
	q.FiftyTwoWeekLow = c.money(item, "$.fiftyTwoWeekLow")
	q.FiftyTwoWeekHigh = c.money(item, "$.fiftyTwoWeekHigh")
	q.FiftyDayAvg = c.money(item, "$.fiftyDayAverage")
	q.TwoHundredDayAvg = c.money(item, "$.twoHundredDayAverage")

	q.FiftyTwoWeekChange = percent(item, "$.fiftyTwoWeekChangePercent")
	q.PERatio = ratio(item, "$.trailingPE")
	q.PriceToBook = ratio(item, "$.priceToBook")
	q.Beta = ratio(item, "$.beta", "$.beta3Year")

	// these are fractions
	q.Yield = fraction(item, "$.trailingAnnualDividendYield", "$.yield")
	q.YTDReturn = fraction(item, "$.ytdReturn")
	q.ThreeYearReturn = fraction(item, "$.threeYearAverageReturn")
	q.FiveYearReturn = fraction(item, "$.fiveYearAverageReturn")
	return q
}

func (c *Client) text(item any, paths ...string) stockgains.Opt[string] {
	if s, ok := text(item, paths...); ok {
		return stockgains.Some(s)
	}
	return stockgains.None[string]()
}

func (c *Client) money(item any, paths ...string) stockgains.Opt[stockgains.Money] {
	if f, ok := number(item, paths...); ok && f > 0 {
		return stockgains.Some(stockgains.M(f, c.currency))
	}
	return stockgains.None[stockgains.Money]()
}

func ratio(item any, paths ...string) stockgains.Opt[float64] {
	if f, ok := number(item, paths...); ok {
		return stockgains.Some(f)
	}
	return stockgains.None[float64]()
}

func percent(item any, paths ...string) stockgains.Opt[stockgains.Percent] {
	if f, ok := number(item, paths...); ok {
		return stockgains.Some(stockgains.Percent(f))
	}
	return stockgains.None[stockgains.Percent]()
}

func fraction(item any, paths ...string) stockgains.Opt[stockgains.Percent] {
	if f, ok := number(item, paths...); ok {
		return stockgains.Some(stockgains.Fraction(f))
	}
	return stockgains.None[stockgains.Percent]()
}
