package stockgains

import (
	"context"

	"github.com/etnz/stockgains/date"
)

// Quote is the market information known about a ticker.
//
// Every field may be unknown: a provider that does not report a value leaves it
// unknown, never zero.
type Quote struct {
	Ticker             string
	FullName           Opt[string]
	Exchange           Opt[string]
	Currency           Opt[string] // quote currency, indices may differ from the book
	Price              Opt[Money]
	FiftyTwoWeekLow    Opt[Money]
	FiftyTwoWeekHigh   Opt[Money]
	FiftyDayAvg        Opt[Money]
	TwoHundredDayAvg   Opt[Money]
	FiftyTwoWeekChange Opt[Percent]
	PERatio            Opt[float64]
	PriceToBook        Opt[float64]
	Beta               Opt[float64]
	Yield              Opt[Percent] // trailing annual dividend yield
	YTDReturn          Opt[Percent]
	ThreeYearReturn    Opt[Percent] // annualized
	FiveYearReturn     Opt[Percent] // annualized
}

// Bar is a daily closing price.
type Bar struct {
	Date  date.Date
	Close Money
}

// MarketData is the market data provider.
//
// Implementations return retryable errors on network failures, the core never retries.
type MarketData interface {
	// Quotes returns the quotes of tickers, keyed by ticker. Tickers unknown to the
	// provider are absent from the map.
	Quotes(ctx context.Context, tickers []string) (map[string]Quote, error)
	// History returns the daily bars of ticker since from, in chronological order.
	History(ctx context.Context, ticker string, from date.Date) ([]Bar, error)
}

// Quotes maps a ticker to its Quote.
type Quotes map[string]Quote

// Price returns the current price of ticker or a *MarketDataError.
func (q Quotes) Price(ticker string) (Money, error) {
	quote, ok := q[ticker]
	if !ok {
		return Money{}, &MarketDataError{Ticker: ticker}
	}
	price, ok := quote.Price.Get()
	if !ok || !price.IsPositive() {
		return Money{}, &MarketDataError{Ticker: ticker}
	}
	return price, nil
}

// Name returns the full name of ticker if known.
func (q Quotes) Name(ticker string) Opt[string] { return q[ticker].FullName }

// FetchQuotes fetches the quotes of tickers, a provider failure is reported as a
// MarketDataError for the first ticker.
func FetchQuotes(ctx context.Context, md MarketData, tickers []string) (Quotes, error) {
	if len(tickers) == 0 {
		return Quotes{}, nil
	}
	quotes, err := md.Quotes(ctx, tickers)
	if err != nil {
		return nil, &MarketDataError{Ticker: tickers[0], Err: err}
	}
	return Quotes(quotes), nil
}
