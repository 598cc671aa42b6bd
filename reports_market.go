package stockgains

import (
	"context"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/stockgains/date"
)

// Indicators are valuation indicators of a ticker, distances are in percent of the
// reference: -10% from the 52 week high means 10% below it.
type Indicators struct {
	Ticker               string
	Name                 Opt[string]
	Exchange             Opt[string]
	Currency             Opt[string]
	Price                Opt[Money]
	PERatio              Opt[float64]
	PriceToBook          Opt[float64]
	Beta                 Opt[float64]
	FiftyTwoWeekChange   Opt[Percent]
	FromFiftyTwoWeekHigh Opt[Percent]
	FromFiftyTwoWeekLow  Opt[Percent]
	FromFiftyDayAvg      Opt[Percent]
	FromTwoHundredDayAvg Opt[Percent]
}

// NewIndicators derives the indicators of a quote.
func NewIndicators(q Quote) Indicators {
	return Indicators{
		Ticker:               q.Ticker,
		Name:                 q.FullName,
		Exchange:             q.Exchange,
		Currency:             q.Currency,
		Price:                inQuoteCurrency(q.Price, q.Currency),
		PERatio:              q.PERatio,
		PriceToBook:          q.PriceToBook,
		Beta:                 q.Beta,
		FiftyTwoWeekChange:   q.FiftyTwoWeekChange,
		FromFiftyTwoWeekHigh: distance(q.Price, q.FiftyTwoWeekHigh),
		FromFiftyTwoWeekLow:  distance(q.Price, q.FiftyTwoWeekLow),
		FromFiftyDayAvg:      distance(q.Price, q.FiftyDayAvg),
		FromTwoHundredDayAvg: distance(q.Price, q.TwoHundredDayAvg),
	}
}

// inQuoteCurrency tags price with the quote currency when it is an ISO code.
func inQuoteCurrency(price Opt[Money], currency Opt[string]) Opt[Money] {
	p, ok := price.Get()
	c, known := currency.Get()
	if !ok || !known || c != strings.ToUpper(c) || money.GetCurrency(c) == nil {
		return price
	}
	return Some(p.In(c))
}

// distance returns (price − ref) / ref in percent.
func distance(price, ref Opt[Money]) Opt[Percent] {
	p, ok := price.Get()
	if !ok {
		return None[Percent]()
	}
	r, ok := ref.Get()
	if !ok {
		return None[Percent]()
	}
	return p.Sub(r).Ratio(r)
}

// Indices returns the indicators of indices, in the given order. Indices unknown
// to the provider are skipped.
func Indices(ctx context.Context, md MarketData, indices []string) ([]Indicators, error) {
	quotes, err := FetchQuotes(ctx, md, indices)
	if err != nil {
		return nil, err
	}
	var res []Indicators
	for _, t := range indices {
		if q, ok := quotes[t]; ok {
			res = append(res, NewIndicators(q))
		}
	}
	return res, nil
}

// Growth is the price return of the traded tickers over standard periods.
type Growth struct {
	On      date.Date
	Periods []date.Period
	Rows    []GrowthRow
	Average map[date.Period]Opt[Percent] // mean over the tickers with a known return
}

// GrowthRow are the returns of a single ticker, annualized for multi-year periods.
type GrowthRow struct {
	Ticker  string
	Held    bool
	Returns map[date.Period]Opt[Percent]
}

// NewGrowthRow computes the returns ending on from a series of daily closes.
//
// A period starting more than a week before the first close is unknown.
func NewGrowthRow(ticker string, closes *date.History[Money], on date.Date) GrowthRow {
	row := GrowthRow{Ticker: ticker, Returns: make(map[date.Period]Opt[Percent])}
	first, _, ok := closes.First()
	_, end, endOK := closes.ValueAsOf(on)
	for _, p := range date.Periods {
		start := p.Start(on)
		if !ok || !endOK || start.Add(7).Before(first) {
			row.Returns[p] = None[Percent]()
			continue
		}
		if start.Before(first) {
			start = first
		}
		_, begin, _ := closes.ValueAsOf(start)
		ret, known := end.Sub(begin).Ratio(begin).Get()
		if !known {
			row.Returns[p] = None[Percent]()
			continue
		}
		if years := p.Years(); years > 1 {
			ret = Percent((math.Pow(1+float64(ret)/100, 1/float64(years)) - 1) * 100)
		}
		row.Returns[p] = Some(ret)
	}
	return row
}

// Growth fetches the daily history of every traded ticker and computes its returns.
func (b *Book) Growth(ctx context.Context, md MarketData, on date.Date) (*Growth, error) {
	positions, err := b.Positions(ctx)
	if err != nil {
		return nil, err
	}
	from := date.FiveYears.Start(on)
	g := &Growth{On: on, Periods: date.Periods, Average: make(map[date.Period]Opt[Percent])}
	averages := make(map[date.Period]*average[Percent])
	for _, p := range date.Periods {
		averages[p] = new(average[Percent])
	}
	for _, p := range positions {
		bars, err := md.History(ctx, p.Ticker, from)
		if err != nil {
			return nil, &MarketDataError{Ticker: p.Ticker, Err: err}
		}
		closes := new(date.History[Money])
		for _, bar := range bars {
			closes.Append(bar.Date, bar.Close)
		}
		row := NewGrowthRow(p.Ticker, closes, on)
		row.Held = !p.IsClosed()
		for period, ret := range row.Returns {
			averages[period].add(ret)
		}
		g.Rows = append(g.Rows, row)
	}
	for period, avg := range averages {
		g.Average[period] = avg.value()
	}
	return g, nil
}

// History is a listing of ledger events.
type History struct {
	Range     date.Range
	Ticker    string // empty for every ticker
	Trades    []TradeEvent
	Dividends []DividendEvent
}

// NewHistory filters the events of ledger by ticker (all when empty) and range.
func NewHistory(ledger *Ledger, ticker string, r date.Range) *History {
	h := &History{Range: r, Ticker: normalizeTicker(ticker)}
	for t := range ledger.Trades() {
		if (h.Ticker == "" || t.Ticker == h.Ticker) && r.Contains(t.Date) {
			h.Trades = append(h.Trades, t)
		}
	}
	for d := range ledger.Dividends() {
		if (h.Ticker == "" || d.Ticker == h.Ticker) && r.Contains(d.Date) {
			h.Dividends = append(h.Dividends, d)
		}
	}
	return h
}
