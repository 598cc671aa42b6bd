package stockgains

import (
	"context"

	"github.com/shopspring/decimal"
)

// DividendEstimate estimates the yearly dividends of the open positions from
// their trailing yield.
type DividendEstimate struct {
	Rows         []DividendEstimateRow
	MarketValue  Money
	Estimate     Money        // sum of the known estimates
	AverageYield Opt[Percent] // over the tickers with a known yield
}

// DividendEstimateRow is the estimate of a single position.
type DividendEstimateRow struct {
	Ticker      string
	Name        Opt[string]
	MarketValue Money
	Yield       Opt[Percent]
	Estimate    Opt[Money] // yield × market value
}

// NewDividendEstimate computes the estimate from a valuation and the quotes used for it.
func NewDividendEstimate(v *Valuation, quotes Quotes) *DividendEstimate {
	e := &DividendEstimate{MarketValue: v.MarketValue}
	var yield average[Percent]
	for _, r := range v.Rows {
		row := DividendEstimateRow{
			Ticker:      r.Ticker,
			Name:        r.Name,
			MarketValue: r.MarketValue,
			Yield:       quotes[r.Ticker].Yield,
		}
		if y, ok := row.Yield.Get(); ok {
			est := r.MarketValue.Scale(decimal.NewFromFloat(float64(y)), hundred)
			row.Estimate = Some(est)
			e.Estimate = e.Estimate.Add(est)
		}
		yield.add(row.Yield)
		e.Rows = append(e.Rows, row)
	}
	e.AverageYield = yield.value()
	return e
}

// DividendEstimate values the portfolio and estimates its yearly dividends.
func (b *Book) DividendEstimate(ctx context.Context, md MarketData) (*DividendEstimate, error) {
	positions, err := b.Positions(ctx)
	if err != nil {
		return nil, err
	}
	quotes, err := FetchQuotes(ctx, md, OpenTickers(positions))
	if err != nil {
		return nil, err
	}
	v, err := NewValuation(positions, quotes)
	if err != nil {
		return nil, err
	}
	return NewDividendEstimate(v, quotes), nil
}

// Performance lists the returns reported by the market data provider.
type Performance struct {
	Rows []PerformanceRow
	// averages over the known values
	YTDReturn       Opt[Percent]
	ThreeYearReturn Opt[Percent]
	FiveYearReturn  Opt[Percent]
	PERatio         Opt[float64]
}

// PerformanceRow are the returns of one position.
type PerformanceRow struct {
	Ticker          string
	Name            Opt[string]
	MarketValue     Money
	YTDReturn       Opt[Percent]
	ThreeYearReturn Opt[Percent]
	FiveYearReturn  Opt[Percent]
	PERatio         Opt[float64]
}

// NewPerformance builds the performance of the open rows of v.
func NewPerformance(v *Valuation, quotes Quotes) *Performance {
	p := &Performance{}
	var ytd, three, five average[Percent]
	var pe average[float64]
	for _, r := range v.Rows {
		q := quotes[r.Ticker]
		p.Rows = append(p.Rows, PerformanceRow{
			Ticker:          r.Ticker,
			Name:            r.Name,
			MarketValue:     r.MarketValue,
			YTDReturn:       q.YTDReturn,
			ThreeYearReturn: q.ThreeYearReturn,
			FiveYearReturn:  q.FiveYearReturn,
			PERatio:         q.PERatio,
		})
		ytd.add(q.YTDReturn)
		three.add(q.ThreeYearReturn)
		five.add(q.FiveYearReturn)
		pe.add(q.PERatio)
	}
	p.YTDReturn, p.ThreeYearReturn, p.FiveYearReturn = ytd.value(), three.value(), five.value()
	p.PERatio = pe.value()
	return p
}

// Performance values the portfolio and lists the returns of each position.
func (b *Book) Performance(ctx context.Context, md MarketData) (*Performance, error) {
	positions, err := b.Positions(ctx)
	if err != nil {
		return nil, err
	}
	quotes, err := FetchQuotes(ctx, md, OpenTickers(positions))
	if err != nil {
		return nil, err
	}
	v, err := NewValuation(positions, quotes)
	if err != nil {
		return nil, err
	}
	return NewPerformance(v, quotes), nil
}

// average is the mean of the known values added to it.
type average[T ~float64] struct {
	sum T
	n   int
}

func (a *average[T]) add(o Opt[T]) {
	if v, ok := o.Get(); ok {
		a.sum += v
		a.n++
	}
}

func (a average[T]) value() Opt[T] {
	if a.n == 0 {
		return None[T]()
	}
	return Some(a.sum / T(a.n))
}
