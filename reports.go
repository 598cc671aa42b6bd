package stockgains

import (
	"context"
	"slices"
)

// Valuation values every open position at current market prices, closed positions
// are summarized apart.
func (b *Book) Valuation(ctx context.Context, md MarketData) (*Valuation, error) {
	positions, err := b.Positions(ctx)
	if err != nil {
		return nil, err
	}
	quotes, err := FetchQuotes(ctx, md, OpenTickers(positions))
	if err != nil {
		return nil, err
	}
	return NewValuation(positions, quotes)
}

// TickerValuation values a single ticker. A closed position is valued without
// fetching any price.
func (b *Book) TickerValuation(ctx context.Context, md MarketData, ticker string) (ValuationRow, error) {
	p, err := b.Position(ctx, ticker)
	if err != nil {
		return ValuationRow{}, err
	}
	if p.IsClosed() {
		return Valuate(p, Money{cur: b.currency}), nil
	}
	quotes, err := FetchQuotes(ctx, md, []string{p.Ticker})
	if err != nil {
		return ValuationRow{}, err
	}
	price, err := quotes.Price(p.Ticker)
	if err != nil {
		return ValuationRow{}, err
	}
	row := Valuate(p, price)
	row.Name = quotes.Name(p.Ticker)
	return row, nil
}

// RebalanceReport is a rebalance with the market indicators of every bucket ticker.
type RebalanceReport struct {
	*Rebalance
	Unallocated Percent
	Indicators  []Indicators
}

// Rebalance computes the rebalancing suggestions against the stored targets.
//
// With an explicit total, buckets are sized on it, otherwise on the most
// overweight bucket.
func (b *Book) Rebalance(ctx context.Context, md MarketData, explicitTotal Opt[Money]) (*RebalanceReport, error) {
	targets, err := b.Targets(ctx)
	if err != nil {
		return nil, err
	}
	if !targets.IsSet() {
		return nil, ErrTargetsUnset
	}
	positions, err := b.Positions(ctx)
	if err != nil {
		return nil, err
	}
	var tickers []string
	for _, bucket := range targets.buckets {
		tickers = append(tickers, bucket.Tickers...)
	}
	quotes, err := FetchQuotes(ctx, md, tickers)
	if err != nil {
		return nil, err
	}
	values, err := BucketValues(targets, positions, quotes)
	if err != nil {
		return nil, err
	}
	r, err := ComputeRebalance(targets, values, explicitTotal)
	if err != nil {
		return nil, err
	}
	report := &RebalanceReport{
		Rebalance:   r,
		Unallocated: Percent(targets.Unallocated().InexactFloat64()),
	}
	for _, t := range tickers {
		if q, ok := quotes[t]; ok {
			report.Indicators = append(report.Indicators, NewIndicators(q))
		}
	}
	return report, nil
}

// Exposure is the weight of every open position, by market value and by cost.
type Exposure struct {
	Rows        []ExposureRow // largest market value first
	MarketValue Money
	CostBasis   Money
}

// ExposureRow is the weight of a single position.
type ExposureRow struct {
	Ticker      string
	Name        Opt[string]
	MarketValue Money
	CostBasis   Money
	PctValue    Opt[Percent]
	PctCost     Opt[Percent]
}

// NewExposure computes the weights of the open rows of v.
func NewExposure(v *Valuation) *Exposure {
	e := &Exposure{MarketValue: v.MarketValue, CostBasis: v.CostBasis}
	for _, r := range v.Rows {
		e.Rows = append(e.Rows, ExposureRow{
			Ticker:      r.Ticker,
			Name:        r.Name,
			MarketValue: r.MarketValue,
			CostBasis:   r.Position.CostBasis,
			PctValue:    r.MarketValue.Ratio(v.MarketValue),
			PctCost:     r.Position.CostBasis.Ratio(v.CostBasis),
		})
	}
	slices.SortStableFunc(e.Rows, func(a, b ExposureRow) int {
		return b.MarketValue.Decimal().Cmp(a.MarketValue.Decimal())
	})
	return e
}

// Exposure values the portfolio and returns the weight of each position.
func (b *Book) Exposure(ctx context.Context, md MarketData) (*Exposure, error) {
	v, err := b.Valuation(ctx, md)
	if err != nil {
		return nil, err
	}
	return NewExposure(v), nil
}
