package stockgains

import (
	"cmp"
	"slices"
)

// ValuationRow is the value of a position at a given price.
type ValuationRow struct {
	Ticker         string
	Name           Opt[string]
	Position       Position
	Price          Money
	MarketValue    Money
	UnrealizedGain Money
	NetGain        Money
	PctGain        Opt[Percent] // unknown when the cost basis is zero
	PctNetGain     Opt[Percent] // unknown when the cost basis is zero
}

// Valuate values p at price.
//
//	marketValue    = price × volume
//	unrealizedGain = marketValue − costBasis
//	netGain        = (marketValue + dividends + realizedProfit) − (costBasis + buyBrokerage + sellBrokerage)
func Valuate(p Position, price Money) ValuationRow {
	mv := price.Mul(p.Volume)
	net := mv.Add(p.Dividends).Add(p.RealizedProfit).Sub(p.CostBasis.Add(p.Brokerage()))
	unrealized := mv.Sub(p.CostBasis)
	return ValuationRow{
		Ticker:         p.Ticker,
		Position:       p,
		Price:          price,
		MarketValue:    mv,
		UnrealizedGain: unrealized,
		NetGain:        net,
		PctGain:        unrealized.Ratio(p.CostBasis),
		PctNetGain:     net.Ratio(p.CostBasis),
	}
}

// ClosedPositions aggregates positions that hold no share anymore.
//
// They are kept apart from the open rows so that the portfolio cost only reflects
// the capital currently at risk.
type ClosedPositions struct {
	Tickers        []string
	RealizedProfit Money
	Dividends      Money
	Brokerage      Money
	NetProfit      Money // realized profit + dividends − brokerage
}

// Valuation is the value of the whole portfolio.
type Valuation struct {
	Rows   []ValuationRow // open positions, largest cost basis first
	Closed ClosedPositions

	MarketValue    Money
	CostBasis      Money
	UnrealizedGain Money
	Dividends      Money
	NetGain        Money // open positions only
	PctGain        Opt[Percent]
	PctNetGain     Opt[Percent]
	TotalNetGain   Money // open net gain + closed net profit
}

// NewValuation values positions with quotes.
//
// Every open position needs a price, a missing one fails with a *MarketDataError
// naming the ticker. Closed positions need none.
func NewValuation(positions []Position, quotes Quotes) (*Valuation, error) {
	v := &Valuation{}
	for _, p := range positions {
		if p.IsClosed() {
			v.Closed.add(p)
			continue
		}
		price, err := quotes.Price(p.Ticker)
		if err != nil {
			return nil, err
		}
		row := Valuate(p, price)
		row.Name = quotes.Name(p.Ticker)
		v.Rows = append(v.Rows, row)

		v.MarketValue = v.MarketValue.Add(row.MarketValue)
		v.CostBasis = v.CostBasis.Add(p.CostBasis)
		v.UnrealizedGain = v.UnrealizedGain.Add(row.UnrealizedGain)
		v.Dividends = v.Dividends.Add(p.Dividends)
		v.NetGain = v.NetGain.Add(row.NetGain)
	}
	slices.SortStableFunc(v.Rows, func(a, b ValuationRow) int {
		return cmp.Or(
			b.Position.CostBasis.Decimal().Cmp(a.Position.CostBasis.Decimal()),
			cmp.Compare(a.Ticker, b.Ticker),
		)
	})
	v.PctGain = v.UnrealizedGain.Ratio(v.CostBasis)
	v.PctNetGain = v.NetGain.Ratio(v.CostBasis)
	v.TotalNetGain = v.NetGain.Add(v.Closed.NetProfit)
	return v, nil
}

func (c *ClosedPositions) add(p Position) {
	c.Tickers = append(c.Tickers, p.Ticker)
	c.RealizedProfit = c.RealizedProfit.Add(p.RealizedProfit)
	c.Dividends = c.Dividends.Add(p.Dividends)
	c.Brokerage = c.Brokerage.Add(p.Brokerage())
	c.NetProfit = c.RealizedProfit.Add(c.Dividends).Sub(c.Brokerage)
}

// Row returns the row of ticker if it is held.
func (v *Valuation) Row(ticker string) (ValuationRow, bool) {
	i := slices.IndexFunc(v.Rows, func(r ValuationRow) bool { return r.Ticker == ticker })
	if i < 0 {
		return ValuationRow{}, false
	}
	return v.Rows[i], true
}

// OpenTickers returns the tickers of the open positions.
func OpenTickers(positions []Position) []string {
	var tickers []string
	for _, p := range positions {
		if !p.IsClosed() {
			tickers = append(tickers, p.Ticker)
		}
	}
	return tickers
}
